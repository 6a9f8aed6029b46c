package git

import (
	"errors"
	"io"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CommitSummary is one entry of RecentCommits.
type CommitSummary struct {
	ShortHash string
	Subject   string
	Author    string
	Date      time.Time
}

// RecentCommits returns up to n commits reachable from HEAD, newest first.
// An unborn HEAD yields an empty slice. The repository is read in-process
// with go-git; no subprocess is started.
func RecentCommits(repoRoot string, n int) ([]CommitSummary, error) {
	if n <= 0 {
		return nil, nil
	}
	repo, err := gogit.PlainOpenWithOptions(repoRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	iter, err := repo.Log(&gogit.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	out := make([]CommitSummary, 0, n)
	for len(out) < n {
		c, err := iter.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, CommitSummary{
			ShortHash: shortHash(c.Hash.String()),
			Subject:   subject(c.Message),
			Author:    c.Author.Name,
			Date:      c.Author.When,
		})
	}
	return out, nil
}

func subject(msg string) string {
	msg = strings.TrimSpace(msg)
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return strings.TrimSpace(msg[:i])
	}
	return msg
}

package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"commitcraft/cli/internal/erruser"
)

// CommitInfo describes a commit created by Commit.
type CommitInfo struct {
	Hash      string
	ShortHash string
	Message   string
	Author    string
	Timestamp time.Time
}

// Commit records the staged changes with message. The message is passed on
// stdin ("git commit -F -"), so hooks run as for a normal commit. On failure
// the error is a CommitFailure whose cause carries git's output verbatim.
func Commit(ctx context.Context, repoRoot, message string) (*CommitInfo, error) {
	cmd := exec.CommandContext(ctx, "git", "commit", "-q", "-F", "-")
	cmd.Dir = repoRoot
	cmd.Env = commitEnv()
	cmd.Stdin = strings.NewReader(message)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return nil, erruser.NewKind(erruser.CommitFailure, "Failed to create commit.",
			fmt.Errorf("git commit: %w: %s", err, strings.TrimSpace(out.String())))
	}
	info, err := headInfo(ctx, repoRoot)
	if err != nil {
		return nil, erruser.NewKind(erruser.CommitFailure, "Commit created, but it could not be read back.", err)
	}
	info.Message = message
	return info, nil
}

// headInfo reads hash, author and committer date of HEAD.
func headInfo(ctx context.Context, repoRoot string) (*CommitInfo, error) {
	cmd := exec.CommandContext(ctx, "git", "log", "-1", "--format=%H%x00%an <%ae>%x00%cI", "HEAD")
	cmd.Dir = repoRoot
	cmd.Env = minimalEnv()
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git log -1: %w", err)
	}
	return parseHeadInfo(strings.TrimSpace(string(out)))
}

func parseHeadInfo(s string) (*CommitInfo, error) {
	parts := strings.Split(s, "\x00")
	if len(parts) != 3 {
		return nil, fmt.Errorf("git log -1: unexpected output %q", s)
	}
	ts, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return nil, fmt.Errorf("git log -1: commit date: %w", err)
	}
	hash := parts[0]
	return &CommitInfo{
		Hash:      hash,
		ShortHash: shortHash(hash),
		Author:    parts[1],
		Timestamp: ts,
	}, nil
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

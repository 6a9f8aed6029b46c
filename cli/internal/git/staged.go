package git

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"commitcraft/cli/internal/changes"
	"commitcraft/cli/internal/erruser"
)

// StagedChanges returns the staged files in the order git reports them, with
// line counts from numstat. Rename detection is on (-M), so a moved file is
// one Renamed record. Binary files have Binary set and zero counts.
func StagedChanges(ctx context.Context, repoRoot string) (changes.Set, error) {
	status, err := runDiff(ctx, repoRoot, "--name-status")
	if err != nil {
		return changes.Set{}, err
	}
	records, err := parseNameStatus(status)
	if err != nil {
		return changes.Set{}, erruser.NewKind(erruser.RepositoryError, "Failed to analyze git changes.", err)
	}
	numstat, err := runDiff(ctx, repoRoot, "--numstat")
	if err != nil {
		return changes.Set{}, err
	}
	counts, err := parseNumstat(numstat)
	if err != nil {
		return changes.Set{}, erruser.NewKind(erruser.RepositoryError, "Failed to analyze git changes.", err)
	}
	for i := range records {
		c, ok := counts[records[i].Path]
		if !ok || c.binary {
			records[i].Binary = true
			continue
		}
		records[i].Additions = c.added
		records[i].Deletions = c.deleted
	}
	return changes.NewSet(records), nil
}

func runDiff(ctx context.Context, repoRoot, format string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--no-color", "--no-ext-diff", "-M", "-z", format)
	cmd.Dir = repoRoot
	cmd.Env = minimalEnv()
	out, err := cmd.Output()
	if err != nil {
		return "", erruser.NewKind(erruser.RepositoryError, "Failed to analyze git changes.",
			fmt.Errorf("git diff --cached %s: %w", format, err))
	}
	return string(out), nil
}

// parseNameStatus parses "git diff --name-status -z": a status token followed
// by one path, or two (source, destination) for renames and copies.
func parseNameStatus(out string) ([]changes.Record, error) {
	toks := splitNUL(out)
	var records []changes.Record
	for i := 0; i < len(toks); {
		status := toks[i]
		kind := changes.KindFromStatus(status)
		if kind == changes.Renamed || kind == changes.Copied {
			if i+2 >= len(toks) {
				return nil, fmt.Errorf("name-status: truncated %s entry", status)
			}
			records = append(records, changes.Record{Path: toks[i+2], OldPath: toks[i+1], Kind: kind})
			i += 3
			continue
		}
		if i+1 >= len(toks) {
			return nil, fmt.Errorf("name-status: truncated %s entry", status)
		}
		records = append(records, changes.Record{Path: toks[i+1], Kind: kind})
		i += 2
	}
	return records, nil
}

type lineCount struct {
	added, deleted uint
	binary         bool
}

// parseNumstat parses "git diff --numstat -z". Each entry is
// "added\tdeleted\tpath"; for renames the path field is empty and the source
// and destination follow as separate tokens. Binary files report "-".
// The result is keyed by destination path.
func parseNumstat(out string) (map[string]lineCount, error) {
	toks := splitNUL(out)
	counts := make(map[string]lineCount, len(toks))
	for i := 0; i < len(toks); i++ {
		fields := strings.SplitN(toks[i], "\t", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("numstat: malformed entry %q", toks[i])
		}
		path := fields[2]
		if path == "" {
			if i+2 >= len(toks) {
				return nil, fmt.Errorf("numstat: truncated rename entry")
			}
			path = toks[i+2]
			i += 2
		}
		c, err := parseCounts(fields[0], fields[1])
		if err != nil {
			return nil, fmt.Errorf("numstat %s: %w", path, err)
		}
		counts[path] = c
	}
	return counts, nil
}

func parseCounts(added, deleted string) (lineCount, error) {
	if added == "-" || deleted == "-" {
		return lineCount{binary: true}, nil
	}
	a, err := strconv.ParseUint(added, 10, 0)
	if err != nil {
		return lineCount{}, err
	}
	d, err := strconv.ParseUint(deleted, 10, 0)
	if err != nil {
		return lineCount{}, err
	}
	return lineCount{added: uint(a), deleted: uint(d)}, nil
}

// splitNUL splits -z output into tokens, dropping the trailing empty one.
func splitNUL(out string) []string {
	out = strings.TrimSuffix(out, "\x00")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\x00")
}

package git

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitcraft/cli/internal/erruser"
)

func TestCommit(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	writeFile(t, repo, "f2.txt", "b\n")
	run(t, repo, "git", "add", "f2.txt")

	before := time.Now().Add(-time.Minute)
	info, err := Commit(context.Background(), repo, "feat: add second file")
	require.NoError(t, err)

	assert.Len(t, info.Hash, 40)
	assert.Equal(t, info.Hash[:8], info.ShortHash)
	assert.Equal(t, "feat: add second file", info.Message)
	assert.Equal(t, "Test <test@commitcraft.local>", info.Author)
	assert.True(t, info.Timestamp.After(before), "timestamp %v", info.Timestamp)

	head := strings.TrimSpace(run(t, repo, "git", "rev-parse", "HEAD"))
	assert.Equal(t, head, info.Hash)
	msg := strings.TrimSpace(run(t, repo, "git", "log", "-1", "--format=%B"))
	assert.Equal(t, "feat: add second file", msg)

	ok, err := HasStagedChanges(context.Background(), repo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCommit_unbornBranch(t *testing.T) {
	t.Parallel()
	repo := initEmptyRepo(t)
	writeFile(t, repo, "README.md", "# hi\n")
	run(t, repo, "git", "add", "README.md")
	info, err := Commit(context.Background(), repo, "docs: add readme")
	require.NoError(t, err)
	assert.NotEmpty(t, info.Hash)
}

func TestCommit_nothingStaged(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	_, err := Commit(context.Background(), repo, "chore: nothing to see")
	require.Error(t, err)
	assert.Equal(t, erruser.CommitFailure, erruser.KindOf(err))
	assert.Contains(t, strings.ToLower(err.(*erruser.Err).Err.Error()), "nothing")
}

func TestParseHeadInfo(t *testing.T) {
	t.Parallel()
	info, err := parseHeadInfo("0123456789abcdef0123456789abcdef01234567\x00Ada <ada@example.com>\x002024-05-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "01234567", info.ShortHash)
	assert.Equal(t, "Ada <ada@example.com>", info.Author)
	assert.Equal(t, 2024, info.Timestamp.Year())

	_, err = parseHeadInfo("only-a-hash")
	assert.Error(t, err)
	_, err = parseHeadInfo("h\x00a\x00not-a-date")
	assert.Error(t, err)
}

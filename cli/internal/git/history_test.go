package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentCommits(t *testing.T) {
	t.Parallel()
	repo := initRepo(t)
	for _, name := range []string{"f2.txt", "f3.txt", "f4.txt"} {
		writeFile(t, repo, name, name+"\n")
		run(t, repo, "git", "add", name)
		run(t, repo, "git", "commit", "-m", "add "+name+"\n\nbody text")
	}

	got, err := RecentCommits(repo, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "add f4.txt", got[0].Subject)
	assert.Equal(t, "add f3.txt", got[1].Subject)
	assert.Equal(t, "add f2.txt", got[2].Subject)
	assert.Len(t, got[0].ShortHash, 8)
	assert.Equal(t, "Test", got[0].Author)

	all, err := RecentCommits(repo, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRecentCommits_unbornBranch(t *testing.T) {
	t.Parallel()
	got, err := RecentCommits(initEmptyRepo(t), 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentCommits_notARepo(t *testing.T) {
	t.Parallel()
	_, err := RecentCommits(t.TempDir(), 3)
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "feat: x", subject("feat: x\n\nbody"))
	assert.Equal(t, "single", subject("  single \n"))
}

// Package git (repo.go) provides repository discovery and staged-change
// helpers. Commands run through exec git with a minimal environment.
package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"commitcraft/cli/internal/erruser"
)

// RepoRoot returns the absolute path of the git repository root containing dir.
// Runs "git rev-parse --show-toplevel" with Dir=dir. Returns a RepositoryError
// if dir is not inside a git repository.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	cmd.Env = minimalEnv()
	out, err := cmd.Output()
	if err != nil {
		return "", erruser.NewKind(erruser.RepositoryError, "Not a git repository!", err,
			"Please run this command from inside a git repository, or pass its path.")
	}
	root := strings.TrimSpace(string(out))
	return filepath.Abs(root)
}

// HasStagedChanges reports whether the index differs from HEAD (or from the
// empty tree on an unborn branch). Runs "git diff --cached --quiet".
func HasStagedChanges(ctx context.Context, repoRoot string) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	cmd.Dir = repoRoot
	cmd.Env = minimalEnv()
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, erruser.NewKind(erruser.RepositoryError, "Could not check staged changes.", err)
}

// ErrNoStagedChanges is returned by RequireStaged when the index is clean.
var ErrNoStagedChanges = erruser.NewKind(erruser.RepositoryError, "No staged changes found!", nil,
	"Please stage some changes first:",
	"  git add <files>",
	"  git add .  # to stage all changes")

// RequireStaged returns ErrNoStagedChanges when nothing is staged.
func RequireStaged(ctx context.Context, repoRoot string) error {
	ok, err := HasStagedChanges(ctx, repoRoot)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoStagedChanges
	}
	return nil
}

func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"GIT_TERMINAL_PROMPT=0",
		"GIT_PAGER=cat", // prevent pager; subprocess output is captured
	}
	if home := os.Getenv("HOME"); home != "" {
		env = append(env, "HOME="+home)
	} else if runtime.GOOS == "windows" {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			env = append(env, "HOME="+profile)
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		env = append(env, "XDG_CONFIG_HOME="+xdg)
	}
	return env
}

// commitEnv is the full user environment: commit hooks and signing
// programs expect it.
func commitEnv() []string {
	return append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
}

// MinimalEnv returns the environment used for read-only git subprocesses.
// Exported for tests.
func MinimalEnv() []string {
	return minimalEnv()
}

package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitcraft/cli/internal/changes"
	"commitcraft/cli/internal/erruser"
	"commitcraft/cli/internal/git"
	"commitcraft/cli/internal/ollama"
)

func newTestUI(input string, debug bool) (*UI, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out, Options{Debug: debug}), &out
}

var suggestions = []string{
	"feat: add login page",
	"feat(auth): add session handling",
	"feat: wire login to backend",
}

func TestChooseSuggestion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		input     string
		want      string
		wantKind  erruser.Kind
		wantInOut []string
	}{
		{name: "first", input: "1\n", want: suggestions[0]},
		{name: "last", input: " 3 \n", want: suggestions[2]},
		{name: "no trailing newline", input: "2", want: suggestions[1]},
		{name: "cancel", input: "0\n", wantKind: erruser.Cancelled, wantInOut: []string{"Commit cancelled"}},
		{name: "eof", input: "", wantKind: erruser.Cancelled, wantInOut: []string{"Operation cancelled"}},
		{
			name:      "non-numeric then valid",
			input:     "abc\n2\n",
			want:      suggestions[1],
			wantInOut: []string{"Please enter a valid number"},
		},
		{
			name:      "out of range then valid",
			input:     "4\n-1\n1\n",
			want:      suggestions[0],
			wantInOut: []string{"Please enter a number between 0 and 3"},
		},
		{
			name:      "invalid then eof",
			input:     "nine\n",
			wantKind:  erruser.Cancelled,
			wantInOut: []string{"Please enter a valid number", "Operation cancelled"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, out := newTestUI(tt.input, false)
			got, err := u.ChooseSuggestion(suggestions)
			if tt.wantKind != erruser.Unclassified {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, erruser.KindOf(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			for _, s := range tt.wantInOut {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestChooseSuggestion_menu(t *testing.T) {
	t.Parallel()
	u, out := newTestUI("1\n", false)
	_, err := u.ChooseSuggestion(suggestions)
	require.NoError(t, err)
	got := out.String()
	assert.Contains(t, got, "1. feat: add login page\n")
	assert.Contains(t, got, "3. feat: wire login to backend\n")
	assert.Contains(t, got, "0. Cancel (don't commit)\n")
	assert.Contains(t, got, "Choose a commit message (0-3): ")
	assert.NotContains(t, got, "\x1b[", "styling must be off when Color is false")
}

func TestChooseSuggestion_empty(t *testing.T) {
	t.Parallel()
	u, _ := newTestUI("1\n", false)
	_, err := u.ChooseSuggestion(nil)
	assert.Equal(t, erruser.NoValidSuggestions, erruser.KindOf(err))
}

func TestParseChoice(t *testing.T) {
	t.Parallel()
	n, err := parseChoice("0", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = parseChoice("5", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	for _, bad := range []string{"", "6", "-1", "1.5", "one"} {
		_, err := parseChoice(bad, 5)
		assert.Equal(t, erruser.InvalidSelection, erruser.KindOf(err), "input %q", bad)
	}
}

func TestConfirmCommit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		auto  bool
		want  bool
	}{
		{"y\n", false, true},
		{"YES\n", false, true},
		{"n\n", false, false},
		{"\n", false, false},
		{"sure\n", false, false},
		{"", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		u, out := newTestUI(tt.input, false)
		got, err := u.ConfirmCommit("fix: handle nil config", tt.auto)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q auto %v", tt.input, tt.auto)
		assert.Contains(t, out.String(), "'fix: handle nil config'")
		if tt.auto {
			assert.Contains(t, out.String(), "Auto-confirm enabled")
			assert.NotContains(t, out.String(), "Proceed with commit?")
		} else {
			assert.Contains(t, out.String(), "Proceed with commit? (y/N): ")
		}
	}
}

func TestShowChanges(t *testing.T) {
	t.Parallel()
	u, out := newTestUI("", false)
	u.ShowChanges(changes.NewSet([]changes.Record{
		{Path: "main.go", Kind: changes.Modified, Additions: 4, Deletions: 1},
		{Path: "new.go", OldPath: "old.go", Kind: changes.Renamed},
		{Path: "logo.png", Kind: changes.Added, Binary: true},
	}))
	got := out.String()
	assert.Contains(t, got, "📝 main.go (Modified)")
	assert.Contains(t, got, "📛 old.go → new.go (Renamed)")
	assert.Contains(t, got, "➕ logo.png (Added)")
	assert.Contains(t, got, "Total files: 3 (+4 -1)")

	u, out = newTestUI("", false)
	u.ShowChanges(changes.NewSet([]changes.Record{{Path: "logo.png", Kind: changes.Added, Binary: true}}))
	assert.Contains(t, out.String(), "Total files: 1\n")
}

func TestShowRecentCommits(t *testing.T) {
	t.Parallel()
	u, out := newTestUI("", false)
	u.ShowRecentCommits(nil)
	assert.Empty(t, out.String())

	long := strings.Repeat("x", 60)
	u.ShowRecentCommits([]git.CommitSummary{
		{ShortHash: "abcd1234", Subject: "feat: first"},
		{ShortHash: "beef5678", Subject: long},
	})
	got := out.String()
	assert.Contains(t, got, "abcd1234 - feat: first\n")
	assert.Contains(t, got, "beef5678 - "+strings.Repeat("x", 50)+"...\n")
}

func TestShowStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status ollama.Status
		want   []string
	}{
		{"connected", ollama.Connected{Models: []string{"llama3.2:latest"}}, []string{"Ollama connected and model ready"}},
		{"missing", ollama.ModelMissing{Available: []string{"mistral", "qwen"}}, []string{"Model not available: llama3.2:latest", "Available models: mistral, qwen"}},
		{"missing none installed", ollama.ModelMissing{}, []string{"Model not available"}},
		{"unreachable", ollama.Unreachable{Detail: "connection refused"}, []string{"Ollama connection failed: connection refused"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, out := newTestUI("", false)
			u.ShowStatus(tt.status, "llama3.2:latest")
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestDebugAndCommitResult(t *testing.T) {
	t.Parallel()
	info := &git.CommitInfo{
		ShortHash: "0123abcd",
		Message:   "docs: update readme",
		Author:    "Ada <ada@example.com>",
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	quiet, qout := newTestUI("", false)
	quiet.Debug("hidden")
	quiet.ShowCommitResult(info)
	assert.NotContains(t, qout.String(), "hidden")
	assert.NotContains(t, qout.String(), "Author")
	assert.Contains(t, qout.String(), "📋 0123abcd - docs: update readme")

	loud, lout := newTestUI("", true)
	loud.Debug("shown")
	loud.ShowCommitResult(info)
	assert.Contains(t, lout.String(), "🔍 DEBUG: shown")
	assert.Contains(t, lout.String(), "🔍 Author: Ada <ada@example.com>")
	assert.Contains(t, lout.String(), "2024-05-01 10:00:00 +0000")
}

func TestStepAndHeader(t *testing.T) {
	t.Parallel()
	u, out := newTestUI("", false)
	u.Header()
	u.Step(2, 5, "Checking AI model availability...")
	u.Warn("careful")
	assert.Contains(t, out.String(), "AI-Powered Git Commit Generator")
	assert.Contains(t, out.String(), "📍 [2/5] Checking AI model availability...")
	assert.Contains(t, out.String(), "⚠️  careful")
}

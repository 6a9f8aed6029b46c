package ui

import (
	"fmt"
	"strings"

	"commitcraft/cli/internal/changes"
	"commitcraft/cli/internal/git"
	"commitcraft/cli/internal/ollama"
)

var kindEmoji = map[changes.Kind]string{
	changes.Added:       "➕",
	changes.Modified:    "📝",
	changes.Deleted:     "🗑️",
	changes.Renamed:     "📛",
	changes.Copied:      "📋",
	changes.TypeChanged: "🔄",
}

func emojiFor(k changes.Kind) string {
	if e, ok := kindEmoji[k]; ok {
		return e
	}
	return "📄"
}

// ShowChanges lists the staged files with their change kind.
func (u *UI) ShowChanges(set changes.Set) {
	u.println("\n📊 Found staged changes:")
	u.println(strings.Repeat("-", 30))
	for _, r := range set.Records {
		path := r.Path
		if r.OldPath != "" {
			path = r.OldPath + " → " + r.Path
		}
		u.println(fmt.Sprintf("%s %s (%s)", emojiFor(r.Kind), path, r.Kind.Label()))
	}
	if set.HasLineCounts() {
		u.println(fmt.Sprintf("\nTotal files: %d (+%d -%d)", set.Len(), set.TotalAdditions(), set.TotalDeletions()))
	} else {
		u.println(fmt.Sprintf("\nTotal files: %d", set.Len()))
	}
	u.println(strings.Repeat("-", 30))
}

// maxSubject is the subject width shown for recent commits.
const maxSubject = 50

// ShowRecentCommits prints commits as context. Nothing is printed for an empty list.
func (u *UI) ShowRecentCommits(commits []git.CommitSummary) {
	if len(commits) == 0 {
		return
	}
	u.println("\n📈 Recent commits (for context):")
	u.println(strings.Repeat("-", 40))
	for _, c := range commits {
		subject := c.Subject
		if r := []rune(subject); len(r) > maxSubject {
			subject = string(r[:maxSubject]) + "..."
		}
		u.println(u.style(u.muted, c.ShortHash) + " - " + subject)
	}
	u.println(strings.Repeat("-", 40))
}

// ShowStatus reports the inference server state for model.
func (u *UI) ShowStatus(st ollama.Status, model string) {
	switch s := st.(type) {
	case ollama.Connected:
		u.Success("Ollama connected and model ready")
	case ollama.ModelMissing:
		u.Error("Model not available: " + model)
		if len(s.Available) > 0 {
			u.println("Available models: " + strings.Join(s.Available, ", "))
		}
	case ollama.Unreachable:
		u.Error("Ollama connection failed: " + s.Detail)
	}
}

// ShowCommitResult prints the created commit.
func (u *UI) ShowCommitResult(info *git.CommitInfo) {
	u.Success("Commit created successfully!")
	u.println(fmt.Sprintf("📋 %s - %s", info.ShortHash, info.Message))
	if u.opts.Debug {
		u.println("🔍 Author: " + info.Author)
		u.println("🔍 Timestamp: " + info.Timestamp.Format("2006-01-02 15:04:05 -0700"))
	}
}

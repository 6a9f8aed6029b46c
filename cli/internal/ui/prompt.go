package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"commitcraft/cli/internal/erruser"
)

// errCancelled is returned when the user declines to pick a suggestion.
var errCancelled = erruser.NewKind(erruser.Cancelled, "Operation cancelled.", nil)

// ChooseSuggestion shows the numbered suggestions and returns the chosen
// one. Invalid answers re-prompt. "0" or end of input returns a Cancelled error.
func (u *UI) ChooseSuggestion(suggestions []string) (string, error) {
	if len(suggestions) == 0 {
		return "", erruser.NewKind(erruser.NoValidSuggestions, "No valid suggestions received.", nil)
	}
	bar := strings.Repeat("=", 60)
	u.println("\n" + bar)
	u.println(u.style(u.header, "💡 Generated Commit Message Suggestions:"))
	u.println(bar)
	for i, s := range suggestions {
		u.println(fmt.Sprintf("%d. %s", i+1, s))
	}
	u.println("0. Cancel (don't commit)")
	u.println(bar)

	for {
		answer, err := u.readLine(fmt.Sprintf("\nChoose a commit message (0-%d): ", len(suggestions)))
		if err == io.EOF {
			u.println("\n🚫 Operation cancelled")
			return "", errCancelled
		}
		if err != nil {
			return "", err
		}
		n, err := parseChoice(answer, len(suggestions))
		if err != nil {
			u.Error(err.Error())
			continue
		}
		if n == 0 {
			u.Info("Commit cancelled")
			return "", errCancelled
		}
		return suggestions[n-1], nil
	}
}

// parseChoice accepts 0..max. Anything else is an InvalidSelection.
func parseChoice(answer string, max int) (int, error) {
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, erruser.NewKind(erruser.InvalidSelection, "Please enter a valid number", err)
	}
	if n < 0 || n > max {
		return 0, erruser.NewKind(erruser.InvalidSelection,
			fmt.Sprintf("Please enter a number between 0 and %d", max), nil)
	}
	return n, nil
}

// ConfirmCommit asks before committing msg. auto skips the question.
// Only "y" or "yes" confirm; end of input declines.
func (u *UI) ConfirmCommit(msg string, auto bool) (bool, error) {
	u.println("\n📝 Ready to commit with message:")
	u.println("'" + msg + "'")
	if auto {
		u.println("🔄 Auto-confirm enabled")
		return true, nil
	}
	answer, err := u.readLine("\nProceed with commit? (y/N): ")
	if err == io.EOF {
		u.println("")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

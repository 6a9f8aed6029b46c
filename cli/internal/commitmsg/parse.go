package commitmsg

import (
	"strings"
	"unicode/utf8"
)

// minLength drops fragments such as "ok:" that cannot be a commit subject.
const minLength = 10

var bulletPrefixes = []string{"- ", "* ", "• "}

// Parse extracts candidate messages from raw model output, one per line, in
// the order they appear. It strips one list marker per line and drops lines
// that are empty, have no colon, are shorter than 10 characters, or talk
// about the format instead of being a message. Identical lines are kept.
// When max > 0 at most max candidates are returned.
func Parse(raw string, max int) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(stripMarker(line))
		if !strings.Contains(line, ":") {
			continue
		}
		if utf8.RuneCountInString(line) < minLength {
			continue
		}
		if isMetaCommentary(line) {
			continue
		}
		out = append(out, line)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// stripMarker removes a leading "<digits>. " or bullet marker.
func stripMarker(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && strings.HasPrefix(line[i:], ". ") {
		return line[i+2:]
	}
	for _, p := range bulletPrefixes {
		if strings.HasPrefix(line, p) {
			return line[len(p):]
		}
	}
	return line
}

func isMetaCommentary(line string) bool {
	lc := strings.ToLower(line)
	if strings.Contains(lc, "correct format") {
		return true
	}
	return strings.Contains(lc, "commit message") && strings.Contains(lc, "format")
}

// Select keeps the candidates for which valid returns true, in order, and
// caps the result at max when max > 0. valid is called once per candidate
// until the cap is reached.
func Select(parsed []string, valid func(string) bool, max int) []string {
	out := make([]string, 0, len(parsed))
	for _, msg := range parsed {
		if max > 0 && len(out) == max {
			break
		}
		if valid(msg) {
			out = append(out, msg)
		}
	}
	return out
}

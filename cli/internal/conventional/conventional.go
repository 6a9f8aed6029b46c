// Package conventional validates and decomposes conventional-commit subject
// lines of the form "type(scope): description".
package conventional

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength is the longest accepted message, in characters.
const MaxLength = 72

// Type is a conventional-commit type.
type Type string

const (
	Feat     Type = "feat"
	Fix      Type = "fix"
	Docs     Type = "docs"
	Style    Type = "style"
	Refactor Type = "refactor"
	Test     Type = "test"
	Chore    Type = "chore"
	Perf     Type = "perf"
	CI       Type = "ci"
	Build    Type = "build"
	Revert   Type = "revert"
)

// TypeInfo pairs a type with a one-line description.
type TypeInfo struct {
	Type        Type
	Description string
}

var typeInfos = []TypeInfo{
	{Feat, "A new feature"},
	{Fix, "A bug fix"},
	{Docs, "Documentation only changes"},
	{Style, "Changes that do not affect the meaning of the code"},
	{Refactor, "A code change that neither fixes a bug nor adds a feature"},
	{Test, "Adding missing tests or correcting existing tests"},
	{Chore, "Changes to the build process or auxiliary tools"},
	{Perf, "A code change that improves performance"},
	{CI, "Changes to CI configuration files and scripts"},
	{Build, "Changes that affect the build system or external dependencies"},
	{Revert, "Reverts a previous commit"},
}

// Types returns every accepted type with its description, in canonical order.
func Types() []TypeInfo {
	out := make([]TypeInfo, len(typeInfos))
	copy(out, typeInfos)
	return out
}

// Valid reports whether t is one of the accepted types.
func (t Type) Valid() bool {
	for _, ti := range typeInfos {
		if ti.Type == t {
			return true
		}
	}
	return false
}

// Scope and description must be non-empty; the scope may not nest parentheses.
var messagePattern = regexp.MustCompile(`^(feat|fix|docs|style|refactor|test|chore|perf|ci|build|revert)(\(([^()]+)\))?: (.+)$`)

// Reason says why a message was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	EmptyMessage
	FormatMismatch
	TooLong
	DescriptionCapitalized
)

// String returns the explanation shown to the user.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case EmptyMessage:
		return "commit message cannot be empty"
	case FormatMismatch:
		return "message doesn't follow conventional commit format: type(scope): description"
	case TooLong:
		return "message too long; keep it under 72 characters"
	case DescriptionCapitalized:
		return "description should start with a lowercase letter"
	default:
		return "unknown reason"
	}
}

// Validate checks msg against the conventional-commit rules. Checks run in
// order (empty, format, length, capitalization) and the first failure wins.
func Validate(msg string) (bool, Reason) {
	if strings.TrimSpace(msg) == "" {
		return false, EmptyMessage
	}
	if !messagePattern.MatchString(msg) {
		return false, FormatMismatch
	}
	if utf8.RuneCountInString(msg) > MaxLength {
		return false, TooLong
	}
	if i := strings.Index(msg, ": "); i >= 0 {
		desc := msg[i+2:]
		if r, _ := utf8.DecodeRuneInString(desc); r != utf8.RuneError && unicode.IsUpper(r) {
			return false, DescriptionCapitalized
		}
	}
	return true, ReasonNone
}

// IsValid is Validate without the reason, for use as a filter.
func IsValid(msg string) bool {
	ok, _ := Validate(msg)
	return ok
}

// Commit is the parsed view of a message. Type is empty when msg does not
// match the format; Description then holds the whole message.
type Commit struct {
	Type        Type
	Scope       string
	Description string
}

// Extract decomposes msg. It never fails.
func Extract(msg string) Commit {
	m := messagePattern.FindStringSubmatch(msg)
	if m == nil {
		return Commit{Description: msg}
	}
	return Commit{Type: Type(m[1]), Scope: m[3], Description: m[4]}
}

// Format renders a message from its parts. An empty scope is omitted.
func Format(t Type, scope, description string) string {
	if scope == "" {
		return string(t) + ": " + description
	}
	return string(t) + "(" + scope + "): " + description
}

// String renders c with Format.
func (c Commit) String() string {
	if c.Type == "" {
		return c.Description
	}
	return Format(c.Type, c.Scope, c.Description)
}

// Package erruser provides errors whose Error() returns only a user-facing
// message; the cause is available via Unwrap() for Details or logs.
//
// Every terminal failure of a commitcraft run carries a Kind so the CLI can
// choose remediation text and an exit code without string matching.
package erruser

import "errors"

// Kind classifies a user-facing failure.
type Kind int

const (
	// Unclassified is the zero Kind, used by New.
	Unclassified Kind = iota
	// ConfigError: configuration could not be loaded or failed validation.
	ConfigError
	// RepositoryError: not a repository, or nothing staged.
	RepositoryError
	// InferenceUnavailable: server unreachable or model not installed.
	InferenceUnavailable
	// InferenceTimeout: the generate request exceeded the configured timeout.
	InferenceTimeout
	// GenerationEmpty: the model answered but no candidate line survived parsing.
	GenerationEmpty
	// NoValidSuggestions: candidates were parsed but none passed validation.
	NoValidSuggestions
	// InvalidSelection: out-of-range or non-numeric choice. Recovered by re-prompting.
	InvalidSelection
	// CommitFailure: git refused to create the commit.
	CommitFailure
	// Cancelled: the user declined or interrupted. Not a failure for exit codes.
	Cancelled
)

var kindNames = map[Kind]string{
	Unclassified:         "unclassified",
	ConfigError:          "config",
	RepositoryError:      "repository",
	InferenceUnavailable: "inference-unavailable",
	InferenceTimeout:     "inference-timeout",
	GenerationEmpty:      "generation-empty",
	NoValidSuggestions:   "no-valid-suggestions",
	InvalidSelection:     "invalid-selection",
	CommitFailure:        "commit-failure",
	Cancelled:            "cancelled",
}

// String returns a short stable name for logs.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Err holds a user-facing message and an optional cause for debugging.
// Error() returns only Msg so the primary line never contains command names
// or exit codes; use Unwrap() for technical detail. Hints are remediation
// lines printed after the message.
type Err struct {
	Kind  Kind
	Msg   string
	Hints []string
	Err   error
}

// Error returns the user-facing message only.
func (e *Err) Error() string {
	if e == nil {
		return ""
	}
	return e.Msg
}

// Unwrap returns the underlying error for Details or logging.
// Handles nil receiver (method call on nil *Err is valid in Go).
func (e *Err) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New returns an error with the given user-facing message. If err is non-nil,
// it is wrapped and available via Unwrap() so callers can print "Details: %v".
// If err is nil, returns a simple error with just msg (no Unwrap).
func New(msg string, err error) error {
	if err == nil {
		return errors.New(msg)
	}
	return &Err{Msg: msg, Err: err}
}

// NewKind returns a classified error. err may be nil.
func NewKind(kind Kind, msg string, err error, hints ...string) error {
	return &Err{Kind: kind, Msg: msg, Hints: hints, Err: err}
}

// KindOf returns the Kind of the first *Err in err's chain, or Unclassified.
func KindOf(err error) Kind {
	var e *Err
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unclassified
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HintsOf returns the remediation hints of the first *Err in err's chain.
func HintsOf(err error) []string {
	var e *Err
	if errors.As(err, &e) {
		return e.Hints
	}
	return nil
}

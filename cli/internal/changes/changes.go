// Package changes models a staged-change set and renders it as the
// deterministic summary text sent to the model.
//
// # Line counts
// Additions and deletions come from git numstat. Binary files have no line
// counts; they are rendered without the "+a -d" suffix and contribute zero to
// the totals.
//
// # Ordering
// Records keep the order git reported them in. Summarize never sorts,
// deduplicates or truncates.
package changes

import (
	"fmt"
	"strings"
)

// Kind is the change kind of one staged file.
type Kind int

const (
	Unknown Kind = iota
	Added
	Modified
	Deleted
	Renamed
	Copied
	TypeChanged
)

var kindLabels = map[Kind]string{
	Added:       "Added",
	Modified:    "Modified",
	Deleted:     "Deleted",
	Renamed:     "Renamed",
	Copied:      "Copied",
	TypeChanged: "Type changed",
	Unknown:     "Unknown",
}

// Label returns the human-readable label used in summaries.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return kindLabels[Unknown]
}

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Label() }

// KindFromStatus maps a git --name-status letter to a Kind. Rename and copy
// statuses may carry a similarity score (e.g. "R087"); only the first byte
// is significant.
func KindFromStatus(status string) Kind {
	if status == "" {
		return Unknown
	}
	switch status[0] {
	case 'A':
		return Added
	case 'M':
		return Modified
	case 'D':
		return Deleted
	case 'R':
		return Renamed
	case 'C':
		return Copied
	case 'T':
		return TypeChanged
	default:
		return Unknown
	}
}

// Record is one staged file.
type Record struct {
	Path string
	// OldPath is the source path of a rename or copy; empty otherwise.
	OldPath   string
	Kind      Kind
	Additions uint
	Deletions uint
	// Binary is true when git reported no line counts for the file.
	Binary bool
}

// Set is the ordered staged-change set of one run.
type Set struct {
	Records []Record
}

// NewSet returns a Set over a copy of records.
func NewSet(records []Record) Set {
	cp := make([]Record, len(records))
	copy(cp, records)
	return Set{Records: cp}
}

// Len returns the number of staged files.
func (s Set) Len() int { return len(s.Records) }

// HasLineCounts reports whether any record carries line counts.
func (s Set) HasLineCounts() bool {
	for _, r := range s.Records {
		if !r.Binary {
			return true
		}
	}
	return false
}

// TotalAdditions is the sum of additions over all records.
func (s Set) TotalAdditions() uint {
	var n uint
	for _, r := range s.Records {
		if !r.Binary {
			n += r.Additions
		}
	}
	return n
}

// TotalDeletions is the sum of deletions over all records.
func (s Set) TotalDeletions() uint {
	var n uint
	for _, r := range s.Records {
		if !r.Binary {
			n += r.Deletions
		}
	}
	return n
}

// Summarize renders s as the prompt fragment describing the staged changes.
// The output is a pure function of s.
func Summarize(s Set) string {
	var b strings.Builder
	b.WriteString("Git Changes Summary:\n")
	fmt.Fprintf(&b, "Total files changed: %d\n", s.Len())
	fmt.Fprintf(&b, "Total additions: %d lines\n", s.TotalAdditions())
	fmt.Fprintf(&b, "Total deletions: %d lines\n", s.TotalDeletions())
	b.WriteString("\nFiles changed:")
	for _, r := range s.Records {
		b.WriteString("\n")
		b.WriteString(summaryLine(r))
	}
	return b.String()
}

func summaryLine(r Record) string {
	line := fmt.Sprintf("- %s (%s)", r.Path, r.Kind.Label())
	if r.Binary {
		return line
	}
	return fmt.Sprintf("%s +%d -%d", line, r.Additions, r.Deletions)
}

// Package prompt builds the generation prompt from a staged-change summary.
// The template is fixed text: the same summary and count always produce the
// same prompt.
package prompt

import (
	"fmt"
	"strings"
)

// instructions precede the summary. %d is the number of suggestions.
const instructions = `IMPORTANT: Look at these changes and determine the ONE correct commit type, then generate %d variations of THE SAME TYPE.`

// rules follow the summary. %d is the number of suggestions.
const rules = `CRITICAL RULES:
1. If ONLY documentation files changed (README, .md files, comments) → ALL suggestions must be 'docs:'
2. If ONLY code functionality was added → ALL suggestions must be 'feat:'
3. If ONLY bugs were fixed → ALL suggestions must be 'fix:'
4. If ONLY code was cleaned up → ALL suggestions must be 'refactor:'
5. If ONLY styling/formatting → ALL suggestions must be 'style:'
6. Tests only → 'test:'; build or dependencies → 'build:'; CI config → 'ci:'; performance → 'perf:'; tooling → 'chore:'

DO NOT MIX TYPES! All suggestions must use the SAME commit type.

Format: type(scope): description
Keep descriptions under 50 characters.
Start the description with a lowercase letter.
Write exactly %d suggestions, one per line.
Only vary the descriptions, NEVER the commit type.

RESPOND WITH ONLY COMMIT MESSAGES - NO EXPLANATIONS, NO NUMBERING, NO BULLETS, NO EXTRA TEXT!

WRONG format:
The correct type is docs because...
1. docs: update readme
- fix: improve performance

CORRECT format:
docs: update README with version info
docs: add version number to documentation
docs: enhance README header section`

// Build embeds summary verbatim between the instruction header and the
// formatting rules. maxSuggestions below 1 is treated as 1.
func Build(summary string, maxSuggestions int) string {
	if maxSuggestions < 1 {
		maxSuggestions = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, instructions, maxSuggestions)
	b.WriteString("\n\n")
	b.WriteString(summary)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, rules, maxSuggestions)
	return b.String()
}

// Package tokens estimates prompt size so the run can warn before a prompt
// plus the response budget overflows the model context. Estimation uses a
// byte-based chars/4 heuristic.
package tokens

import (
	"fmt"
	"math"
)

// charsPerToken is the divisor for the byte-based estimator
// (roughly 4 bytes per token for typical English/code).
const charsPerToken = 4

// WarnThreshold is the fraction of the context limit at which WarnIfOver fires.
const WarnThreshold = 0.9

// Estimate returns an estimated token count for text: (len+3)/4 bytes,
// so 1-4 bytes map to 1 token, 5-8 to 2, etc. Empty string returns 0.
func Estimate(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// WarnIfOver returns a non-empty warning when promptTokens + responseReserve
// meet or exceed warnThreshold of contextLimit. The response reserve is the
// configured max_tokens. If contextLimit <= 0, returns "".
func WarnIfOver(promptTokens, responseReserve, contextLimit int, warnThreshold float64) string {
	if contextLimit <= 0 {
		return ""
	}
	if promptTokens < 0 || responseReserve < 0 {
		return ""
	}
	if responseReserve > math.MaxInt-promptTokens {
		return fmt.Sprintf("token estimate overflow (prompt %d + response %d)", promptTokens, responseReserve)
	}
	total := promptTokens + responseReserve
	limit := float64(contextLimit) * warnThreshold
	threshold := int(limit)
	if limit > float64(threshold) {
		threshold++
	}
	if total < threshold {
		return ""
	}
	return fmt.Sprintf("estimated tokens %d (prompt %d + response %d) exceeds %.0f%% of context limit %d",
		total, promptTokens, responseReserve, warnThreshold*100, contextLimit)
}

// CheckPrompt estimates prompt and applies WarnIfOver at WarnThreshold.
func CheckPrompt(prompt string, maxTokens, contextLimit int) (estimate int, warning string) {
	estimate = Estimate(prompt)
	return estimate, WarnIfOver(estimate, maxTokens, contextLimit, WarnThreshold)
}

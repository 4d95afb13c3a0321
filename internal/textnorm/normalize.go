// Package textnorm cleans raw collaborator output before summarization.
// Normalize is pure and total: any input string, including empty, yields a
// result, and the function is idempotent.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// OCR artifact corrections, applied as whole-token replacements so that
	// digits and letters inside larger tokens are left alone.
	isolatedZero = regexp.MustCompile(`\b0\b`)
	isolatedEll  = regexp.MustCompile(`\bl\b`)
	doublePipe   = regexp.MustCompile(`\|\|`)
	strayPipe    = regexp.MustCompile(`\|`)

	ellipsisRun   = regexp.MustCompile(`\.{2,}`)
	missingSpace  = regexp.MustCompile(`([.!?])([A-Z])`)
	quoteReplacer = strings.NewReplacer(
		"“", `"`, // left double
		"”", `"`, // right double
		"‘", `'`, // left single
		"’", `'`, // right single
	)
)

// Normalize applies the fixed cleanup sequence: whitespace collapse, OCR
// token corrections, quote straightening, ellipsis collapse, spacing after
// sentence-terminal punctuation, and a final collapse-and-trim.
func Normalize(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")

	text = isolatedZero.ReplaceAllString(text, "O")
	text = isolatedEll.ReplaceAllString(text, "I")
	text = doublePipe.ReplaceAllString(text, "ll")
	text = strayPipe.ReplaceAllString(text, "I")

	text = quoteReplacer.Replace(text)
	text = ellipsisRun.ReplaceAllString(text, ".")
	text = missingSpace.ReplaceAllString(text, "$1 $2")

	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

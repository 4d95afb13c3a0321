package postprocess

import (
	"regexp"
	"strings"
	"unicode"
)

var redundantPairs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(the|a|an)\s+(?:the|a|an)\b`),
	regexp.MustCompile(`(?i)\b(that)\s+that\b`),
	regexp.MustCompile(`(?i)\b(which)\s+which\b`),
}

// FinishOverview polishes the combined summary paragraph: first letter
// capitalized, doubled articles and redundant word pairs collapsed, terminal
// punctuation guaranteed. Empty input stays empty.
func FinishOverview(text string) string {
	if text == "" {
		return text
	}

	runes := []rune(text)
	runes[0] = unicode.ToUpper(runes[0])
	text = string(runes)

	for _, re := range redundantPairs {
		text = re.ReplaceAllString(text, "$1")
	}

	tail := []rune(text)
	if !strings.ContainsRune(".!?", tail[len(tail)-1]) {
		text += "."
	}
	return text
}

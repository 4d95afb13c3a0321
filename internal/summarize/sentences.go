package summarize

import (
	"regexp"
	"strings"
)

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// SplitSentences segments text on terminal punctuation runs, keeping each
// sentence's trailing punctuation. Sentences come back trimmed, in document
// order; fragments that are punctuation-only are dropped.
func SplitSentences(text string) []string {
	parts := sentencePattern.FindAllString(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stopwords is a compact English list; legal connectives like "section" and
// "court" are deliberately absent so they keep their weight.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {},
	"of": {}, "at": {}, "by": {}, "for": {}, "with": {}, "about": {},
	"to": {}, "from": {}, "in": {}, "on": {}, "into": {}, "onto": {},
	"is": {}, "am": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "has": {}, "have": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "shall": {},
	"should": {}, "can": {}, "could": {}, "may": {}, "might": {},
	"it": {}, "its": {}, "he": {}, "she": {}, "his": {}, "her": {},
	"they": {}, "them": {}, "their": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "there": {}, "as": {}, "so": {}, "not": {},
	"no": {}, "nor": {}, "such": {}, "than": {}, "then": {}, "when": {},
	"while": {}, "which": {}, "who": {}, "whom": {}, "what": {},
	"where": {}, "how": {}, "all": {}, "any": {}, "each": {}, "both": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "own": {}, "same": {},
	"also": {}, "very": {}, "just": {}, "only": {}, "over": {}, "under": {},
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// tokenize lowercases a sentence and returns its content words.
func tokenize(sentence string) []string {
	fields := nonWord.Split(strings.ToLower(sentence), -1)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// termFrequencies builds one term-count map per sentence.
func termFrequencies(sentences []string) []map[string]float64 {
	tfs := make([]map[string]float64, len(sentences))
	for i, s := range sentences {
		tf := make(map[string]float64)
		for _, tok := range tokenize(s) {
			tf[tok]++
		}
		tfs[i] = tf
	}
	return tfs
}

// truncateRunes caps s at max characters, not bytes, so multibyte text is
// never cut mid-rune.
func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

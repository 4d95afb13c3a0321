// Package postprocess turns raw NLP output and pattern matches into the
// final summary shape. Sub-steps are deterministic and never fail: malformed
// input is filtered or defaulted, not propagated.
package postprocess

import (
	"github.com/nishant-rao/legal-summarizer/internal/entity"
	"github.com/nishant-rao/legal-summarizer/internal/summarize"
)

// LegalReferences extracts a unique set of statute references from the text.
func LegalReferences(text string) []string {
	var refs []string
	for _, sec := range captures(ipcSectionPattern, text) {
		refs = append(refs, "IPC Section "+sec)
	}
	for _, sec := range captures(crpcSectionPattern, text) {
		refs = append(refs, "CrPC Section "+sec)
	}
	return dedupe(refs)
}

// Confidence estimates how summarizable the cleaned text was, from legal
// document cues. Always in [0, 1].
func Confidence(text string) float64 {
	score := 0.2
	if datePattern.MatchString(text) {
		score += 0.2
	}
	if ipcSectionPattern.MatchString(text) || crpcSectionPattern.MatchString(text) {
		score += 0.2
	}
	if caseNumberPattern.MatchString(text) {
		score += 0.15
	}
	if len(text) > 120 {
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Build assembles the structured summary from the cleaned text, the combined
// ensemble overview, and optional NLP entity output. Key-point candidates are
// the overview's own sentences; timeline candidates are derived from the full
// cleaned text. ProcessingTime is left for the caller to fill in.
func Build(caseID, cleanText, overview string, nerOut map[string][]string) *entity.Summary {
	return &entity.Summary{
		CaseID:          caseID,
		Overview:        FinishOverview(overview),
		KeyPoints:       RankKeyPoints(summarize.SplitSentences(overview)),
		Entities:        MergeEntities(nerOut, cleanText),
		Timeline:        ValidateTimeline(BuildTimeline(cleanText)),
		LegalReferences: LegalReferences(cleanText),
		ConfidenceScore: Confidence(cleanText),
	}
}

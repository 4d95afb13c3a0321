package ner

import "context"

// Extractor is the named-entity collaborator: text in, category-to-mentions
// map out. A nil Extractor is a valid configuration; the post-processor then
// degrades to pattern-only categories.
type Extractor interface {
	ExtractEntities(ctx context.Context, text string) (map[string][]string, error)
}

package postprocess

import "sort"

// MergeEntities combines NLP-model output with domain pattern matches into
// the fixed category map. Every category is present in the result; values
// are deduplicated sets, sorted for stable output (order is not significant).
// nerOut may be nil; absence of an entity model degrades to pattern-only
// categories, never to a different record shape.
func MergeEntities(nerOut map[string][]string, text string) map[string][]string {
	collected := make(map[string][]string, len(Categories))
	for _, cat := range Categories {
		collected[cat] = nil
	}

	for label, values := range nerOut {
		cat := label
		if alias, ok := nerLabelAliases[label]; ok {
			cat = alias
		}
		if _, known := collected[cat]; !known {
			continue
		}
		collected[cat] = append(collected[cat], values...)
	}

	collected[CategoryLaw] = append(collected[CategoryLaw], captures(ipcSectionPattern, text)...)
	collected[CategoryLaw] = append(collected[CategoryLaw], captures(crpcSectionPattern, text)...)
	collected[CategoryCaseNumber] = append(collected[CategoryCaseNumber], captures(caseNumberPattern, text)...)
	collected[CategoryDate] = append(collected[CategoryDate], datePattern.FindAllString(text, -1)...)
	collected[CategoryTime] = append(collected[CategoryTime], timePattern.FindAllString(text, -1)...)

	for _, re := range accusedPatterns {
		collected[CategoryAccused] = append(collected[CategoryAccused], captures(re, text)...)
	}
	for _, re := range witnessPatterns {
		collected[CategoryWitness] = append(collected[CategoryWitness], captures(re, text)...)
	}

	out := make(map[string][]string, len(collected))
	for cat, values := range collected {
		out[cat] = dedupe(values)
	}
	return out
}

// dedupe collapses values to a sorted unique set. Always returns a non-nil
// slice so empty categories serialize as [] rather than null.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

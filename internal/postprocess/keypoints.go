package postprocess

import (
	"sort"
	"strings"
)

// RankKeyPoints orders candidate key points by descending legal-importance
// score. The sort is stable: equal-score points keep their prior relative
// order.
func RankKeyPoints(points []string) []string {
	scored := make([]string, len(points))
	copy(scored, points)

	scores := make(map[int]int, len(points))
	for i, p := range scored {
		scores[i] = keywordScore(p)
	}

	idx := make([]int, len(scored))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]string, len(scored))
	for i, j := range idx {
		out[i] = scored[j]
	}
	return out
}

// keywordScore adds one per importance keyword present, case-insensitive.
func keywordScore(point string) int {
	lower := strings.ToLower(point)
	score := 0
	for _, kw := range importanceKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

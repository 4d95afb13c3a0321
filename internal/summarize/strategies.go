package summarize

import (
	"errors"
	"math"
	"sort"
)

// Strategy is one independent extractive scoring model. Select returns up to
// count sentences from sentences, in their original document order.
type Strategy interface {
	Name() string
	Select(sentences []string, count int) ([]string, error)
}

var errNoSentences = errors.New("no sentences to score")

// selectByScore keeps the count highest-scored sentence indexes and returns
// the corresponding sentences in document order.
func selectByScore(sentences []string, scores []float64, count int) []string {
	idx := make([]int, len(sentences))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	if count > len(idx) {
		count = len(idx)
	}
	keep := append([]int(nil), idx[:count]...)
	sort.Ints(keep)

	out := make([]string, 0, count)
	for _, i := range keep {
		out = append(out, sentences[i])
	}
	return out
}

func cosine(a, b map[string]float64) float64 {
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}
	var na, nb float64
	for _, w := range a {
		na += w * w
	}
	for _, w := range b {
		nb += w * w
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// centrality is the first graph strategy: sentences are nodes, cosine
// similarity above a fixed threshold forms an edge, and a sentence's score is
// its degree centrality in that graph.
type centrality struct {
	threshold float64
}

func newCentrality() *centrality { return &centrality{threshold: 0.1} }

func (c *centrality) Name() string { return "centrality" }

func (c *centrality) Select(sentences []string, count int) ([]string, error) {
	if len(sentences) == 0 {
		return nil, errNoSentences
	}
	tfs := termFrequencies(sentences)

	scores := make([]float64, len(sentences))
	for i := range sentences {
		for j := range sentences {
			if i == j {
				continue
			}
			if cosine(tfs[i], tfs[j]) >= c.threshold {
				scores[i]++
			}
		}
	}
	return selectByScore(sentences, scores, count), nil
}

// rank is the second graph strategy: edges are weighted by normalized token
// overlap and scores come from a damped power iteration over the weighted
// graph.
type rank struct {
	damping    float64
	iterations int
}

func newRank() *rank { return &rank{damping: 0.85, iterations: 30} }

func (r *rank) Name() string { return "rank" }

func (r *rank) Select(sentences []string, count int) ([]string, error) {
	n := len(sentences)
	if n == 0 {
		return nil, errNoSentences
	}
	tfs := termFrequencies(sentences)

	weights := make([][]float64, n)
	outSum := make([]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			w := overlap(tfs[i], tfs[j], len(tokenize(sentences[i])), len(tokenize(sentences[j])))
			weights[i][j] = w
			weights[j][i] = w
			outSum[i] += w
			outSum[j] += w
		}
	}

	scores := make([]float64, n)
	next := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}
	for it := 0; it < r.iterations; it++ {
		for i := 0; i < n; i++ {
			var sum float64
			for j := 0; j < n; j++ {
				if i == j || weights[j][i] == 0 || outSum[j] == 0 {
					continue
				}
				sum += weights[j][i] / outSum[j] * scores[j]
			}
			next[i] = (1-r.damping)/float64(n) + r.damping*sum
		}
		copy(scores, next)
	}
	return selectByScore(sentences, scores, count), nil
}

// overlap counts shared terms, normalized by the log sentence lengths so long
// sentences do not dominate.
func overlap(a, b map[string]float64, lenA, lenB int) float64 {
	if lenA <= 1 || lenB <= 1 {
		return 0
	}
	var shared float64
	for term := range a {
		if _, ok := b[term]; ok {
			shared++
		}
	}
	if shared == 0 {
		return 0
	}
	return shared / (math.Log(float64(lenA)) + math.Log(float64(lenB)))
}

// latent approximates a latent-structure model: terms are weighted by TF-IDF
// across the document and each sentence scores as the root of its summed
// squared term weights, favoring sentences dense in distinctive vocabulary.
type latent struct{}

func newLatent() *latent { return &latent{} }

func (l *latent) Name() string { return "latent" }

func (l *latent) Select(sentences []string, count int) ([]string, error) {
	n := len(sentences)
	if n == 0 {
		return nil, errNoSentences
	}
	tfs := termFrequencies(sentences)

	df := make(map[string]float64)
	for _, tf := range tfs {
		for term := range tf {
			df[term]++
		}
	}

	scores := make([]float64, n)
	for i, tf := range tfs {
		var sum float64
		for term, freq := range tf {
			idf := math.Log(float64(n+1) / (df[term] + 1))
			w := freq * idf
			sum += w * w
		}
		scores[i] = math.Sqrt(sum)
	}
	return selectByScore(sentences, scores, count), nil
}

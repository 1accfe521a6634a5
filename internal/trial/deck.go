package trial

import (
	"math/rand"

	"github.com/AlfredSjoqvist/gideon/internal/article"
)

const (
	// DefaultBatchSize is how many articles one ranking call sees.
	DefaultBatchSize = 8
	// deckRedundancy shows every article to a judge this many times, in
	// different batch contexts, so a score is never hostage to one bad
	// neighborhood.
	deckRedundancy = 3
)

// Deck is a shuffled batching of corpus positions.
type Deck struct {
	Batches [][]int
}

// NewDeck builds a context-sorted deck: corpus positions repeated for
// redundancy, shuffled under the constraint that a position never
// repeats inside the trailing batch-size window, then chunked. A short
// trailing batch is rebalanced into the earlier ones.
func NewDeck(corpusSize, batchSize int, rng *rand.Rand) Deck {
	if corpusSize <= 0 {
		return Deck{}
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	deck := make([]int, 0, corpusSize*deckRedundancy)
	for r := 0; r < deckRedundancy; r++ {
		for i := 0; i < corpusSize; i++ {
			deck = append(deck, i)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	ordered := make([]int, 0, len(deck))
	for len(deck) > 0 {
		picked := -1
		for i, cand := range deck {
			if !inWindow(ordered, cand, batchSize) {
				picked = i
				break
			}
		}
		if picked < 0 {
			// No candidate satisfies the spacing constraint; take the head.
			picked = 0
		}
		ordered = append(ordered, deck[picked])
		deck = append(deck[:picked], deck[picked+1:]...)
	}

	var batches [][]int
	for i := 0; i < len(ordered); i += batchSize {
		end := i + batchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		batches = append(batches, ordered[i:end])
	}
	return Deck{Batches: rebalance(batches, batchSize)}
}

func inWindow(ordered []int, cand, window int) bool {
	start := len(ordered) - window
	if start < 0 {
		start = 0
	}
	for _, v := range ordered[start:] {
		if v == cand {
			return true
		}
	}
	return false
}

// rebalance spreads a short trailing batch over the earlier batches so no
// judge sees a context of two or three articles.
func rebalance(batches [][]int, batchSize int) [][]int {
	n := len(batches)
	if n < 2 {
		return batches
	}
	last := batches[n-1]
	if len(last) >= batchSize/2 {
		return batches
	}
	for i, v := range last {
		target := i % (n - 1)
		batches[target] = append(batches[target], v)
	}
	return batches[:n-1]
}

// Prompts renders every batch into its article XML block.
func (d Deck) Prompts(c *article.Corpus) []string {
	out := make([]string, 0, len(d.Batches))
	for _, batch := range d.Batches {
		out = append(out, renderBatch(c, batch))
	}
	return out
}

func renderBatch(c *article.Corpus, batch []int) string {
	s := ""
	for i, idx := range batch {
		a, ok := c.At(idx)
		if !ok {
			continue
		}
		if s != "" {
			s += "\n\n"
		}
		// ids are 1-based within the batch, matching the anchor the
		// model is asked to echo back
		s += a.PromptXML(i + 1)
	}
	return s
}

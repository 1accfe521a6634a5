package article

import "strings"

// matchThreshold rejects weak fuzzy matches; anything at or below is a miss.
const matchThreshold = 0.3

// FuzzyMatch maps a model-returned (title, link) back to a corpus position.
// An exact normalized-link match wins outright. Otherwise candidates score
// 0.8 for a substring link match plus the Jaccard overlap of title tokens,
// and the best score must clear the threshold. Returns -1 on no match.
func (c *Corpus) FuzzyMatch(title, link string) int {
	if c == nil || len(c.Articles) == 0 {
		return -1
	}
	if id, ok := c.ByLink(link); ok {
		return id
	}

	normLink := NormalizeURL(link)
	want := titleTokens(title)

	best, bestScore := -1, 0.0
	for i, a := range c.Articles {
		score := 0.0
		candLink := NormalizeURL(a.Link)
		if normLink != "" && candLink != "" &&
			(strings.Contains(candLink, normLink) || strings.Contains(normLink, candLink)) {
			score += 0.8
		}
		score += jaccard(want, titleTokens(a.Title))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if bestScore > matchThreshold {
		return best
	}
	return -1
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

package article

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Article is one ingested news item. Link doubles as the primary key.
type Article struct {
	Link      string         `json:"link"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Published time.Time      `json:"published"`
	Source    string         `json:"source"`
	FeedLabel string         `json:"feed_label"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	ScrapedAt time.Time      `json:"scraped_at"`
}

// maxSummaryRunes caps the summary length handed to models.
const maxSummaryRunes = 1500

// ShortSummary returns the summary truncated to the model context budget.
func (a Article) ShortSummary() string {
	r := []rune(a.Summary)
	if len(r) <= maxSummaryRunes {
		return a.Summary
	}
	return string(r[:maxSummaryRunes]) + "..."
}

// Author pulls the first author out of metadata when the feed provided one.
func (a Article) Author() string {
	if a.Metadata == nil {
		return ""
	}
	switch v := a.Metadata["authors"].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// PromptXML renders the slim XML block a model sees for this article.
// The id is the article's position in its corpus; empty fields are omitted.
func (a Article) PromptXML(id int) string {
	var b strings.Builder
	b.WriteString("<article>\n")
	fmt.Fprintf(&b, "  <ID>%d</ID>\n", id)
	writeTag(&b, "link", a.Link)
	writeTag(&b, "title", a.Title)
	writeTag(&b, "author", a.Author())
	writeTag(&b, "summary", a.ShortSummary())
	b.WriteString("</article>")
	return b.String()
}

func writeTag(b *strings.Builder, tag, val string) {
	val = strings.TrimSpace(val)
	if val == "" {
		return
	}
	fmt.Fprintf(b, "  <%s>%s</%s>\n", tag, escapeXML(val), tag)
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// Corpus is an ordered collection of articles. Positions are stable so the
// ids handed to models keep pointing at the same article.
type Corpus struct {
	Articles []Article
	byLink   map[string]int
}

func NewCorpus(arts ...Article) *Corpus {
	c := &Corpus{byLink: make(map[string]int)}
	for _, a := range arts {
		c.Add(a)
	}
	return c
}

// Add appends an article unless an article with the same link is present.
func (c *Corpus) Add(a Article) bool {
	if c.byLink == nil {
		c.byLink = make(map[string]int)
	}
	key := NormalizeURL(a.Link)
	if _, ok := c.byLink[key]; ok {
		return false
	}
	c.byLink[key] = len(c.Articles)
	c.Articles = append(c.Articles, a)
	return true
}

// Merge adds every article from other, skipping duplicates.
func (c *Corpus) Merge(other *Corpus) int {
	if other == nil {
		return 0
	}
	n := 0
	for _, a := range other.Articles {
		if c.Add(a) {
			n++
		}
	}
	return n
}

func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Articles)
}

// At returns the article at position id, or false when out of range.
func (c *Corpus) At(id int) (Article, bool) {
	if c == nil || id < 0 || id >= len(c.Articles) {
		return Article{}, false
	}
	return c.Articles[id], true
}

// ByLink finds the corpus position of a link after URL normalization.
func (c *Corpus) ByLink(link string) (int, bool) {
	if c == nil || c.byLink == nil {
		return 0, false
	}
	id, ok := c.byLink[NormalizeURL(link)]
	return id, ok
}

// MarshalJSON keeps the wire shape a plain article list.
func (c *Corpus) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Articles)
}

func (c *Corpus) UnmarshalJSON(b []byte) error {
	var arts []Article
	if err := json.Unmarshal(b, &arts); err != nil {
		return err
	}
	*c = Corpus{}
	for _, a := range arts {
		c.Add(a)
	}
	return nil
}

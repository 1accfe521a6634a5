package feed

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/AlfredSjoqvist/gideon/internal/article"
)

// Fetcher pulls RSS/Atom feeds and normalizes entries into articles.
type Fetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
}

func NewFetcher() *Fetcher {
	p := gofeed.NewParser()
	p.UserAgent = "gideon/1.0"
	return &Fetcher{parser: p, now: time.Now}
}

// FetchAll walks the catalog and returns every normalized entry. A feed
// that fails to parse is logged and skipped; the rest still count.
func (f *Fetcher) FetchAll(ctx context.Context, cat *Catalog) []article.Article {
	var out []article.Article
	for _, src := range cat.Feeds {
		arts, err := f.Fetch(ctx, src)
		if err != nil {
			log.Printf("feed: %s/%s failed: %v", src.Source, src.Label, err)
			continue
		}
		out = append(out, arts...)
	}
	return out
}

// Fetch pulls a single feed source.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]article.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(src.Link, ctx)
	if err != nil {
		return nil, err
	}
	out := make([]article.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a, ok := f.convert(src, item)
		if !ok {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *Fetcher) convert(src Source, item *gofeed.Item) (article.Article, bool) {
	link := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if link == "" || title == "" {
		return article.Article{}, false
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	published := f.now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	var meta map[string]any
	if len(item.Authors) > 0 {
		names := make([]string, 0, len(item.Authors))
		for _, p := range item.Authors {
			if p != nil && p.Name != "" {
				names = append(names, p.Name)
			}
		}
		if len(names) > 0 {
			meta = map[string]any{"authors": names}
		}
	}

	return article.Article{
		Link:      link,
		Title:     title,
		Summary:   CleanHTML(summary),
		Published: published,
		Source:    src.Source,
		FeedLabel: src.Label,
		Metadata:  meta,
		ScrapedAt: f.now(),
	}, true
}

// CleanHTML strips markup from a feed summary and collapses whitespace.
func CleanHTML(html string) string {
	s := strings.TrimSpace(html)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseSpace(s)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

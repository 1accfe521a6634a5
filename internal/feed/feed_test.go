package feed

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/require"

	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func TestParseCatalog(t *testing.T) {
	yml := []byte(`
feeds:
  - source: HackerNews
    label: frontpage
    link: https://hnrss.org/frontpage
  - source: ArXiv
    label: cs.AI
    link: http://export.arxiv.org/api/query?search_query=cat:cs.AI
`)
	cat, err := ParseCatalog(yml)
	require.NoError(t, err)
	require.Len(t, cat.Feeds, 2)
	tester.Eq(t, cat.Feeds[0].Source, "HackerNews")
	tester.Eq(t, len(cat.ByLabel("cs.AI")), 1)
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	_, err := ParseCatalog([]byte("feeds: []"))
	require.Error(t, err)

	_, err = ParseCatalog([]byte("feeds:\n  - source: X\n    label: a\n"))
	require.Error(t, err)

	_, err = ParseCatalog([]byte(`
feeds:
  - {source: X, label: a, link: "https://x"}
  - {source: X, label: a, link: "https://y"}
`))
	require.Error(t, err)
}

func TestCleanHTML(t *testing.T) {
	tester.Eq(t, CleanHTML("<p>Hello   <b>world</b></p>\n<p>again</p>"), "Hello world again")
	tester.Eq(t, CleanHTML(""), "")
	tester.Eq(t, CleanHTML("plain  text"), "plain text")
}

func TestConvert(t *testing.T) {
	f := NewFetcher()
	f.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	src := Source{Source: "HackerNews", Label: "frontpage", Link: "https://hnrss.org/frontpage"}

	pub := time.Date(2025, 5, 31, 8, 0, 0, 0, time.UTC)
	a, ok := f.convert(src, &gofeed.Item{
		Link:            "https://example.com/story",
		Title:           "A story",
		Description:     "<p>Some <em>summary</em></p>",
		PublishedParsed: &pub,
		Authors:         []*gofeed.Person{{Name: "Jane Doe"}},
	})
	tester.True(t, ok)
	tester.Eq(t, a.Summary, "Some summary")
	tester.Eq(t, a.Published, pub)
	tester.Eq(t, a.Source, "HackerNews")
	tester.Eq(t, a.Author(), "Jane Doe")

	// published falls back to now
	b, ok := f.convert(src, &gofeed.Item{Link: "https://example.com/x", Title: "t"})
	tester.True(t, ok)
	tester.Eq(t, b.Published, f.now())

	// entries without link or title are dropped
	_, ok = f.convert(src, &gofeed.Item{Title: "no link"})
	tester.False(t, ok)
}

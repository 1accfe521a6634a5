package analysis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func TestPageFetcherExtractsArticleText(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><style>p{}</style></head><body>
			<nav>menu</nav>
			<article><p>Real   content here.</p><script>evil()</script></article>
			<footer>foot</footer></body></html>`))
	}))
	defer srv.Close()

	f := NewPageFetcher()
	got, err := f.Text(context.Background(), srv.URL)
	tester.NoErr(t, err)
	tester.Eq(t, got, "Real content here.")

	// second call is served from cache
	_, err = f.Text(context.Background(), srv.URL)
	tester.NoErr(t, err)
	tester.Eq(t, hits, 1)
}

func TestPageFetcherRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewPageFetcher()
	_, err := f.Text(context.Background(), srv.URL)
	tester.True(t, err != nil)
}

func TestClampText(t *testing.T) {
	tester.Eq(t, clampText("short"), "short")
	long := strings.Repeat("x", maxPageText+100)
	tester.Eq(t, len(clampText(long)), maxPageText)
}

func TestIsPDF(t *testing.T) {
	tester.True(t, isPDF("https://arxiv.org/pdf/1234.pdf", ""))
	tester.True(t, isPDF("https://x.com/paper.PDF?dl=1", ""))
	tester.True(t, isPDF("https://x.com/doc", "application/pdf"))
	tester.False(t, isPDF("https://x.com/post", "text/html"))
}

func TestAnalyzeFallsBackToFeedSummary(t *testing.T) {
	cli := llm.NewFakeClient("").RespondAll(`{"summary":"**The Signal:** something happened"}`)
	d := NewDeepAnalyzer(cli)

	c := article.NewCorpus(article.Article{
		// unroutable host forces the scrape fallback
		Link:    "http://127.0.0.1:1/nothing",
		Title:   "A story",
		Summary: "feed summary text",
	})
	picks := d.Analyze(context.Background(), c, "master")
	tester.Eq(t, len(picks), 1)
	tester.Eq(t, picks[0].DeepAnalysis, "**The Signal:** something happened")
	tester.Eq(t, picks[0].RunName, "master")
}

package analysis

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"code.sajari.com/docconv/v2"
	"github.com/PuerkitoBio/goquery"

	"github.com/AlfredSjoqvist/gideon/internal/cache/memory"
)

// maxPageText caps how much scraped text one article contributes to a
// model prompt.
const maxPageText = 8000

// PageFetcher downloads article pages and extracts readable text.
// Extractions are cached so reruns within a day don't refetch.
type PageFetcher struct {
	http  *http.Client
	cache *memory.LRUTTL[string, string]
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{
		http:  &http.Client{Timeout: 30 * time.Second},
		cache: memory.NewLRUTTL[string, string](256, 12*time.Hour),
	}
}

// Text fetches url and returns its extracted text, trimmed to the prompt
// budget. PDFs go through docconv; everything else through goquery.
func (f *PageFetcher) Text(ctx context.Context, url string) (string, error) {
	if got, ok := f.cache.Get(url); ok {
		return got, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "gideon/1.0")

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}

	body := io.LimitReader(resp.Body, 4<<20)
	contentType := resp.Header.Get("Content-Type")

	var text string
	if isPDF(url, contentType) {
		text, err = extractPDF(body)
	} else {
		text, err = extractHTML(body)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", url, err)
	}

	text = clampText(text)
	f.cache.Set(url, text)
	return text, nil
}

func isPDF(url, contentType string) bool {
	return strings.Contains(contentType, "application/pdf") ||
		strings.HasSuffix(strings.ToLower(strings.SplitN(url, "?", 2)[0]), ".pdf")
}

func extractPDF(r io.Reader) (string, error) {
	res, err := docconv.Convert(r, "application/pdf", true)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

func extractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, nav, footer, header, aside, noscript").Remove()

	// Prefer the article body when the page marks one up.
	sel := doc.Find("article")
	if sel.Length() == 0 {
		sel = doc.Find("main")
	}
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}
	return strings.Join(strings.Fields(sel.Text()), " "), nil
}

func clampText(s string) string {
	r := []rune(s)
	if len(r) <= maxPageText {
		return s
	}
	return string(r[:maxPageText])
}

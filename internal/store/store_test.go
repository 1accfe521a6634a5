package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func newFileStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("", filepath.Join(t.TempDir(), "news.json"))
	tester.NoErr(t, err)
	return s
}

func TestInsertArticlesDedupes(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	now := time.Now()

	n, err := s.InsertArticles(ctx, []article.Article{
		{Link: "https://a.com/x", Title: "one", ScrapedAt: now},
		{Link: "https://b.com/y", Title: "two", ScrapedAt: now},
	})
	tester.NoErr(t, err)
	tester.Eq(t, n, 2)

	n, err = s.InsertArticles(ctx, []article.Article{
		{Link: "http://www.a.com/x/", Title: "dup", ScrapedAt: now},
		{Link: "https://c.com/z", Title: "three", ScrapedAt: now},
	})
	tester.NoErr(t, err)
	tester.Eq(t, n, 1)
}

func TestRecentFiltersAndCaches(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	now := time.Now()

	_, err := s.InsertArticles(ctx, []article.Article{
		{Link: "https://a.com/1", Title: "fresh hn", Source: "HackerNews", FeedLabel: "frontpage", ScrapedAt: now},
		{Link: "https://a.com/2", Title: "fresh arxiv", Source: "ArXiv", FeedLabel: "cs.AI", ScrapedAt: now},
		{Link: "https://a.com/3", Title: "stale", Source: "HackerNews", FeedLabel: "frontpage", ScrapedAt: now.Add(-48 * time.Hour)},
	})
	tester.NoErr(t, err)

	got, err := s.Recent(ctx, RecentQuery{Source: "HackerNews", Window: 24 * time.Hour})
	tester.NoErr(t, err)
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].Title, "fresh hn")

	// served from cache even after an insert invalidates nothing
	_, err = s.InsertArticles(ctx, []article.Article{
		{Link: "https://a.com/4", Title: "later hn", Source: "HackerNews", FeedLabel: "frontpage", ScrapedAt: now},
	})
	tester.NoErr(t, err)
	got, err = s.Recent(ctx, RecentQuery{Source: "HackerNews", Window: 24 * time.Hour})
	tester.NoErr(t, err)
	tester.Eq(t, len(got), 1)
}

func TestPicksRoundTrip(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()
	now := time.Now()

	err := s.SavePicks(ctx, []Pick{
		{Article: article.Article{Link: "https://a.com/x", Title: "one"}, RunName: "engineering", EnsembleScore: 2, ChosenAt: now},
		{Article: article.Article{Link: "https://b.com/y", Title: "two"}, RunName: "research", EnsembleScore: 1, ChosenAt: now},
	})
	tester.NoErr(t, err)

	// upsert overwrites by link
	err = s.SavePicks(ctx, []Pick{
		{Article: article.Article{Link: "https://a.com/x", Title: "one"}, RunName: "engineering", DeepAnalysis: "sig", EnsembleScore: 3, ChosenAt: now},
	})
	tester.NoErr(t, err)

	got, err := s.PicksSince(ctx, now.Add(-time.Hour))
	tester.NoErr(t, err)
	tester.Eq(t, len(got), 2)
	tester.Eq(t, got[0].EnsembleScore, 3)
	tester.Eq(t, got[0].DeepAnalysis, "sig")
	tester.True(t, got[0].Unanimous())
	tester.False(t, got[1].Unanimous())
}

func TestBriefingRoundTrip(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	_, err := s.BriefingByDate(ctx, "2025-06-01")
	tester.ErrIs(t, err, ErrNotFound)

	tester.NoErr(t, s.SaveBriefing(ctx, Briefing{EntryDate: "2025-06-01", Content: "# Daily"}))
	tester.NoErr(t, s.SaveBriefing(ctx, Briefing{EntryDate: "2025-06-01", Content: "# Daily v2"}))

	got, err := s.BriefingByDate(ctx, "2025-06-01")
	tester.NoErr(t, err)
	tester.Eq(t, got.Content, "# Daily v2")
}

func TestFilePersistenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "news.json")
	ctx := context.Background()

	s1, err := New("", path)
	tester.NoErr(t, err)
	_, err = s1.InsertArticles(ctx, []article.Article{{Link: "https://a.com/x", Title: "one", ScrapedAt: time.Now()}})
	tester.NoErr(t, err)

	s2, err := New("", path)
	tester.NoErr(t, err)
	got, err := s2.LatestArticles(ctx, 10)
	tester.NoErr(t, err)
	tester.Eq(t, len(got), 1)
	tester.Eq(t, got[0].Title, "one")
}

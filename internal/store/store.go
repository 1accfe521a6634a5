package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/AlfredSjoqvist/gideon/internal/article"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("store: not found")

// Store persists articles, picks, and briefings. With a DSN it runs on
// Postgres through database/sql; without one it falls back to a JSON
// file so the pipeline works on a laptop with no database around.
type Store struct {
	db   *sql.DB
	path string

	schemaOnce sync.Once
	schemaErr  error

	mu       sync.RWMutex
	loadOnce sync.Once
	data     fileData

	recent *expirable.LRU[string, []article.Article]
}

// recentCacheTTL bounds how stale a cached recent-window query may be.
const recentCacheTTL = 5 * time.Minute

// New opens a Postgres-backed store when dsn is non-empty, otherwise a
// file-backed store at path.
func New(dsn, path string) (*Store, error) {
	s := &Store{
		path:   path,
		recent: expirable.NewLRU[string, []article.Article](64, nil, recentCacheTTL),
	}
	if dsn == "" {
		return s, nil
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s.db = db
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecentQuery selects articles by feed origin inside a trailing window.
// Empty Source/Label match everything.
type RecentQuery struct {
	Source string
	Label  string
	Window time.Duration
}

func (q RecentQuery) key() string {
	return fmt.Sprintf("%s|%s|%d", q.Source, q.Label, q.Window)
}

// InsertArticles stores articles, skipping links already present.
// Returns the number of newly inserted rows.
func (s *Store) InsertArticles(ctx context.Context, arts []article.Article) (int, error) {
	if len(arts) == 0 {
		return 0, nil
	}
	if s.db != nil {
		return s.insertArticlesDB(ctx, arts)
	}
	return s.insertArticlesFile(arts)
}

// Recent returns articles matching q, newest first. Results are cached
// briefly since stage-1 jobs often reuse the same window.
func (s *Store) Recent(ctx context.Context, q RecentQuery) ([]article.Article, error) {
	if got, ok := s.recent.Get(q.key()); ok {
		return got, nil
	}
	var (
		out []article.Article
		err error
	)
	if s.db != nil {
		out, err = s.recentDB(ctx, q)
	} else {
		out, err = s.recentFile(q)
	}
	if err != nil {
		return nil, err
	}
	s.recent.Add(q.key(), out)
	return out, nil
}

// LatestArticles returns the n most recently scraped articles.
func (s *Store) LatestArticles(ctx context.Context, n int) ([]article.Article, error) {
	if n <= 0 {
		n = 20
	}
	if s.db != nil {
		return s.latestArticlesDB(ctx, n)
	}
	return s.latestArticlesFile(n)
}

// SavePicks upserts winner rows keyed by link.
func (s *Store) SavePicks(ctx context.Context, picks []Pick) error {
	if len(picks) == 0 {
		return nil
	}
	if s.db != nil {
		return s.savePicksDB(ctx, picks)
	}
	return s.savePicksFile(picks)
}

// PicksSince returns picks chosen at or after since, highest ensemble
// score first.
func (s *Store) PicksSince(ctx context.Context, since time.Time) ([]Pick, error) {
	if s.db != nil {
		return s.picksSinceDB(ctx, since)
	}
	return s.picksSinceFile(since)
}

// SaveBriefing upserts the briefing for its entry date.
func (s *Store) SaveBriefing(ctx context.Context, b Briefing) error {
	if b.EntryDate == "" {
		return fmt.Errorf("store: briefing entry date is required")
	}
	if s.db != nil {
		return s.saveBriefingDB(ctx, b)
	}
	return s.saveBriefingFile(b)
}

// BriefingByDate fetches the briefing for a YYYY-MM-DD entry date.
func (s *Store) BriefingByDate(ctx context.Context, date string) (Briefing, error) {
	if s.db != nil {
		return s.briefingByDateDB(ctx, date)
	}
	return s.briefingByDateFile(date)
}

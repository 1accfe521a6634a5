package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/article"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS articles (
  link TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  summary TEXT NOT NULL DEFAULT '',
  published TIMESTAMP WITH TIME ZONE NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  feed_label TEXT NOT NULL DEFAULT '',
  metadata JSONB,
  scraped_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_articles_scraped_at ON articles (scraped_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_source_label ON articles (source, feed_label);

CREATE TABLE IF NOT EXISTS picks (
  link TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  run_name TEXT NOT NULL DEFAULT '',
  deep_analysis TEXT NOT NULL DEFAULT '',
  ensemble_score INT NOT NULL DEFAULT 0,
  article JSONB,
  chosen_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_picks_chosen_at ON picks (chosen_at DESC);

CREATE TABLE IF NOT EXISTS briefings (
  entry_date DATE PRIMARY KEY,
  content TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func (s *Store) insertArticlesDB(ctx context.Context, arts []article.Article) (int, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return 0, err
	}
	inserted := 0
	for _, a := range arts {
		var meta []byte
		if a.Metadata != nil {
			meta, _ = json.Marshal(a.Metadata)
		}
		res, err := s.db.ExecContext(ctx, `
INSERT INTO articles (link, title, summary, published, source, feed_label, metadata, scraped_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (link) DO NOTHING`,
			a.Link, a.Title, a.Summary, a.Published, a.Source, a.FeedLabel, nullable(meta), a.ScrapedAt)
		if err != nil {
			return inserted, fmt.Errorf("insert article: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (s *Store) recentDB(ctx context.Context, q RecentQuery) ([]article.Article, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	since := time.Now().Add(-q.Window)
	rows, err := s.db.QueryContext(ctx, `
SELECT link, title, summary, published, source, feed_label, metadata, scraped_at
FROM articles
WHERE scraped_at >= $1
  AND ($2 = '' OR source = $2)
  AND ($3 = '' OR feed_label = $3)
ORDER BY scraped_at DESC`,
		since, q.Source, q.Label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (s *Store) latestArticlesDB(ctx context.Context, n int) ([]article.Article, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT link, title, summary, published, source, feed_label, metadata, scraped_at
FROM articles
ORDER BY scraped_at DESC
LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows *sql.Rows) ([]article.Article, error) {
	out := make([]article.Article, 0, 64)
	for rows.Next() {
		var (
			a    article.Article
			meta []byte
		)
		if err := rows.Scan(&a.Link, &a.Title, &a.Summary, &a.Published,
			&a.Source, &a.FeedLabel, &meta, &a.ScrapedAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &a.Metadata)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) savePicksDB(ctx context.Context, picks []Pick) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	for _, p := range picks {
		blob, _ := json.Marshal(p.Article)
		chosen := p.ChosenAt
		if chosen.IsZero() {
			chosen = time.Now()
		}
		_, err := s.db.ExecContext(ctx, `
INSERT INTO picks (link, title, run_name, deep_analysis, ensemble_score, article, chosen_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (link)
DO UPDATE SET title=EXCLUDED.title,
  run_name=EXCLUDED.run_name,
  deep_analysis=EXCLUDED.deep_analysis,
  ensemble_score=EXCLUDED.ensemble_score,
  article=EXCLUDED.article,
  chosen_at=EXCLUDED.chosen_at`,
			p.Article.Link, p.Article.Title, p.RunName, p.DeepAnalysis, p.EnsembleScore, blob, chosen)
		if err != nil {
			return fmt.Errorf("save pick: %w", err)
		}
	}
	return nil
}

func (s *Store) picksSinceDB(ctx context.Context, since time.Time) ([]Pick, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_name, deep_analysis, ensemble_score, article, chosen_at
FROM picks
WHERE chosen_at >= $1
ORDER BY ensemble_score DESC, chosen_at DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pick
	for rows.Next() {
		var (
			p    Pick
			blob []byte
		)
		if err := rows.Scan(&p.RunName, &p.DeepAnalysis, &p.EnsembleScore, &blob, &p.ChosenAt); err != nil {
			return nil, err
		}
		if len(blob) > 0 {
			_ = json.Unmarshal(blob, &p.Article)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) saveBriefingDB(ctx context.Context, b Briefing) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO briefings (entry_date, content, created_at)
VALUES ($1,$2,$3)
ON CONFLICT (entry_date)
DO UPDATE SET content=EXCLUDED.content, created_at=EXCLUDED.created_at`,
		b.EntryDate, b.Content, created)
	if err != nil {
		return fmt.Errorf("save briefing: %w", err)
	}
	return nil
}

func (s *Store) briefingByDateDB(ctx context.Context, date string) (Briefing, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Briefing{}, err
	}
	var b Briefing
	var entry time.Time
	err := s.db.QueryRowContext(ctx, `
SELECT entry_date, content, created_at FROM briefings WHERE entry_date = $1`, date).
		Scan(&entry, &b.Content, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Briefing{}, ErrNotFound
	}
	if err != nil {
		return Briefing{}, err
	}
	b.EntryDate = entry.Format("2006-01-02")
	return b, nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/article"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var data fileData
		if err := json.Unmarshal(b, &data); err != nil {
			return
		}
		s.mu.Lock()
		s.data = data
		s.mu.Unlock()
	})
}

// saveFileLocked writes the current data under the held write lock.
func (s *Store) saveFileLocked() error {
	b, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) insertArticlesFile(arts []article.Article) (int, error) {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.data.Articles))
	for _, a := range s.data.Articles {
		known[article.NormalizeURL(a.Link)] = struct{}{}
	}
	inserted := 0
	for _, a := range arts {
		key := article.NormalizeURL(a.Link)
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		s.data.Articles = append(s.data.Articles, a)
		inserted++
	}
	if inserted == 0 {
		return 0, nil
	}
	return inserted, s.saveFileLocked()
}

func (s *Store) recentFile(q RecentQuery) ([]article.Article, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-q.Window)
	var out []article.Article
	for _, a := range s.data.Articles {
		if a.ScrapedAt.Before(since) {
			continue
		}
		if q.Source != "" && a.Source != q.Source {
			continue
		}
		if q.Label != "" && a.FeedLabel != q.Label {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScrapedAt.After(out[j].ScrapedAt) })
	return out, nil
}

func (s *Store) latestArticlesFile(n int) ([]article.Article, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]article.Article, len(s.data.Articles))
	copy(out, s.data.Articles)
	sort.Slice(out, func(i, j int) bool { return out[i].ScrapedAt.After(out[j].ScrapedAt) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Store) savePicksFile(picks []Pick) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range picks {
		if p.ChosenAt.IsZero() {
			p.ChosenAt = time.Now()
		}
		key := article.NormalizeURL(p.Article.Link)
		replaced := false
		for i, old := range s.data.Picks {
			if article.NormalizeURL(old.Article.Link) == key {
				s.data.Picks[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			s.data.Picks = append(s.data.Picks, p)
		}
	}
	return s.saveFileLocked()
}

func (s *Store) picksSinceFile(since time.Time) ([]Pick, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Pick
	for _, p := range s.data.Picks {
		if p.ChosenAt.Before(since) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EnsembleScore != out[j].EnsembleScore {
			return out[i].EnsembleScore > out[j].EnsembleScore
		}
		return out[i].ChosenAt.After(out[j].ChosenAt)
	})
	return out, nil
}

func (s *Store) saveBriefingFile(b Briefing) error {
	s.ensureLoadedFile()
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	replaced := false
	for i, old := range s.data.Briefings {
		if old.EntryDate == b.EntryDate {
			s.data.Briefings[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		s.data.Briefings = append(s.data.Briefings, b)
	}
	return s.saveFileLocked()
}

func (s *Store) briefingByDateFile(date string) (Briefing, error) {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.data.Briefings {
		if b.EntryDate == date {
			return b, nil
		}
	}
	return Briefing{}, ErrNotFound
}

package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func TestItemDescription(t *testing.T) {
	i := item{a: article.Article{
		Source:    "HackerNews",
		FeedLabel: "frontpage",
		Published: time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
	}}
	tester.Eq(t, i.Description(), "HackerNews / frontpage · Aug 31 09:30")
}

func TestFetchLoadsArticles(t *testing.T) {
	st, err := store.New("", filepath.Join(t.TempDir(), "news.json"))
	tester.NoErr(t, err)
	defer st.Close()

	_, err = st.InsertArticles(context.Background(), []article.Article{
		{Link: "https://a.com/one", Title: "One", ScrapedAt: time.Now()},
	})
	tester.NoErr(t, err)

	m := NewModel(st)
	msg := m.fetch()
	arts, ok := msg.(articlesMsg)
	tester.True(t, ok)
	tester.Eq(t, len(arts), 1)

	next, _ := m.Update(msg)
	model := next.(Model)
	tester.Eq(t, len(model.list.Items()), 1)
	tester.Eq(t, model.status, "1 articles")
}

func TestQuitKey(t *testing.T) {
	st, err := store.New("", filepath.Join(t.TempDir(), "news.json"))
	tester.NoErr(t, err)
	defer st.Close()

	m := NewModel(st)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tester.True(t, cmd != nil)
	_, isQuit := cmd().(tea.QuitMsg)
	tester.True(t, isQuit)
}

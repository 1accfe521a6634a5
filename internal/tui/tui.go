// Package tui is a terminal viewer over the latest stored articles.
package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/store"
)

const fetchLimit = 50

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	frameStyle  = lipgloss.NewStyle().Margin(1, 2)
)

type item struct {
	a article.Article
}

func (i item) Title() string { return i.a.Title }

func (i item) Description() string {
	parts := i.a.Source
	if i.a.FeedLabel != "" {
		parts += " / " + i.a.FeedLabel
	}
	return fmt.Sprintf("%s · %s", parts, i.a.Published.Format("Jan 2 15:04"))
}

func (i item) FilterValue() string { return i.a.Title }

type articlesMsg []article.Article

type errMsg struct{ err error }

// Model drives the article list. Press r to refresh, o to open the
// selected link in a browser, q to quit.
type Model struct {
	store  *store.Store
	list   list.Model
	status string
}

func NewModel(st *store.Store) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Gideon · latest articles"
	l.Styles.Title = titleStyle
	return Model{store: st, list: l, status: "loading..."}
}

func (m Model) Init() tea.Cmd {
	return m.fetch
}

func (m Model) fetch() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	arts, err := m.store.LatestArticles(ctx, fetchLimit)
	if err != nil {
		return errMsg{err}
	}
	return articlesMsg(arts)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := frameStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-1)
		return m, nil

	case articlesMsg:
		items := make([]list.Item, len(msg))
		for i, a := range msg {
			items[i] = item{a}
		}
		m.status = fmt.Sprintf("%d articles", len(msg))
		return m, m.list.SetItems(items)

	case errMsg:
		m.status = "error: " + msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.status = "refreshing..."
			return m, m.fetch
		case "o", "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				return m, openURL(it.a.Link)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return frameStyle.Render(m.list.View() + "\n" + statusStyle.Render(m.status))
}

func openURL(url string) tea.Cmd {
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if err := cmd.Start(); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// Run starts the viewer over the given store.
func Run(st *store.Store) error {
	_, err := tea.NewProgram(NewModel(st), tea.WithAltScreen()).Run()
	return err
}

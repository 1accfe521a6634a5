package run

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/analysis"
	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/briefing"
	"github.com/AlfredSjoqvist/gideon/internal/ensemble"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
	"github.com/AlfredSjoqvist/gideon/internal/trial"
)

func fullRunClient(t *testing.T) *llm.FakeClient {
	t.Helper()
	content := "# Daily Intelligence Briefing\n\n" +
		"## Executive Summary\n\n" +
		"The story of the day is [the launch](http://127.0.0.1:1/one)."
	draft, err := json.Marshal(map[string]string{"content": content})
	tester.NoErr(t, err)

	return llm.NewFakeClient("fake").
		Respond("rank:Solo", `[
			{"title":"Launch day","link":"http://127.0.0.1:1/one","rationale":"big","score":95},
			{"title":"Minor patch","link":"http://127.0.0.1:1/two","rationale":"small","score":10}]`).
		Respond("deep_analysis", `{"summary":"**The Signal:** launch happened"}`).
		Respond("board_vote", `{"winners":[{"title":"Launch day","link":"http://127.0.0.1:1/one"}]}`).
		Respond("newsletter", string(draft))
}

func TestPipelineRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	st, err := store.New("", filepath.Join(dir, "news.json"))
	tester.NoErr(t, err)
	defer st.Close()

	now := time.Now()
	_, err = st.InsertArticles(context.Background(), []article.Article{
		// unroutable links keep the scraper on the feed-summary fallback
		{Link: "http://127.0.0.1:1/one", Title: "Launch day", Summary: "a launch", Source: "Test", ScrapedAt: now, Published: now},
		{Link: "http://127.0.0.1:1/two", Title: "Minor patch", Summary: "a patch", Source: "Test", ScrapedAt: now, Published: now},
	})
	tester.NoErr(t, err)

	cli := fullRunClient(t)
	emitter := NewEmitter()
	events, cancel := emitter.Subscribe()
	defer cancel()

	p := &Pipeline{
		Store:    st,
		Rank:     cli,
		Board:    ensemble.NewBoard(cli),
		Analyzer: analysis.NewDeepAnalyzer(cli),
		Composer: briefing.NewComposer(cli),
		Jobs: []trial.Job{{
			RunName:      "test_run",
			Query:        store.RecentQuery{Source: "Test", Window: 24 * time.Hour},
			Panel:        []trial.Judge{{Name: "Solo", System: prompts.PragmaticEngineer, Weight: 1.0}},
			WinnersCount: 1,
		}},
		Meter:  llm.NewCostMeter(),
		Events: emitter,
	}

	out, err := p.Run(context.Background())
	tester.NoErr(t, err)
	tester.Eq(t, out.Picks[0].Article.Title, "Launch day")
	tester.Eq(t, out.Picks[0].EnsembleScore, 1)
	tester.Contains(t, out.Briefing.Content, briefing.ReferencesHeading)
	tester.Eq(t, out.Results["test_run"].Winners.Len(), 1)

	saved, err := st.BriefingByDate(context.Background(), out.Briefing.EntryDate)
	tester.NoErr(t, err)
	tester.Eq(t, saved.Content, out.Briefing.Content)

	stages := make(map[string]bool)
	for {
		select {
		case ev := <-events:
			stages[ev.Stage] = true
			if ev.Stage == "done" {
				tester.True(t, stages["trial"])
				tester.True(t, stages["deep_analysis"])
				tester.True(t, stages["board_vote"])
				tester.True(t, stages["briefing"])
				return
			}
		default:
			t.Fatalf("event stream ended before done, saw %v", stages)
		}
	}
}

func TestPipelineRanksWithJobModel(t *testing.T) {
	st, err := store.New("", filepath.Join(t.TempDir(), "news.json"))
	tester.NoErr(t, err)
	defer st.Close()

	now := time.Now()
	_, err = st.InsertArticles(context.Background(), []article.Article{
		{Link: "http://127.0.0.1:1/one", Title: "Launch day", Summary: "a launch", Source: "Test", ScrapedAt: now, Published: now},
		{Link: "http://127.0.0.1:1/two", Title: "Minor patch", Summary: "a patch", Source: "Test", ScrapedAt: now, Published: now},
	})
	tester.NoErr(t, err)

	cli := fullRunClient(t)
	// The default rank client errors on contact, so the run only succeeds
	// when the job's model id routes to its own client.
	fallback := llm.NewFakeClient("fallback").Fail(errors.New("wrong client"))

	p := &Pipeline{
		Store:    st,
		Rank:     fallback,
		Rankers:  map[string]llm.LLMClient{"rank-lite": cli},
		Board:    ensemble.NewBoard(cli),
		Analyzer: analysis.NewDeepAnalyzer(cli),
		Composer: briefing.NewComposer(cli),
		Jobs: []trial.Job{{
			RunName:      "routed",
			Query:        store.RecentQuery{Source: "Test", Window: 24 * time.Hour},
			Panel:        []trial.Judge{{Name: "Solo", System: prompts.PragmaticEngineer, Weight: 1.0}},
			WinnersCount: 1,
			Model:        "rank-lite",
		}},
		Meter:  llm.NewCostMeter(),
		Events: NewEmitter(),
	}

	out, err := p.Run(context.Background())
	tester.NoErr(t, err)
	tester.Eq(t, out.Results["routed"].Winners.Len(), 1)
	tester.Eq(t, len(fallback.Calls()), 0)
}

func TestRankerForFallsBack(t *testing.T) {
	def := llm.NewFakeClient("default")
	lite := llm.NewFakeClient("lite")
	p := &Pipeline{Rank: def, Rankers: map[string]llm.LLMClient{"lite": lite}}

	tester.True(t, p.rankerFor("lite") == llm.LLMClient(lite))
	tester.True(t, p.rankerFor("unknown") == llm.LLMClient(def))
	tester.True(t, p.rankerFor("") == llm.LLMClient(def))
}

func TestPipelineRunNoArticles(t *testing.T) {
	st, err := store.New("", filepath.Join(t.TempDir(), "news.json"))
	tester.NoErr(t, err)
	defer st.Close()

	p := &Pipeline{
		Store: st,
		Rank:  llm.NewFakeClient(""),
		Jobs: []trial.Job{{
			RunName: "empty",
			Query:   store.RecentQuery{Source: "Test", Window: time.Hour},
		}},
		Meter:  llm.NewCostMeter(),
		Events: NewEmitter(),
	}
	_, err = p.Run(context.Background())
	tester.True(t, err != nil)
}

func TestSplitForBriefing(t *testing.T) {
	picks := []store.Pick{
		{Article: article.Article{Link: "l1"}, EnsembleScore: 0},
		{Article: article.Article{Link: "l2"}, EnsembleScore: 2},
		{Article: article.Article{Link: "l3"}, EnsembleScore: 1},
	}
	deep, rest := splitForBriefing(picks)
	tester.Eq(t, len(deep), 2)
	tester.Eq(t, deep[0].Article.Link, "l2")
	tester.Eq(t, deep[1].Article.Link, "l3")
	tester.Eq(t, len(rest), 1)
	tester.Eq(t, rest[0].Article.Link, "l1")
}

func TestEmitterDropsWhenFullAndCancelCloses(t *testing.T) {
	e := NewEmitter()
	ch, cancel := e.Subscribe()
	for i := 0; i < 20; i++ {
		e.Emit(Event{Stage: "s"})
	}
	n := 0
	for range len(ch) {
		<-ch
		n++
	}
	tester.Eq(t, n, 16)

	cancel()
	_, open := <-ch
	tester.False(t, open)

	// emitting after cancel must not panic
	e.Emit(Event{Stage: "s"})
}

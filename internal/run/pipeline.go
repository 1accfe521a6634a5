package run

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/AlfredSjoqvist/gideon/internal/analysis"
	"github.com/AlfredSjoqvist/gideon/internal/archive"
	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/briefing"
	"github.com/AlfredSjoqvist/gideon/internal/ensemble"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/notify"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/trial"
)

// maxDeepDives caps how many stories get the per-story treatment in the
// briefing.
const maxDeepDives = 6

// Pipeline wires the daily run end to end: stage-1 trials over the
// recent store windows, deep analysis of the master corpus, the board
// vote, notifications, the briefing, and the archive.
type Pipeline struct {
	Store *store.Store
	Rank  llm.LLMClient
	// Rankers maps a job's model id to its client. Jobs whose model is
	// not in the map fall back to Rank.
	Rankers  map[string]llm.LLMClient
	Board    *ensemble.Board
	Analyzer *analysis.DeepAnalyzer
	Composer *briefing.Composer
	Notifier *notify.Notifier
	Archive  *archive.Archive
	Jobs     []trial.Job
	Broker   llm.PermitBroker
	Meter    *llm.CostMeter
	Events   *Emitter
}

// rankerFor picks the client for a job's model id.
func (p *Pipeline) rankerFor(model string) llm.LLMClient {
	if cli, ok := p.Rankers[model]; ok && cli != nil {
		return cli
	}
	return p.Rank
}

// Outcome is everything a completed run produced.
type Outcome struct {
	Briefing   store.Briefing
	Picks      []store.Pick
	Results    map[string]*trial.Result
	AlertsSent int
	CostUSD    float64
}

// Run executes the full pipeline once. A briefing that fails lint is
// rejected and nothing is persisted or published for the day.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	master := article.NewCorpus()
	results := make(map[string]*trial.Result, len(p.Jobs))

	for _, job := range p.Jobs {
		arts, err := p.Store.Recent(ctx, job.Query)
		if err != nil {
			return nil, fmt.Errorf("run: job %s: %w", job.RunName, err)
		}
		if len(arts) == 0 {
			log.Printf("run: job %s has no recent articles, skipping", job.RunName)
			continue
		}

		tr := trial.New(job.Panel, job.WinnersCount)
		tr.Broker = p.Broker
		res, err := tr.Convene(ctx, p.rankerFor(job.Model), article.NewCorpus(arts...))
		if err != nil {
			log.Printf("run: job %s failed: %v", job.RunName, err)
			continue
		}
		results[job.RunName] = res
		master.Merge(res.Winners)
		p.Events.Emit(Event{Stage: "trial", Message: job.RunName, Count: res.Winners.Len()})
	}
	if master.Len() == 0 {
		return nil, fmt.Errorf("run: no winners from any job")
	}
	p.Events.Emit(Event{Stage: "master_corpus", Count: master.Len()})

	picks := p.Analyzer.Analyze(ctx, master, "master")
	p.Events.Emit(Event{Stage: "deep_analysis", Count: len(picks)})

	picks = p.Board.Vote(ctx, picks)
	if err := p.Store.SavePicks(ctx, picks); err != nil {
		return nil, fmt.Errorf("run: save picks: %w", err)
	}
	p.Events.Emit(Event{Stage: "board_vote", Count: len(picks)})

	sent := 0
	if p.Notifier != nil {
		sent = p.Notifier.PushPicks(ctx, picks)
		p.Events.Emit(Event{Stage: "notifications", Count: sent})
	}

	deep, rest := splitForBriefing(picks)
	b, err := p.Composer.Compose(ctx, deep, rest)
	if err != nil {
		return nil, fmt.Errorf("run: briefing rejected: %w", err)
	}
	if err := p.Store.SaveBriefing(ctx, b); err != nil {
		return nil, fmt.Errorf("run: save briefing: %w", err)
	}
	p.Events.Emit(Event{Stage: "briefing", Count: len(b.Content)})

	if p.Notifier != nil {
		if err := p.Notifier.PushBriefing(ctx, b); err != nil {
			log.Printf("run: briefing notification failed: %v", err)
		}
	}
	if err := p.Archive.PutBriefing(ctx, b); err != nil {
		log.Printf("run: archive failed: %v", err)
	}

	cost := p.Meter.TotalUSD()
	p.Events.Emit(Event{Stage: "done", CostUSD: cost})
	log.Printf("run: complete, %d picks, %d alerts, $%.4f", len(picks), sent, cost)

	return &Outcome{
		Briefing:   b,
		Picks:      picks,
		Results:    results,
		AlertsSent: sent,
		CostUSD:    cost,
	}, nil
}

// splitForBriefing sends the board's favorites to the deep-dive section
// and everything else to the sector watch.
func splitForBriefing(picks []store.Pick) (deep, rest []store.Pick) {
	ordered := append([]store.Pick(nil), picks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EnsembleScore > ordered[j].EnsembleScore
	})
	for _, p := range ordered {
		if p.EnsembleScore > 0 && len(deep) < maxDeepDives {
			deep = append(deep, p)
		} else {
			rest = append(rest, p)
		}
	}
	return deep, rest
}

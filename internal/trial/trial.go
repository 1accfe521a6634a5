package trial

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/util/jsonutil"
)

// Judge is one scoring persona on a panel.
type Judge struct {
	Name   string
	System string
	Weight float64
}

// Score is one judge's opinion of one article.
type Score struct {
	Title     string  `json:"title"`
	Link      string  `json:"link"`
	Rationale string  `json:"rationale"`
	Score     float64 `json:"score"`
}

// Result is the outcome of a convened trial.
type Result struct {
	Winners *article.Corpus
	// Weighted holds the aggregated weighted score per normalized URL.
	Weighted map[string]float64
	// Breakdown holds each judge's raw scores per normalized URL.
	Breakdown map[string]map[string]Score
}

// Trial runs a judge panel over a corpus and keeps the top winners.
type Trial struct {
	Panel        []Judge
	WinnersCount int
	BatchSize    int
	// Broker, when set, reserves one permit per batch before a judge
	// starts, so the batch calls skip the per-call limiter wait.
	Broker llm.PermitBroker
	rng    *rand.Rand
}

func New(panel []Judge, winnersCount int) *Trial {
	if winnersCount < 1 {
		winnersCount = 1
	}
	return &Trial{
		Panel:        panel,
		WinnersCount: winnersCount,
		BatchSize:    DefaultBatchSize,
		rng:          rand.New(rand.NewSource(rand.Int63())),
	}
}

// Seed fixes the deck shuffle for reproducible runs.
func (t *Trial) Seed(seed int64) { t.rng = rand.New(rand.NewSource(seed)) }

// Convene runs every judge over a fresh deck and aggregates weighted
// scores keyed by normalized URL. A judge that never scored an article
// contributes zero for it.
func (t *Trial) Convene(ctx context.Context, cli llm.LLMClient, c *article.Corpus) (*Result, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("trial: empty corpus")
	}

	breakdown := make(map[string]map[string]Score, len(t.Panel))
	for _, j := range t.Panel {
		deck := NewDeck(c.Len(), t.BatchSize, t.rng)
		jctx := ctx
		if t.Broker != nil {
			lease, err := t.Broker.Reserve(ctx, len(deck.Batches))
			if err != nil {
				return nil, fmt.Errorf("trial: judge %s: reserve permits: %w", j.Name, err)
			}
			jctx = lease.Context(ctx)
		}
		verdict, err := t.verdict(jctx, cli, j, deck, c)
		if err != nil {
			return nil, fmt.Errorf("trial: judge %s: %w", j.Name, err)
		}
		breakdown[j.Name] = verdict
	}

	weighted := make(map[string]float64)
	for _, j := range t.Panel {
		for url, sc := range breakdown[j.Name] {
			weighted[url] += j.Weight * sc.Score
		}
	}

	type ranked struct {
		url   string
		score float64
	}
	order := make([]ranked, 0, len(weighted))
	for url, sc := range weighted {
		order = append(order, ranked{url, sc})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].score > order[j].score })

	winners := article.NewCorpus()
	for _, r := range order {
		if winners.Len() >= t.WinnersCount {
			break
		}
		if id, ok := c.ByLink(r.url); ok {
			if a, ok := c.At(id); ok {
				winners.Add(a)
			}
		}
	}
	return &Result{Winners: winners, Weighted: weighted, Breakdown: breakdown}, nil
}

// verdict runs one judge over every batch. The same article can come back
// several times (the deck is redundant); the last score wins.
func (t *Trial) verdict(ctx context.Context, cli llm.LLMClient, j Judge, deck Deck, c *article.Corpus) (map[string]Score, error) {
	ctx = llm.WithStage(ctx, "rank:"+j.Name)
	out := make(map[string]Score)
	batchPrompts := deck.Prompts(c)
	for i, articlesXML := range batchPrompts {
		raw, err := cli.GenerateJSON(ctx, prompts.Ranking(j.System, articlesXML), nil)
		if err != nil {
			log.Printf("trial: judge %s batch %d/%d failed: %v", j.Name, i+1, len(batchPrompts), err)
			continue
		}
		var scores []Score
		if err := jsonutil.UnmarshalRaw(raw, &scores); err != nil {
			log.Printf("trial: judge %s batch %d/%d bad payload: %v", j.Name, i+1, len(batchPrompts), err)
			continue
		}
		for _, sc := range scores {
			if sc.Link == "" {
				continue
			}
			// Resolve back to the corpus; hallucinated links are dropped.
			id, ok := c.ByLink(sc.Link)
			if !ok {
				id = c.FuzzyMatch(sc.Title, sc.Link)
				if id < 0 {
					continue
				}
			}
			a, _ := c.At(id)
			out[article.NormalizeURL(a.Link)] = sc
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable batch responses")
	}
	return out, nil
}

package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/util/jsonutil"
)

// DeepAnalyzer scrapes each winner and writes the structured ~200 word
// summary (Signal / Strategic Utility / Bigger Picture) into its pick.
type DeepAnalyzer struct {
	fetcher *PageFetcher
	cli     llm.LLMClient
}

func NewDeepAnalyzer(cli llm.LLMClient) *DeepAnalyzer {
	return &DeepAnalyzer{fetcher: NewPageFetcher(), cli: cli}
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Analyze turns the master corpus into picks carrying deep analysis.
// A failed scrape falls back to the feed summary; a failed model call
// leaves the pick without analysis rather than dropping it.
func (d *DeepAnalyzer) Analyze(ctx context.Context, c *article.Corpus, runName string) []store.Pick {
	ctx = llm.WithStage(ctx, "deep_analysis")
	picks := make([]store.Pick, 0, c.Len())
	for _, a := range c.Articles {
		pick := store.Pick{Article: a, RunName: runName, ChosenAt: time.Now()}

		text, err := d.fetcher.Text(ctx, a.Link)
		if err != nil {
			log.Printf("analysis: scrape %s failed, using feed summary: %v", a.Link, err)
			text = a.ShortSummary()
		}
		if text == "" {
			text = a.Title
		}

		summary, err := d.summarize(ctx, a.Title, text)
		if err != nil {
			log.Printf("analysis: summary for %s failed: %v", a.Link, err)
		} else {
			pick.DeepAnalysis = summary
		}
		picks = append(picks, pick)
	}
	return picks
}

func (d *DeepAnalyzer) summarize(ctx context.Context, title, text string) (string, error) {
	raw, err := d.cli.GenerateJSON(ctx, prompts.DeepSummary("TITLE: "+title+"\n\n"+text), nil)
	if err != nil {
		return "", err
	}
	var resp summaryResponse
	if err := jsonutil.UnmarshalRaw(raw, &resp); err != nil {
		return "", fmt.Errorf("bad summary payload: %w", err)
	}
	if resp.Summary == "" {
		return "", llm.ErrInvalidJSON
	}
	return resp.Summary, nil
}

package run

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/config"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
)

// Clients bundles the model clients a pipeline run needs. The rank
// client scores stage-1 trials; the board members vote in stage 2.
type Clients struct {
	Meter *llm.CostMeter
	Rank  llm.LLMClient
	// Rankers holds one client per rank model id, Rank included.
	Rankers map[string]llm.LLMClient
	Board   []llm.LLMClient
	// Writer drafts and audits the briefing.
	Writer llm.LLMClient
	// Broker pre-reserves rate-limit permits for batched stages.
	Broker llm.PermitBroker
}

// NewClients builds the wrapped model clients from the config. Every
// client shares one cost meter and the standard middleware chain.
// rankModels lists the extra model ids the trial jobs ask for; each
// distinct id gets its own client, and cfg.RankModel reuses Rank.
func NewClients(ctx context.Context, cfg *config.Config, rankModels ...string) (*Clients, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("run: GEMINI_API_KEY is required")
	}
	meter := llm.NewCostMeter()
	mw := []llm.Middleware{
		llm.Retry(3, time.Second),
		llm.RateLimitFromEnv("LLM", "GEMINI"),
		llm.WithLogging(nil),
		llm.WithUsageLedger(cfg.UsageLedgerPath()),
		llm.WithHooks(),
	}

	rank, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.RankModel, meter)
	if err != nil {
		return nil, fmt.Errorf("run: rank client: %w", err)
	}
	writer, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.BoardModel, meter)
	if err != nil {
		return nil, fmt.Errorf("run: writer client: %w", err)
	}

	c := &Clients{
		Meter:  meter,
		Rank:   llm.Wrap(rank, mw...),
		Writer: llm.Wrap(writer, mw...),
		Broker: llm.NewBroker(llm.LimiterFromEnv("LLM", "GEMINI")),
	}
	c.Rankers = map[string]llm.LLMClient{cfg.RankModel: c.Rank}
	for _, model := range rankModels {
		if model == "" || model == cfg.RankModel {
			continue
		}
		if _, ok := c.Rankers[model]; ok {
			continue
		}
		extra, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, model, meter)
		if err != nil {
			return nil, fmt.Errorf("run: rank client %s: %w", model, err)
		}
		c.Rankers[model] = llm.Wrap(extra, mw...)
	}
	c.Board = append(c.Board, c.Writer)

	if cfg.AnthropicAPIKey != "" {
		claude, err := llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, meter)
		if err != nil {
			return nil, fmt.Errorf("run: claude client: %w", err)
		}
		c.Board = append(c.Board, llm.Wrap(claude, mw...))
	} else {
		log.Printf("run: no ANTHROPIC_API_KEY, board votes with a single member")
	}
	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	all := append([]llm.LLMClient{c.Rank, c.Writer}, c.Board...)
	for _, cli := range c.Rankers {
		all = append(all, cli)
	}
	closed := make(map[llm.LLMClient]struct{})
	for _, cli := range all {
		if cli == nil {
			continue
		}
		if _, done := closed[cli]; done {
			continue
		}
		closed[cli] = struct{}{}
		_ = cli.Close()
	}
}

package briefing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/util/jsonutil"
)

// Composer turns the day's picks into a markdown briefing. The writer
// model drafts the document, the auditor pass corrects facts in place,
// and the reference section is rebuilt from the links actually cited.
type Composer struct {
	cli llm.LLMClient
	now func() time.Time
}

func NewComposer(cli llm.LLMClient) *Composer {
	return &Composer{cli: cli, now: time.Now}
}

type contentResponse struct {
	Content string `json:"content"`
}

// Compose drafts, audits, and finalizes the briefing. Deep-dive picks
// get the per-story treatment; context picks feed the sector watch. A
// briefing is returned even when linting fails, together with the
// LintError, so the caller can decide whether to publish.
func (c *Composer) Compose(ctx context.Context, deepDive, contextPicks []store.Pick) (store.Briefing, error) {
	ctx = llm.WithStage(ctx, "newsletter")
	date := c.now().UTC()
	dateLabel := date.Format("Monday, January 2, 2006")

	prompt := prompts.NewsletterSystem(dateLabel) + "\n\n" +
		prompts.Newsletter(dateLabel, deepDiveBlock(deepDive), contextBlock(contextPicks))

	raw, err := c.cli.GenerateJSON(ctx, prompt, nil)
	if err != nil {
		return store.Briefing{}, fmt.Errorf("briefing draft: %w", err)
	}
	var draft contentResponse
	if err := jsonutil.UnmarshalRaw(raw, &draft); err != nil {
		return store.Briefing{}, fmt.Errorf("briefing draft: %w", err)
	}
	if strings.TrimSpace(draft.Content) == "" {
		return store.Briefing{}, fmt.Errorf("briefing draft: empty content")
	}

	body := c.audit(ctx, draft.Content)

	// Drop any reference section the model emitted; ours is built from
	// the links actually present in the body.
	body, _, _ = splitReferences(body)
	body = strings.TrimSpace(body)

	all := append(append([]store.Pick(nil), deepDive...), contextPicks...)
	refs := BuildReferences(body, all)
	doc := body + "\n\n" + FormatReferences(refs)

	b := store.Briefing{
		EntryDate: date.Format("2006-01-02"),
		Content:   doc,
		CreatedAt: date,
	}
	if err := Lint(doc); err != nil {
		return b, err
	}
	return b, nil
}

// audit runs the fact-check pass. The audited text replaces the draft
// only when it comes back with the structure intact; otherwise the
// draft stands.
func (c *Composer) audit(ctx context.Context, draft string) string {
	raw, err := c.cli.GenerateJSON(ctx, prompts.Auditor(draft), nil)
	if err != nil {
		log.Printf("briefing: audit pass failed, keeping draft: %v", err)
		return draft
	}
	var audited contentResponse
	if err := jsonutil.UnmarshalRaw(raw, &audited); err != nil {
		log.Printf("briefing: audit pass returned bad JSON, keeping draft: %v", err)
		return draft
	}
	if strings.TrimSpace(audited.Content) == "" || countH1(audited.Content) != 1 {
		log.Printf("briefing: audit pass mangled the document, keeping draft")
		return draft
	}
	return audited.Content
}

func deepDiveBlock(picks []store.Pick) string {
	if len(picks) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for i, p := range picks {
		analysis := p.DeepAnalysis
		if analysis == "" {
			analysis = p.Article.ShortSummary()
		}
		fmt.Fprintf(&sb, "%d. TITLE: %s\nLINK: %s\nANALYSIS:\n%s\n\n",
			i+1, p.Article.Title, p.Article.Link, analysis)
	}
	return sb.String()
}

func contextBlock(picks []store.Pick) string {
	if len(picks) == 0 {
		return "(none)"
	}
	var sb strings.Builder
	for _, p := range picks {
		summary := p.DeepAnalysis
		if summary == "" {
			summary = p.Article.ShortSummary()
		}
		if len(summary) > 400 {
			summary = summary[:400] + "..."
		}
		fmt.Fprintf(&sb, "- TITLE: %s\n  LINK: %s\n  SUMMARY: %s\n", p.Article.Title, p.Article.Link, summary)
	}
	return sb.String()
}

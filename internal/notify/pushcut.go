package notify

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/util/jsonutil"
)

const (
	minAlerts = 4
	maxAlerts = 6

	fallbackTextLimit = 300
)

// Notifier pushes briefing alerts to a Pushcut-style webhook. A nil
// model client skips hook-text generation and uses the truncated
// analysis instead.
type Notifier struct {
	url  string
	cli  llm.LLMClient
	http *http.Client
}

func NewNotifier(url string, cli llm.LLMClient) *Notifier {
	return &Notifier{
		url:  url,
		cli:  cli,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type action struct {
	URL string `json:"url"`
}

type payload struct {
	Title         string  `json:"title"`
	Text          string  `json:"text"`
	Image         string  `json:"image,omitempty"`
	DefaultAction *action `json:"defaultAction,omitempty"`
}

// Queue orders picks for notification: unanimous winners first by vote
// count, then split votes until at least four alerts, capped at six.
func Queue(picks []store.Pick) []store.Pick {
	var unanimous, split []store.Pick
	for _, p := range picks {
		switch {
		case p.Unanimous():
			unanimous = append(unanimous, p)
		case p.EnsembleScore == 1:
			split = append(split, p)
		}
	}
	sort.SliceStable(unanimous, func(i, j int) bool {
		return unanimous[i].EnsembleScore > unanimous[j].EnsembleScore
	})

	queue := unanimous
	for _, p := range split {
		if len(queue) >= minAlerts {
			break
		}
		queue = append(queue, p)
	}
	if len(queue) > maxAlerts {
		queue = queue[:maxAlerts]
	}
	return queue
}

// PushPicks sends one alert per queued pick. Send failures are logged
// and do not stop the queue; the number of delivered alerts is returned.
func (n *Notifier) PushPicks(ctx context.Context, picks []store.Pick) int {
	if n.url == "" {
		log.Printf("notify: no webhook configured, skipping %d alert(s)", len(picks))
		return 0
	}
	sent := 0
	for _, p := range Queue(picks) {
		body := payload{
			Title:         "GIDEON: " + p.Article.Title,
			Text:          n.hookText(ctx, p),
			Image:         imageFor(p.Article.Metadata),
			DefaultAction: &action{URL: p.Article.Link},
		}
		if err := n.send(ctx, body); err != nil {
			log.Printf("notify: alert for %q failed: %v", p.Article.Title, err)
			continue
		}
		sent++
	}
	return sent
}

// PushBriefing announces the finished daily briefing.
func (n *Notifier) PushBriefing(ctx context.Context, b store.Briefing) error {
	if n.url == "" {
		return nil
	}
	return n.send(ctx, payload{
		Title: "GIDEON: Daily Briefing " + b.EntryDate,
		Text:  excerpt(b.Content),
	})
}

func (n *Notifier) hookText(ctx context.Context, p store.Pick) string {
	analysis := p.DeepAnalysis
	if analysis == "" {
		analysis = p.Article.ShortSummary()
	}
	fallback := analysis
	if len(fallback) > fallbackTextLimit {
		fallback = fallback[:fallbackTextLimit] + "..."
	}
	if n.cli == nil {
		return fallback
	}

	ctx = llm.WithStage(ctx, "notification")
	raw, err := n.cli.GenerateJSON(ctx, prompts.NotificationHook(p.Article.Title, analysis), nil)
	if err != nil {
		log.Printf("notify: hook text for %q failed: %v", p.Article.Title, err)
		return fallback
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := jsonutil.UnmarshalRaw(raw, &resp); err != nil || strings.TrimSpace(resp.Text) == "" {
		return fallback
	}
	return resp.Text
}

func (n *Notifier) send(ctx context.Context, body payload) error {
	buf, err := jsonutil.MarshalNoEscape(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned %s", resp.Status)
	}
	return nil
}

// imageFor digs a usable image URL out of article metadata.
func imageFor(meta map[string]any) string {
	for _, key := range []string{"thumbnail", "image"} {
		if s, ok := meta[key].(string); ok && strings.HasPrefix(s, "http") {
			return s
		}
	}
	return ""
}

// excerpt pulls the first prose paragraph from the briefing markdown.
func excerpt(content string) string {
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" || strings.HasPrefix(para, "#") {
			continue
		}
		if len(para) > fallbackTextLimit {
			para = para[:fallbackTextLimit] + "..."
		}
		return para
	}
	return "The daily briefing is ready."
}

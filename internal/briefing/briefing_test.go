package briefing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func TestBuildReferencesOrderAndTitles(t *testing.T) {
	body := "Intro [first](https://a.com/one) then [again](https://a.com/one) " +
		"and [second](https://b.com/two)."
	picks := []store.Pick{
		{Article: article.Article{Link: "https://a.com/one", Title: "[Inoreader] Show HN: A real title"}},
	}

	refs := BuildReferences(body, picks)
	tester.Eq(t, len(refs), 2)
	tester.Eq(t, refs[0].Num, 1)
	tester.Eq(t, refs[0].Title, "A real title")
	tester.Eq(t, refs[0].URL, "https://a.com/one")
	tester.Eq(t, refs[1].Num, 2)
	tester.Eq(t, refs[1].Title, "second")
}

func TestPublicationFor(t *testing.T) {
	tester.Eq(t, PublicationFor("https://www.github.com/x/y"), "GitHub")
	tester.Eq(t, PublicationFor("https://arxiv.org/abs/1"), "ArXiv")
	tester.Eq(t, PublicationFor("https://blog.example.com/post"), "Blog")
	tester.Eq(t, PublicationFor("not a url"), "Unknown")
}

func TestLintAcceptsWellFormedDocument(t *testing.T) {
	doc := "# Daily Intelligence Briefing\n\n" +
		"Body citing [one](https://a.com/one) and [two](https://b.com/two).\n\n" +
		ReferencesHeading + "\n\n" +
		"1. [One](https://a.com/one) — *A*\n" +
		"2. [Two](https://b.com/two) — *B*\n"
	tester.NoErr(t, Lint(doc))
}

func TestLintFlagsViolations(t *testing.T) {
	doc := "# Title\n\n# Second title\n\n" +
		"Cites [x](https://a.com/one) and [y](https://c.com/three).\n\n" +
		ReferencesHeading + "\n\n" +
		"1. [One](https://a.com/one) — *A*\n" +
		"3. [](not-a-url) — *B*\n" +
		"4. [Dup](https://a.com/one) — *A*\n"

	err := Lint(doc)
	var lerr *LintError
	tester.True(t, errors.As(err, &lerr))

	joined := strings.Join(lerr.Issues, "\n")
	tester.Contains(t, joined, "one H1")
	tester.Contains(t, joined, "out of sequence")
	tester.Contains(t, joined, "empty title")
	tester.Contains(t, joined, "invalid URL")
	tester.Contains(t, joined, "repeats URL")
	tester.Contains(t, joined, "https://c.com/three missing")
}

func TestLintRequiresReferenceSection(t *testing.T) {
	err := Lint("# Title\n\nNo references here.")
	var lerr *LintError
	tester.True(t, errors.As(err, &lerr))
	tester.Contains(t, strings.Join(lerr.Issues, "\n"), "missing "+ReferencesHeading)
}

func TestComposeAppendsReferencesAndPassesLint(t *testing.T) {
	content := "# Daily Intelligence Briefing\n\n" +
		"## Executive Summary\n" +
		"Read [the launch](https://a.com/one) and [the paper](https://arxiv.org/abs/2)."
	payload, _ := json.Marshal(contentResponse{Content: content})
	cli := llm.NewFakeClient("writer").RespondAll(string(payload))

	deep := []store.Pick{
		{Article: article.Article{Link: "https://a.com/one", Title: "Launch day"}, DeepAnalysis: "analysis"},
	}
	ctxPicks := []store.Pick{
		{Article: article.Article{Link: "https://arxiv.org/abs/2", Title: "A paper"}},
	}

	b, err := NewComposer(cli).Compose(context.Background(), deep, ctxPicks)
	tester.NoErr(t, err)
	tester.Contains(t, b.Content, ReferencesHeading)
	tester.Contains(t, b.Content, "1. [Launch day](https://a.com/one)")
	tester.Contains(t, b.Content, "2. [A paper](https://arxiv.org/abs/2) — *ArXiv*")
}

func TestComposeDraftFailure(t *testing.T) {
	cli := llm.NewFakeClient("writer").Fail(errors.New("quota"))
	_, err := NewComposer(cli).Compose(context.Background(), nil, nil)
	tester.True(t, err != nil)
}

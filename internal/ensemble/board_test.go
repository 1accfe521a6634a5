package ensemble

import (
	"context"
	"errors"
	"testing"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func testPicks() []store.Pick {
	return []store.Pick{
		{Article: article.Article{Link: "https://a.com/one", Title: "Compute buildout accelerates"}},
		{Article: article.Article{Link: "https://b.com/two", Title: "New training method published"}},
		{Article: article.Article{Link: "https://c.com/three", Title: "Regulation draft leaks"}},
	}
}

func TestVoteTalliesAcrossMembers(t *testing.T) {
	m1 := llm.NewFakeClient("m1").RespondAll(
		`{"winners":[{"title":"Compute buildout accelerates","link":"https://a.com/one"},
		             {"title":"New training method published","link":"https://b.com/two"}]}`)
	m2 := llm.NewFakeClient("m2").RespondAll(
		`{"winners":[{"title":"Compute buildout accelerates","link":"https://a.com/one"}]}`)

	picks := NewBoard(m1, m2).Vote(context.Background(), testPicks())
	tester.Eq(t, picks[0].EnsembleScore, 2)
	tester.Eq(t, picks[1].EnsembleScore, 1)
	tester.Eq(t, picks[2].EnsembleScore, 0)
	tester.True(t, picks[0].Unanimous())
	tester.False(t, picks[1].Unanimous())
}

func TestVoteFuzzyMatchesMangledLinks(t *testing.T) {
	// The member echoes a tracking-wrapped link and a slightly off title.
	m := llm.NewFakeClient("m").RespondAll(
		`{"winners":[{"title":"New training method published","link":"https://www.b.com/two?ref=digest"}]}`)

	picks := NewBoard(m).Vote(context.Background(), testPicks())
	tester.Eq(t, picks[1].EnsembleScore, 1)
	tester.Eq(t, picks[0].EnsembleScore, 0)
}

func TestVoteIgnoresFailingMember(t *testing.T) {
	good := llm.NewFakeClient("good").RespondAll(
		`{"winners":[{"title":"Regulation draft leaks","link":"https://c.com/three"}]}`)
	bad := llm.NewFakeClient("bad").Fail(errors.New("quota"))

	picks := NewBoard(good, bad).Vote(context.Background(), testPicks())
	tester.Eq(t, picks[2].EnsembleScore, 1)
}

func TestVoteEmptyPicks(t *testing.T) {
	picks := NewBoard(llm.NewFakeClient("")).Vote(context.Background(), nil)
	tester.Eq(t, len(picks), 0)
}

package ensemble

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/llm"
	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/util/jsonutil"
)

// maxAnalysisChars limits how much of each deep analysis a board member
// sees in the candidate block.
const maxAnalysisChars = 500

// Board is the stage-2 voting ensemble. Every member sees the same
// candidates and names exactly six winners; votes are tallied into each
// pick's ensemble score.
type Board struct {
	Members []llm.LLMClient
}

func NewBoard(members ...llm.LLMClient) *Board {
	return &Board{Members: members}
}

type ballot struct {
	Winners []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"winners"`
}

// Vote runs every member over the candidates and writes vote counts into
// the picks. A member whose ballot cannot be parsed abstains.
func (b *Board) Vote(ctx context.Context, picks []store.Pick) []store.Pick {
	if len(picks) == 0 {
		return picks
	}
	ctx = llm.WithStage(ctx, "board_vote")

	corpus := article.NewCorpus()
	for _, p := range picks {
		corpus.Add(p.Article)
	}
	block := candidateBlock(picks)

	votes := make(map[int]int)
	for _, member := range b.Members {
		raw, err := member.GenerateJSON(ctx, prompts.Voting(block), nil)
		if err != nil {
			log.Printf("ensemble: %s abstained: %v", member.Name(), err)
			continue
		}
		var bal ballot
		if err := jsonutil.UnmarshalRaw(raw, &bal); err != nil {
			log.Printf("ensemble: %s returned a bad ballot: %v", member.Name(), err)
			continue
		}
		for _, w := range bal.Winners {
			id, ok := corpus.ByLink(w.Link)
			if !ok {
				id = corpus.FuzzyMatch(w.Title, w.Link)
				if id < 0 {
					log.Printf("ensemble: %s voted for unknown candidate %q", member.Name(), w.Title)
					continue
				}
			}
			votes[id]++
		}
	}

	for i := range picks {
		if id, ok := corpus.ByLink(picks[i].Article.Link); ok {
			picks[i].EnsembleScore = votes[id]
		}
	}
	return picks
}

func candidateBlock(picks []store.Pick) string {
	var sb strings.Builder
	for i, p := range picks {
		analysis := p.DeepAnalysis
		if analysis == "" {
			analysis = p.Article.ShortSummary()
		}
		if len(analysis) > maxAnalysisChars {
			analysis = analysis[:maxAnalysisChars] + "..."
		}
		fmt.Fprintf(&sb, "%d. TITLE: %s\n   LINK: %s\n   ANALYSIS: %s\n\n",
			i+1, p.Article.Title, p.Article.Link, analysis)
	}
	return sb.String()
}

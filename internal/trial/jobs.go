package trial

import (
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/prompts"
	"github.com/AlfredSjoqvist/gideon/internal/store"
)

// Job is one named stage-1 run: a store query feeding a judge panel.
type Job struct {
	RunName      string
	Query        store.RecentQuery
	Panel        []Judge
	WinnersCount int
	Model        string
}

// DefaultJobs is the daily run table. Each job sweeps one slice of the
// feed catalog with the panel that knows that territory.
func DefaultJobs() []Job {
	return []Job{
		{
			RunName:      "general_ai_engineering",
			Query:        store.RecentQuery{Source: "Inoreader", Label: "ai-engineering", Window: 24 * time.Hour},
			Panel: []Judge{
				{Name: "Industry Expert", System: prompts.IndustryStrategist, Weight: 0.5},
				{Name: "Pragmatic Engineer", System: prompts.PragmaticEngineer, Weight: 0.5},
			},
			WinnersCount: 3,
			Model:        "gemini-2.5-flash",
		},
		{
			RunName:      "geopolitical",
			Query:        store.RecentQuery{Source: "Inoreader", Label: "geopolitics", Window: 24 * time.Hour},
			Panel:        []Judge{{Name: "Civilizational Expert", System: prompts.CivilizationalEngineer, Weight: 1.0}},
			WinnersCount: 3,
			Model:        "gemini-2.5-flash",
		},
		{
			RunName:      "general_tech",
			Query:        store.RecentQuery{Source: "Inoreader", Label: "tech", Window: 24 * time.Hour},
			Panel:        []Judge{{Name: "Civilizational Expert", System: prompts.CivilizationalEngineer, Weight: 1.0}},
			WinnersCount: 2,
			Model:        "gemini-2.5-flash",
		},
		{
			RunName:      "research_papers",
			Query:        store.RecentQuery{Source: "ArXiv", Window: 48 * time.Hour},
			Panel:        []Judge{{Name: "Research Frontiersman", System: prompts.ResearchFrontiersman, Weight: 1.0}},
			WinnersCount: 3,
			Model:        "gemini-2.5-flash",
		},
		{
			RunName:      "hackernews",
			Query:        store.RecentQuery{Source: "HackerNews", Window: 24 * time.Hour},
			Panel:        []Judge{{Name: "Pragmatic Engineer", System: prompts.PragmaticEngineer, Weight: 1.0}},
			WinnersCount: 2,
			Model:        "gemini-2.5-flash",
		},
		{
			RunName:      "sweden",
			Query:        store.RecentQuery{Source: "Inoreader", Label: "sweden", Window: 24 * time.Hour},
			Panel:        []Judge{{Name: "Innovation Scout", System: prompts.InnovationScout, Weight: 1.0}},
			WinnersCount: 3,
			Model:        "gemini-2.5-flash",
		},
	}
}

package store

import (
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/article"
)

// Pick is a winner chosen by the trials plus whatever the later stages
// attached to it.
type Pick struct {
	Article       article.Article `json:"article"`
	RunName       string          `json:"run_name"`
	DeepAnalysis  string          `json:"deep_analysis,omitempty"`
	EnsembleScore int             `json:"ensemble_score"`
	ChosenAt      time.Time       `json:"chosen_at"`
}

// Unanimous reports whether at least two board members voted for it.
func (p Pick) Unanimous() bool { return p.EnsembleScore >= 2 }

// Briefing is one rendered daily document keyed by its entry date.
type Briefing struct {
	EntryDate string    `json:"entry_date"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// fileData is the JSON fallback layout on disk.
type fileData struct {
	Articles  []article.Article `json:"articles"`
	Picks     []Pick            `json:"picks"`
	Briefings []Briefing        `json:"briefings"`
}

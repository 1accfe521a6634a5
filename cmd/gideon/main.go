package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/app"
	"github.com/AlfredSjoqvist/gideon/internal/config"
	"github.com/AlfredSjoqvist/gideon/internal/report"
)

// One-shot pipeline run: trials, analysis, vote, briefing, archive.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	a, err := app.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = a.Shutdown(sctx)
	}()

	out, err := a.Pipeline().Run(ctx)
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	if len(out.Results) > 0 {
		path := filepath.Join(a.Config().DataDir, "scores-"+out.Briefing.EntryDate+".xlsx")
		if err := report.Write(path, out.Results); err != nil {
			log.Printf("report: %v", err)
		} else {
			log.Printf("report: wrote %s", path)
		}
	}

	log.Printf("briefing for %s ready (%d picks, $%.4f)",
		out.Briefing.EntryDate, len(out.Picks), out.CostUSD)
}

package main

import (
	"context"
	"log"
	"time"

	"github.com/AlfredSjoqvist/gideon/internal/config"
	"github.com/AlfredSjoqvist/gideon/internal/feed"
	"github.com/AlfredSjoqvist/gideon/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	cat, err := feed.LoadCatalog(cfg.FeedsPath)
	if err != nil {
		log.Fatalf("feed catalog: %v", err)
	}

	st, err := store.New(cfg.DatabaseURL, cfg.StorePath())
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	arts := feed.NewFetcher().FetchAll(ctx, cat)
	inserted, err := st.InsertArticles(ctx, arts)
	if err != nil {
		log.Fatalf("insert: %v", err)
	}
	log.Printf("ingest: %d fetched, %d new", len(arts), inserted)
}

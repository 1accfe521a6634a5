package main

import (
	"log"

	"github.com/AlfredSjoqvist/gideon/internal/config"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := store.New(cfg.DatabaseURL, cfg.StorePath())
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	if err := tui.Run(st); err != nil {
		log.Fatalf("tui: %v", err)
	}
}

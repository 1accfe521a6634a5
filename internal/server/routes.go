package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlfredSjoqvist/gideon/internal/run"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/util/jsonutil"
)

// RunFunc launches one pipeline run. It is called on its own goroutine.
type RunFunc func(ctx context.Context) error

// Service holds the HTTP surface's dependencies.
type Service struct {
	store  *store.Store
	events *run.Emitter
	runFn  RunFunc

	mu      sync.Mutex
	running bool
}

func NewService(st *store.Store, events *run.Emitter, runFn RunFunc) *Service {
	return &Service{store: st, events: events, runFn: runFn}
}

// BuildMux registers all routes on a new ServeMux.
func BuildMux(s *Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/articles", s.handleArticles)
	mux.HandleFunc("GET /api/briefings/today", s.handleBriefingToday)
	mux.HandleFunc("GET /api/briefings/{date}", s.handleBriefingByDate)
	mux.HandleFunc("POST /api/run", s.handleStartRun)
	mux.HandleFunc("GET /ws/events", s.handleEvents)
	return mux
}

func (s *Service) handleArticles(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	arts, err := s.store.LatestArticles(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": arts})
}

func (s *Service) handleBriefingToday(w http.ResponseWriter, r *http.Request) {
	s.serveBriefing(w, r, time.Now().UTC().Format("2006-01-02"))
}

func (s *Service) handleBriefingByDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
		return
	}
	s.serveBriefing(w, r, date)
}

func (s *Service) serveBriefing(w http.ResponseWriter, r *http.Request, date string) {
	b, err := s.store.BriefingByDate(r.Context(), date)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Service) handleStartRun(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, errors.New("a run is already in progress"))
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()
		if err := s.runFn(context.Background()); err != nil {
			log.Printf("server: run failed: %v", err)
			s.events.Emit(run.Event{Stage: "error", Message: err.Error()})
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleEvents streams pipeline events over a websocket until the
// client disconnects.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := s.events.Subscribe()
	defer cancel()

	// Drain reads so close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AlfredSjoqvist/gideon/internal/article"
	"github.com/AlfredSjoqvist/gideon/internal/run"
	"github.com/AlfredSjoqvist/gideon/internal/store"
	"github.com/AlfredSjoqvist/gideon/internal/tester"
)

func testService(t *testing.T, runFn RunFunc) (*Service, *httptest.Server) {
	t.Helper()
	st, err := store.New("", filepath.Join(t.TempDir(), "news.json"))
	tester.NoErr(t, err)
	t.Cleanup(func() { _ = st.Close() })

	if runFn == nil {
		runFn = func(ctx context.Context) error { return nil }
	}
	s := NewService(st, run.NewEmitter(), runFn)
	srv := httptest.NewServer(BuildMux(s))
	t.Cleanup(srv.Close)
	return s, srv
}

func TestArticlesEndpoint(t *testing.T) {
	s, srv := testService(t, nil)
	_, err := s.store.InsertArticles(context.Background(), []article.Article{
		{Link: "https://a.com/one", Title: "One", ScrapedAt: time.Now()},
	})
	tester.NoErr(t, err)

	resp, err := http.Get(srv.URL + "/api/articles?n=5")
	tester.NoErr(t, err)
	defer resp.Body.Close()
	tester.Eq(t, resp.StatusCode, http.StatusOK)

	var body struct {
		Articles []article.Article `json:"articles"`
	}
	tester.NoErr(t, json.NewDecoder(resp.Body).Decode(&body))
	tester.Eq(t, len(body.Articles), 1)
	tester.Eq(t, body.Articles[0].Title, "One")
}

func TestBriefingEndpoints(t *testing.T) {
	s, srv := testService(t, nil)

	resp, err := http.Get(srv.URL + "/api/briefings/today")
	tester.NoErr(t, err)
	resp.Body.Close()
	tester.Eq(t, resp.StatusCode, http.StatusNotFound)

	b := store.Briefing{EntryDate: "2026-08-31", Content: "# Daily Intelligence Briefing"}
	tester.NoErr(t, s.store.SaveBriefing(context.Background(), b))

	resp, err = http.Get(srv.URL + "/api/briefings/2026-08-31")
	tester.NoErr(t, err)
	defer resp.Body.Close()
	tester.Eq(t, resp.StatusCode, http.StatusOK)
	raw, _ := io.ReadAll(resp.Body)
	tester.Contains(t, string(raw), "Daily Intelligence Briefing")

	resp, err = http.Get(srv.URL + "/api/briefings/not-a-date")
	tester.NoErr(t, err)
	resp.Body.Close()
	tester.Eq(t, resp.StatusCode, http.StatusBadRequest)
}

func TestStartRunRejectsConcurrent(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	_, srv := testService(t, func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	})
	defer close(release)

	resp, err := http.Post(srv.URL+"/api/run", "application/json", nil)
	tester.NoErr(t, err)
	resp.Body.Close()
	tester.Eq(t, resp.StatusCode, http.StatusAccepted)

	<-started
	resp, err = http.Post(srv.URL+"/api/run", "application/json", nil)
	tester.NoErr(t, err)
	resp.Body.Close()
	tester.Eq(t, resp.StatusCode, http.StatusConflict)
}

func TestEventsWebsocket(t *testing.T) {
	s, srv := testService(t, nil)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	tester.NoErr(t, err)
	defer conn.Close()

	// give the server a beat to register the subscriber
	time.Sleep(50 * time.Millisecond)
	s.events.Emit(run.Event{Stage: "trial", Count: 3})

	var ev run.Event
	tester.NoErr(t, conn.ReadJSON(&ev))
	tester.Eq(t, ev.Stage, "trial")
	tester.Eq(t, ev.Count, 3)
}

package run

import (
	"sync"
	"time"
)

// Event is one pipeline progress update.
type Event struct {
	Stage   string    `json:"stage"`
	Message string    `json:"message,omitempty"`
	Count   int       `json:"count,omitempty"`
	CostUSD float64   `json:"cost_usd,omitempty"`
	At      time.Time `json:"at"`
}

// Emitter fans pipeline events out to subscribers. Slow subscribers
// drop events rather than stall the pipeline.
type Emitter struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be
// called to release it.
func (e *Emitter) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	e.mu.Lock()
	e.subs[ch] = struct{}{}
	e.mu.Unlock()

	cancel := func() {
		e.mu.Lock()
		if _, ok := e.subs[ch]; ok {
			delete(e.subs, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, cancel
}

// Emit delivers an event to every subscriber without blocking. Safe on
// a nil emitter.
func (e *Emitter) Emit(ev Event) {
	if e == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

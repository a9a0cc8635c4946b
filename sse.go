package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	subscriberBuffer = 16
	sseHeartbeat     = 30 * time.Second
)

// Event is a game notification pushed to SSE and websocket subscribers.
type Event struct {
	Type   string       `json:"type"` // "game_state", "cell_update" or "solved"
	GameID string       `json:"game_id"`
	Move   *Move        `json:"move,omitempty"`
	Cells  [][]CellView `json:"cells,omitempty"`
	Solved bool         `json:"solved"`
}

// subscriber is one live connection following a game.
type subscriber struct {
	ch     chan []byte
	gameID string
}

// Broadcaster fans game events out to subscribers grouped by game session.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[*subscriber]struct{}),
	}
}

// Subscribe registers a subscriber for a game session.
func (b *Broadcaster) Subscribe(gameID string) *subscriber {
	s := &subscriber{
		ch:     make(chan []byte, subscriberBuffer),
		gameID: gameID,
	}
	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()
	return s
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broadcaster) Unsubscribe(s *subscriber) {
	b.mu.Lock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		close(s.ch)
	}
	b.mu.Unlock()
}

// Publish sends evt to every subscriber of its game. Slow subscribers whose
// buffer is full miss the event.
func (b *Broadcaster) Publish(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("encode %s event: %v", evt.Type, err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if s.gameID != evt.GameID {
			continue
		}
		select {
		case s.ch <- data:
		default:
		}
	}
}

// Count returns the number of subscribers of a game.
func (b *Broadcaster) Count(gameID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for s := range b.subs {
		if s.gameID == gameID {
			n++
		}
	}
	return n
}

// ServeSSE streams the events of a game over server-sent events. snapshot, if
// non-nil, is called once the stream is subscribed and its event is written
// first, so no event published in between is lost.
func (b *Broadcaster) ServeSSE(w http.ResponseWriter, r *http.Request, gameID string, snapshot func() Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming non supporté", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s := b.Subscribe(gameID)
	defer b.Unsubscribe(s)

	if snapshot != nil {
		if data, err := json.Marshal(snapshot()); err == nil {
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-s.ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

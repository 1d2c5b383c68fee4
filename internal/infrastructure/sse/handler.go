// Package sse streams story events to browsers with Server-Sent Events.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/storyreview/pkg/domain/events"
)

// Message is the data line of a streamed event.
type Message struct {
	ID        uint64                 `json:"id"`
	Type      string                 `json:"type"`
	StoryID   string                 `json:"story_id,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Broker fans dispatched events out to the connected SSE clients. Slow
// clients miss events instead of blocking the dispatcher.
type Broker struct {
	mu      sync.RWMutex
	clients map[chan Message]struct{}
	seq     atomic.Uint64
}

// NewBroker creates a broker with no clients.
func NewBroker() *Broker {
	return &Broker{clients: make(map[chan Message]struct{})}
}

// Attach registers the broker for every event of d.
func (b *Broker) Attach(d *events.Dispatcher) {
	d.RegisterWildcard("stream", b.Handle)
}

// Handle broadcasts event. It never fails.
func (b *Broker) Handle(_ context.Context, event events.DomainEvent) error {
	msg := Message{
		ID:        b.seq.Add(1),
		Type:      event.EventType(),
		StoryID:   event.AggregateID(),
		Actor:     event.ActorName(),
		Timestamp: event.OccurredAt(),
		Data:      event.Metadata(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.clients {
		select {
		case ch <- msg:
		default:
			// Drop if client is slow
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (b *Broker) Clients() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ServeHTTP streams events until the client goes away. The "types" query
// parameter restricts the stream to a comma separated list of event types.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	typeFilter := make(map[string]bool)
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				typeFilter[t] = true
			}
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan Message, 64)

	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.clients, ch)
		b.mu.Unlock()
		close(ch)
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-ch:
			if len(typeFilter) > 0 && !typeFilter[msg.Type] {
				continue
			}
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "id: %d\n", msg.ID)
			_, _ = fmt.Fprintf(w, "event: %s\n", msg.Type)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

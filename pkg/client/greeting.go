package client

import (
	"context"
	"encoding/json"
	"sync"
)

// Greeting mirrors the dashboard front page: it loads the root endpoint's
// message once and exposes it for rendering. The message is empty until a
// load succeeds.
//
// A failed or malformed load leaves the message unchanged and reports
// nothing; this matches the page it replaces, which had no rejection
// handler on its fetch. Callers that care should add their own surface.
type Greeting struct {
	api APIClient

	mu      sync.RWMutex
	message string
}

// NewGreeting creates a Greeting backed by the given API client.
func NewGreeting(api APIClient) *Greeting {
	return &Greeting{api: api}
}

// Load fetches GET / and stores the message field of the response body.
func (g *Greeting) Load(ctx context.Context) {
	body, err := g.api.Get(ctx, "/")
	if err != nil {
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}

	g.mu.Lock()
	g.message = payload.Message
	g.mu.Unlock()
}

// Message returns the currently loaded greeting, or "" before any
// successful Load.
func (g *Greeting) Message() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.message
}

package api

import (
	"encoding/json"
	"net/http"
	"sync"
)

// ─── Live Rewards Feed ──────────────────────────────────────────────────────
// SuperCoin issuance events are pushed to the dashboard as they happen:
// {type: "coins_earned", coins: 50, credit_type: "Tree Plantation"}

// RewardsHub manages subscriber connections for the live rewards feed.
type RewardsHub struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewRewardsHub creates a new rewards broadcast hub.
func NewRewardsHub() *RewardsHub {
	return &RewardsHub{
		clients: make(map[chan []byte]struct{}),
	}
}

// Broadcast sends a coin event to all connected clients.
func (h *RewardsHub) Broadcast(event CoinEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Client too slow — drop message
		}
	}
}

// Subscribe registers a new client. Returns the channel and an unsubscribe func.
func (h *RewardsHub) Subscribe() (chan []byte, func()) {
	ch := make(chan []byte, 32)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
		close(ch)
	}
}

// ClientCount returns the number of connected clients.
func (h *RewardsHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CoinEvent represents a single SuperCoin issuance.
type CoinEvent struct {
	Type       string `json:"type"`        // "coins_earned"
	Coins      int64  `json:"coins"`       // SuperCoins issued
	CreditType string `json:"credit_type"` // Offset product that cleared the liability
	Timestamp  int64  `json:"timestamp"`   // Unix epoch
}

// HandleRewardsSSE serves the live rewards feed via Server-Sent Events.
// GET /api/rewards/live
// Uses SSE instead of WebSocket for simplicity and HTTP/2 compatibility.
func (h *RewardsHub) HandleRewardsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	flusher.Flush()

	ch, unsub := h.Subscribe()
	defer unsub()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			w.Write([]byte("data: "))
			w.Write(data)
			w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

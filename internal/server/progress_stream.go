package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
)

// progressEvent is one update broadcast over the progress websocket while
// a scan_trades or morning_brief run is in flight.
type progressEvent struct {
	RunID     string `json:"run_id"`
	Operation string `json:"operation"`
	Stage     string `json:"stage"` // "started", "completed", "failed"
}

// progressHub fans out progressEvents to every connected websocket
// client, the server-side mirror of the teacher's client-side
// MarketStatusWebSocket (internal/clients/tradernet/websocket_client.go):
// same buffered-channel-per-connection idea, inverted from dialing out to
// accepting connections and broadcasting instead of subscribing.
type progressHub struct {
	mu      sync.RWMutex
	clients map[chan progressEvent]struct{}
}

func newProgressHub() *progressHub {
	return &progressHub{clients: make(map[chan progressEvent]struct{})}
}

func (h *progressHub) subscribe() chan progressEvent {
	ch := make(chan progressEvent, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *progressHub) unsubscribe(ch chan progressEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *progressHub) broadcast(event progressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default: // slow consumer; drop rather than block the run
		}
	}
}

// handleProgressStream upgrades the request to a websocket and streams
// progressEvents to the client until it disconnects.
func (s *Server) handleProgressStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to accept progress websocket")
		return
	}
	defer conn.CloseNow()

	ch := s.progress.subscribe()
	defer s.progress.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "client disconnected")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			blob, err := json.Marshal(event)
			if err != nil {
				cancel()
				continue
			}
			err = conn.Write(writeCtx, websocket.MessageText, blob)
			cancel()
			if err != nil {
				s.log.Debug().Err(err).Msg("progress websocket write failed, closing")
				return
			}
		}
	}
}

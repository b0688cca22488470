package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rgower/vantage/internal/models"
)

// streamEvent is the wire shape of one server-sent event on /api/stream.
type streamEvent struct {
	Kind        models.WatchKind    `json:"kind"`
	Investments []models.Investment `json:"investments,omitempty"`
	Goal        *models.Goal        `json:"goal,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// handleStream handles GET /api/stream: a server-sent events feed of the
// investment and goal watches for the current user. The subscription lives
// until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sub, err := s.app.PortfolioService.Subscribe(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub.Events():
			if !open {
				return
			}
			payload := streamEvent{
				Kind:        event.Kind,
				Investments: event.Investments,
				Goal:        event.Goal,
			}
			if event.Err != nil {
				payload.Error = event.Err.Error()
			}
			data, err := json.Marshal(payload)
			if err != nil {
				s.logger.Error().Err(err).Msg("Failed to encode stream event")
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Kind, data)
			flusher.Flush()
		}
	}
}

package api

import (
	"net/http"

	"github.com/bombom/mc-status-bot/pkg/registry"
)

// StateResponse reports the poll loop's view of the server.
// Online is null until the first successful poll.
type StateResponse struct {
	Address string `json:"address"`
	Known   bool   `json:"known"`
	Online  *bool  `json:"online"`
}

// ChannelsResponse lists announcement channel registrations.
type ChannelsResponse struct {
	Count    int              `json:"count"`
	Channels []registry.Entry `json:"channels"`
}

// HealthCheck returns 200 OK while the process is serving.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "mc-status-bot",
	})
}

// GetState returns the last observed server state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "Service unavailable", "Request cancelled")
		return
	}

	online, known := s.state.LastState()
	resp := StateResponse{Address: s.state.ServerAddress(), Known: known}
	if known {
		resp.Online = &online
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetChannels returns every guild's announcement channel.
func (s *Server) GetChannels(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "Service unavailable", "Request cancelled")
		return
	}

	entries := s.state.Channels()
	if entries == nil {
		entries = []registry.Entry{}
	}
	WriteJSON(w, http.StatusOK, ChannelsResponse{Count: len(entries), Channels: entries})
}

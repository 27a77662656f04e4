package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/maseurodrigo/TipStream-sub000/internal/service"
)

// HTTPHandler handles HTTP API requests for the relay.
type HTTPHandler struct {
	service service.RelayService
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(svc service.RelayService) *HTTPHandler {
	return &HTTPHandler{
		service: svc,
	}
}

// MembersResponse is the API response for membership queries.
type MembersResponse struct {
	SessionID string   `json:"session_id"`
	Members   []string `json:"members"`
	Count     int      `json:"count"`
}

// GetMembers handles GET /api/v1/sessions/{session_id}/members
func (h *HTTPHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["session_id"]

	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	members, err := h.service.SessionMembers(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "failed to list session members", http.StatusInternalServerError)
		return
	}

	response := MembersResponse{
		SessionID: sessionID,
		Members:   members,
		Count:     len(members),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetStats handles GET /stats
func (h *HTTPHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		http.Error(w, "failed to collect stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// HealthCheck handles GET /health
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

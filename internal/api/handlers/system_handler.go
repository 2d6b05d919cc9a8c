package handlers

import (
	"net/http"
)

const demoMessage = "Hello from the wellness portal server"

// MessageResponse is the body of /api/ping and /api/demo
type MessageResponse struct {
	Message string `json:"message"`
}

// SystemHandler serves the liveness and demo endpoints
type SystemHandler struct {
	pingMessage string
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(pingMessage string) *SystemHandler {
	return &SystemHandler{pingMessage: pingMessage}
}

// Ping handles GET /api/ping
func (h *SystemHandler) Ping(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: h.pingMessage})
}

// Demo handles GET /api/demo
func (h *SystemHandler) Demo(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: demoMessage})
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// SessionHandler issues opaque session tokens. The token is a capability:
// whoever holds it owns the session's profile, try-list, and progress.
// Clients may also bring their own opaque token; nothing is stored here.
type SessionHandler struct {
	logger *slog.Logger
}

func NewSessionHandler(logger *slog.Logger) *SessionHandler {
	return &SessionHandler{logger: logger}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": uuid.NewString()})
}

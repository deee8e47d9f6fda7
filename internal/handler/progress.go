package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trailhead-app/trailhead/internal/store"
	"github.com/trailhead-app/trailhead/internal/websocket"
)

type ProgressHandler struct {
	progressStore *store.ProgressStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewProgressHandler(ps *store.ProgressStore, hub *websocket.Hub, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressStore: ps,
		hub:           hub,
		logger:        logger,
	}
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	prog, err := h.progressStore.GetOrInit(sessionID)
	if err != nil {
		h.logger.Error("get progress", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get progress"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"progress": prog})
}

type reconcileRequest struct {
	SessionID string `json:"session_id"`
}

// Reconcile recomputes XP and completion totals from the try-list rows and
// repairs the stored counters if they have drifted. Streak state is left
// alone; it cannot be rebuilt from item timestamps after the fact.
func (h *ProgressHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	prog, corrected, err := h.progressStore.Reconcile(req.SessionID)
	if err != nil {
		h.logger.Error("reconcile progress", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to reconcile progress"})
		return
	}

	if corrected {
		h.logger.Warn("progress counters corrected", "session_id", req.SessionID,
			"total_xp", prog.TotalXP, "tasks_completed", prog.TasksCompleted)
		if h.hub != nil {
			h.hub.Broadcast(req.SessionID, websocket.NewMessage("progress", "updated", 0, nil))
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"progress":  prog,
		"corrected": corrected,
	})
}

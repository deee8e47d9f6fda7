package handler

import (
	"log/slog"
	"net/http"

	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/store"
)

const recentTaskLimit = 5

type DashboardHandler struct {
	archetypeStore *store.ArchetypeStore
	progressStore  *store.ProgressStore
	itemStore      *store.TryListStore
	logger         *slog.Logger
}

func NewDashboardHandler(as *store.ArchetypeStore, ps *store.ProgressStore, ts *store.TryListStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		archetypeStore: as,
		progressStore:  ps,
		itemStore:      ts,
		logger:         logger,
	}
}

// Get assembles the dashboard view in one response: archetype (null before
// assessment), progress counters, recent activity, and try-list stats.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	archetype, err := h.archetypeStore.GetBySession(sessionID)
	if err != nil {
		h.logger.Error("get archetype", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}

	prog, err := h.progressStore.GetOrInit(sessionID)
	if err != nil {
		h.logger.Error("get progress", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}

	recent, err := h.itemStore.Recent(sessionID, recentTaskLimit)
	if err != nil {
		h.logger.Error("get recent tasks", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}
	if recent == nil {
		recent = []model.TryListItem{}
	}

	stats, err := h.itemStore.Stats(sessionID)
	if err != nil {
		h.logger.Error("get try-list stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load dashboard"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"archetype":    archetype,
		"progress":     prog,
		"recent_tasks": recent,
		"stats":        stats,
	})
}

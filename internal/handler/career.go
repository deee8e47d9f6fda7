package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trailhead-app/trailhead/internal/ai"
	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/store"
	"github.com/trailhead-app/trailhead/internal/websocket"
)

// careerXPReward is the fixed XP reward attached to each generated career.
const careerXPReward = 15

type CareerHandler struct {
	careerStore    *store.CareerStore
	profileStore   *store.ProfileStore
	archetypeStore *store.ArchetypeStore
	aiClient       *ai.Client
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewCareerHandler(cs *store.CareerStore, ps *store.ProfileStore, as *store.ArchetypeStore, aiClient *ai.Client, hub *websocket.Hub, logger *slog.Logger) *CareerHandler {
	return &CareerHandler{
		careerStore:    cs,
		profileStore:   ps,
		archetypeStore: as,
		aiClient:       aiClient,
		hub:            hub,
		logger:         logger,
	}
}

func (h *CareerHandler) broadcast(sessionID string, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(sessionID, msg)
	}
}

// Generate asks the AI for career recommendations based on the session's
// profile and archetype and persists each one. Inserts are independent:
// a mid-list failure leaves earlier rows committed.
func (h *CareerHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	profile, err := h.profileStore.GetLatest(req.SessionID)
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get profile"})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}

	archetype, err := h.archetypeStore.GetBySession(req.SessionID)
	if err != nil {
		h.logger.Error("get archetype", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get archetype"})
		return
	}

	fields, err := h.aiClient.GenerateCareers(r.Context(), profile, archetype)
	if err != nil {
		h.logger.Error("generate careers", "session_id", req.SessionID, "error", err)
		if errors.Is(err, ai.ErrUpstream) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to generate career recommendations"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate career recommendations"})
		return
	}

	var saved []model.CareerMatch
	for _, f := range fields {
		career, err := h.careerStore.Create(
			req.SessionID, f.Title, f.Category, f.MatchReason, f.ExampleTasks,
			f.EnergyLevel, f.IncomeRange, f.GrowthPotential, careerXPReward,
		)
		if err != nil {
			h.logger.Error("save career match", "title", f.Title, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save career recommendations"})
			return
		}
		saved = append(saved, *career)
	}

	h.broadcast(req.SessionID, websocket.NewMessage("careers", "generated", 0, map[string]any{"count": len(saved)}))

	writeJSON(w, http.StatusCreated, map[string]any{"careers": saved})
}

func (h *CareerHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	careers, err := h.careerStore.List(sessionID)
	if err != nil {
		h.logger.Error("list careers", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list careers"})
		return
	}
	if careers == nil {
		careers = []model.CareerMatch{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"careers": careers})
}

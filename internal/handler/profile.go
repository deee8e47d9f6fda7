package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/trailhead-app/trailhead/internal/ai"
	"github.com/trailhead-app/trailhead/internal/store"
	"github.com/trailhead-app/trailhead/internal/websocket"
)

type ProfileHandler struct {
	profileStore   *store.ProfileStore
	archetypeStore *store.ArchetypeStore
	progressStore  *store.ProgressStore
	aiClient       *ai.Client
	hub            *websocket.Hub
	logger         *slog.Logger
}

func NewProfileHandler(ps *store.ProfileStore, as *store.ArchetypeStore, prs *store.ProgressStore, aiClient *ai.Client, hub *websocket.Hub, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileStore:   ps,
		archetypeStore: as,
		progressStore:  prs,
		aiClient:       aiClient,
		hub:            hub,
		logger:         logger,
	}
}

func (h *ProfileHandler) broadcast(sessionID string, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(sessionID, msg)
	}
}

type profileRequest struct {
	SessionID      string   `json:"session_id"`
	Strengths      string   `json:"strengths"`
	MBTI           string   `json:"mbti"`
	Enneagram      *int64   `json:"enneagram"`
	HollandCode    string   `json:"holland_code"`
	Values         []string `json:"values"`
	CurrentHobbies []string `json:"current_hobbies"`
	FutureHobbies  string   `json:"future_hobbies"`
	Skills         string   `json:"skills"`
}

// Generate saves the assessment inputs, asks the AI for an archetype,
// persists it, and lazily initializes the session's progress ledger.
// The profile insert and the archetype insert are independent: a failed
// generation leaves the profile row in place.
func (h *ProfileHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	profile, err := h.profileStore.Create(
		req.SessionID, req.Strengths, req.MBTI, req.Enneagram, req.HollandCode,
		req.Values, req.CurrentHobbies, req.FutureHobbies, req.Skills,
	)
	if err != nil {
		h.logger.Error("create profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save profile"})
		return
	}

	fields, err := h.aiClient.GenerateArchetype(r.Context(), profile)
	if err != nil {
		h.logger.Error("generate archetype", "session_id", req.SessionID, "error", err)
		if errors.Is(err, ai.ErrUpstream) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to generate archetype"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate archetype"})
		return
	}

	archetype, err := h.archetypeStore.Create(
		req.SessionID, fields.ArchetypeName, fields.Description, fields.WorkStyle,
		fields.IdealEnvironments, fields.StrengthsInterpretation, fields.Stressors,
		fields.Motivators, fields.Tags,
	)
	if err != nil {
		h.logger.Error("save archetype", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save archetype"})
		return
	}

	if _, err := h.progressStore.GetOrInit(req.SessionID); err != nil {
		h.logger.Error("init progress", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to initialize progress"})
		return
	}

	h.broadcast(req.SessionID, websocket.NewMessage("archetype", "created", archetype.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{
		"archetype":  archetype,
		"profile_id": profile.ID,
	})
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	profile, err := h.profileStore.GetLatest(sessionID)
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get profile"})
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

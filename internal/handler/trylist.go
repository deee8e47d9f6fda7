package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/trailhead-app/trailhead/internal/ai"
	"github.com/trailhead-app/trailhead/internal/model"
	"github.com/trailhead-app/trailhead/internal/store"
	"github.com/trailhead-app/trailhead/internal/websocket"
)

const (
	defaultDuration  = "1-2 hours"
	defaultItemXP    = 10
	hobbyTitle       = "Explore hobby activity"
	hobbyDescription = "Learn more about this hobby"
)

type TryListHandler struct {
	itemStore   *store.TryListStore
	careerStore *store.CareerStore
	aiClient    *ai.Client
	hub         *websocket.Hub
	logger      *slog.Logger
	now         func() time.Time
}

func NewTryListHandler(ts *store.TryListStore, cs *store.CareerStore, aiClient *ai.Client, hub *websocket.Hub, logger *slog.Logger) *TryListHandler {
	return &TryListHandler{
		itemStore:   ts,
		careerStore: cs,
		aiClient:    aiClient,
		hub:         hub,
		logger:      logger,
		now:         time.Now,
	}
}

func (h *TryListHandler) broadcast(sessionID string, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(sessionID, msg)
	}
}

type addItemRequest struct {
	SessionID   string `json:"session_id"`
	SourceID    *int64 `json:"source_id"`
	ItemType    string `json:"item_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// Add creates try-list items. For career sources it expands the career into
// 3-5 AI-generated micro-experiments, inserting each independently (a
// mid-list failure leaves earlier rows committed). Hobby and custom items
// are a single insert with placeholder defaults. There is no duplicate
// detection; repeated calls create independent rows.
func (h *TryListHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	switch req.ItemType {
	case model.ItemTypeCareer:
		h.addFromCareer(w, r, req)
	case model.ItemTypeHobby, model.ItemTypeCustom, "":
		h.addSingle(w, req)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_type"})
	}
}

func (h *TryListHandler) addFromCareer(w http.ResponseWriter, r *http.Request, req addItemRequest) {
	if req.SourceID == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "source_id is required for career items"})
		return
	}

	career, err := h.careerStore.GetByID(req.SessionID, *req.SourceID)
	if err != nil {
		h.logger.Error("get career match", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get career"})
		return
	}
	if career == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "career not found"})
		return
	}

	generated, err := h.aiClient.GenerateTryListItems(r.Context(), career)
	if err != nil {
		h.logger.Error("generate try-list items", "career_id", career.ID, "error", err)
		if errors.Is(err, ai.ErrUpstream) {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to generate try list items"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate try list items"})
		return
	}

	var saved []model.TryListItem
	for _, g := range generated {
		item, err := h.itemStore.Create(
			req.SessionID, g.Title, g.Description, model.ItemTypeCareer,
			g.Duration, g.XPValue, req.SourceID,
		)
		if err != nil {
			h.logger.Error("save try-list item", "title", g.Title, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save try list items"})
			return
		}
		saved = append(saved, *item)
	}

	// Announce only after every insert landed, so a mid-list failure is not
	// already visible in other tabs while the caller sees a 500.
	h.broadcast(req.SessionID, websocket.NewMessage("try_list_items", "generated", 0, map[string]any{"count": len(saved)}))

	writeJSON(w, http.StatusCreated, map[string]any{"items": saved})
}

func (h *TryListHandler) addSingle(w http.ResponseWriter, req addItemRequest) {
	itemType := req.ItemType
	if itemType == "" {
		itemType = model.ItemTypeCustom
	}

	title := strings.TrimSpace(req.Title)
	description := req.Description
	if itemType == model.ItemTypeHobby {
		if title == "" {
			title = hobbyTitle
		}
		if description == "" {
			description = hobbyDescription
		}
	}
	if title == "" {
		title = "Explore new activity"
	}

	duration := req.Duration
	if duration == "" {
		duration = defaultDuration
	}

	item, err := h.itemStore.Create(req.SessionID, title, description, itemType, duration, defaultItemXP, req.SourceID)
	if err != nil {
		h.logger.Error("create try-list item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add to try list"})
		return
	}

	h.broadcast(req.SessionID, websocket.NewMessage("try_list_item", "created", item.ID, nil))

	writeJSON(w, http.StatusCreated, map[string]any{"items": []model.TryListItem{*item}})
}

func (h *TryListHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	items, err := h.itemStore.List(sessionID)
	if err != nil {
		h.logger.Error("list try-list items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list try list items"})
		return
	}
	if items == nil {
		items = []model.TryListItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type completionRequest struct {
	SessionID   string `json:"session_id"`
	IsCompleted bool   `json:"is_completed"`
}

// SetCompletion moves an item to the desired completion state. The request
// carries the desired state, not a flip command, so a retried request is
// harmless: repeating the same desired state changes nothing.
func (h *TryListHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	item, prog, xpGained, err := h.itemStore.SetCompletion(req.SessionID, id, req.IsCompleted, h.now())
	if err != nil {
		h.logger.Error("set completion", "item_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	action := "uncompleted"
	if req.IsCompleted {
		action = "completed"
	}
	h.broadcast(req.SessionID, websocket.NewMessage("try_list_item", action, item.ID, map[string]any{"xp_gained": xpGained}))
	h.broadcast(req.SessionID, websocket.NewMessage("progress", "updated", 0, nil))

	writeJSON(w, http.StatusOK, map[string]any{
		"item":      item,
		"progress":  prog,
		"xp_gained": xpGained,
	})
}

package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/trailhead-app/trailhead/internal/ai"
	"github.com/trailhead-app/trailhead/internal/handler"
	"github.com/trailhead-app/trailhead/internal/middleware"
	"github.com/trailhead-app/trailhead/internal/store"
	ws "github.com/trailhead-app/trailhead/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	sessionH    *handler.SessionHandler
	profileH    *handler.ProfileHandler
	careerH     *handler.CareerHandler
	tryListH    *handler.TryListHandler
	progressH   *handler.ProgressHandler
	dashboardH  *handler.DashboardHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, aiClient *ai.Client, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	profileStore := store.NewProfileStore(db)
	archetypeStore := store.NewArchetypeStore(db)
	careerStore := store.NewCareerStore(db)
	tryListStore := store.NewTryListStore(db)
	progressStore := store.NewProgressStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		sessionH:    handler.NewSessionHandler(logger.With("component", "session")),
		profileH:    handler.NewProfileHandler(profileStore, archetypeStore, progressStore, aiClient, hub, logger.With("component", "profile")),
		careerH:     handler.NewCareerHandler(careerStore, profileStore, archetypeStore, aiClient, hub, logger.With("component", "career")),
		tryListH:    handler.NewTryListHandler(tryListStore, careerStore, aiClient, hub, logger.With("component", "try_list")),
		progressH:   handler.NewProgressHandler(progressStore, hub, logger.With("component", "progress")),
		dashboardH:  handler.NewDashboardHandler(archetypeStore, progressStore, tryListStore, logger.With("component", "dashboard")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("POST /api/sessions", s.sessionH.Create)

	// Generation endpoints call the external model, so they carry the
	// tightest limits.
	mux.HandleFunc("POST /api/profiles", s.generationLimited(s.profileH.Generate))
	mux.HandleFunc("POST /api/careers/generate", s.generationLimited(s.careerH.Generate))
	mux.HandleFunc("POST /api/try-list", s.generationLimited(s.tryListH.Add))

	mux.HandleFunc("GET /api/profiles", s.profileH.Get)
	mux.HandleFunc("GET /api/careers", s.careerH.List)
	mux.HandleFunc("GET /api/try-list", s.tryListH.List)
	mux.HandleFunc("POST /api/try-list/{id}/complete", s.tryListH.SetCompletion)
	mux.HandleFunc("GET /api/progress", s.progressH.Get)
	mux.HandleFunc("POST /api/progress/reconcile", s.progressH.Reconcile)
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Get)

	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) generationLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"

	"sportftv-backend/internal/handlers"
	"sportftv-backend/internal/metrics"
	"sportftv-backend/internal/middleware"
	"sportftv-backend/internal/websocket"
)

// Deps is everything the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWT          *middleware.JWTAuth
	Sessions     middleware.SessionLookup
	AuthLimiter  *middleware.RateLimiter
	AdminKeyHash string
	FrontendURL  string
	// RequestTimeout bounds store-backed reads. Zero disables it.
	RequestTimeout time.Duration
	// MediaDir, when set, is served under /media/ for local storage.
	MediaDir string

	Auth   *handlers.AuthHandler
	Browse *handlers.BrowseHandler
	Videos *handlers.VideoHandler
	Admin  *handlers.AdminHandler
	Events *handlers.EventsHandler
	Health *handlers.HealthHandler
	Hub    *websocket.Hub
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(d.Logger, d.Metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.FrontendURL))

	requireSession := d.JWT.Middleware(d.Sessions)
	requireAdmin := middleware.AdminKey(d.AdminKeyHash)
	bounded := func(next http.Handler) http.Handler { return next }
	if d.RequestTimeout > 0 {
		bounded = middleware.Deadline(d.RequestTimeout)
	}

	r.Get("/healthz", d.Health.Check)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Sport FTV API", "/openapi.json", "/docs"))

	if d.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(d.MediaDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(d.AuthLimiter.Middleware)
			r.Post("/login", d.Auth.Login)
			r.Post("/demo", d.Auth.Demo)

			r.Group(func(r chi.Router) {
				r.Use(requireSession)
				r.Post("/logout", d.Auth.Logout)
				r.Get("/me", d.Auth.Me)
			})
		})

		// ──── Selection Chain ────
		r.Route("/browse", func(r chi.Router) {
			r.Use(requireSession, bounded)
			r.Get("/arenas", d.Browse.Arenas)
			r.Get("/dates", d.Browse.Dates)
			r.Get("/quadras", d.Browse.Quadras)
			r.Get("/hours", d.Browse.Hours)
			r.Get("/videos", d.Browse.Videos)
		})

		// ──── Video Routes ────
		r.Route("/videos", func(r chi.Router) {
			r.Use(requireSession, bounded)
			r.Get("/", d.Videos.List)
			r.Get("/recent", d.Videos.Recent)
			r.Get("/{id}", d.Videos.Get)
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/videos", d.Admin.CreateVideo)
			r.Post("/arenas", d.Admin.CreateArena)
			r.Post("/quadras", d.Admin.CreateQuadra)
			r.Post("/uploads", d.Events.Upload)
			r.Get("/jobs/{id}", d.Events.JobStatus)
		})

		// ──── Storage Trigger ────
		r.With(requireAdmin).Post("/events/storage", d.Events.StorageEvent)

		// ──── WebSocket ────
		r.Get("/ws", d.Hub.HandleWebSocket)
	})

	return r
}

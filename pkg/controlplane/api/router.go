package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apimw "github.com/marmos91/wgps/pkg/controlplane/api/middleware"
	"github.com/marmos91/wgps/internal/logger"
	"github.com/marmos91/wgps/pkg/controlplane/api/auth"
	"github.com/marmos91/wgps/pkg/controlplane/api/handlers"
	"github.com/marmos91/wgps/pkg/controlplane/store"
)

// NewRouter creates and configures the chi router with all middleware and
// routes.
//
// Routes:
//   - GET  /health                 - liveness probe
//   - POST /api/v1/auth/login      - operator authentication
//   - POST /api/v1/auth/refresh    - token refresh
//   - /api/v1/peers/*              - peer registry (authenticated)
//   - /api/v1/peers/{id}/areas/*   - authorised-area registry (authenticated)
func NewRouter(jwtService *auth.JWTService, cpStore *store.GORMStore, operator OperatorConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	healthHandler := handlers.NewHealthHandler(cpStore)
	r.Get("/health", healthHandler.Liveness)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	authHandler := handlers.NewAuthHandler(jwtService, operator.Username, operator.PasswordHash)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(apimw.JWTAuth(jwtService))

			peerHandler := handlers.NewPeerHandler(cpStore)
			r.Route("/peers", func(r chi.Router) {
				r.Post("/", peerHandler.Create)
				r.Get("/", peerHandler.List)
				r.Delete("/{id}", peerHandler.Delete)

				areaHandler := handlers.NewAreaHandler(cpStore)
				r.Route("/{id}/areas", func(r chi.Router) {
					r.Post("/", areaHandler.Create)
					r.Get("/", areaHandler.List)
					r.Delete("/{areaID}", areaHandler.Delete)
				})
			})
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)

		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if r.URL.Path == "/health" {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/emojihub/emojihub/internal/auth"
	"github.com/emojihub/emojihub/internal/emojis"
	"github.com/emojihub/emojihub/internal/observability"
	"github.com/emojihub/emojihub/internal/permissions"
	"github.com/emojihub/emojihub/internal/shared"
	"github.com/emojihub/emojihub/internal/users"
	"github.com/emojihub/emojihub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthHandler        *auth.Handler
	AuthMiddleware     auth.Middleware
	Guard              permissions.Guard
	UsersHandler       *users.Handler
	PermissionsHandler *permissions.Handler
	EmojisHandler      *emojis.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything except /auth, /healthz
// and /metrics sits behind identity resolution; permission guards are
// attached inside each handler's MountRoutes.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireUser)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		r.Route("/emojis", params.EmojisHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/health", params.JobHandler.Health)
			r.With(params.AuthMiddleware.RequireUser, params.Guard.Require(shared.PermEmojiCreate)).
				Post("/recount", params.JobHandler.Recount)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

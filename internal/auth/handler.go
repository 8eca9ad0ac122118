package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/emojihub/emojihub/internal/permissions"
	"github.com/emojihub/emojihub/internal/platform/httpx"
	"github.com/emojihub/emojihub/internal/shared"
	"github.com/emojihub/emojihub/internal/users"
)

// Handler manages authentication endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guard    permissions.Guard
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard permissions.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validate: validator.New()}
}

// MountRoutes registers authentication routes. Login gets a tighter
// per-IP rate limit than the global one.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	r.Post("/me", h.me)
	r.Group(func(r chi.Router) {
		r.Use(Middleware{Service: h.service, Logger: h.logger}.RequireUser)
		r.Use(h.guard.Require(shared.PermUserCreate))
		r.Post("/register", h.register)
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	pair, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	raw := r.Header.Get(HeaderRefreshToken)
	if raw == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "refresh token required")
		return
	}
	access, err := h.service.Refresh(r.Context(), raw)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, accessTokenResponse{AccessToken: access})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	raw := r.Header.Get(HeaderAccessToken)
	if raw == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "access token required")
		return
	}
	user, err := h.service.CurrentUser(r.Context(), raw)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, users.ToResponse(user))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := shared.IdentityFromContext(r.Context())
	created, err := h.service.Register(r.Context(), actor.ID, users.CreateParams{
		Name:     req.Name,
		Surname:  req.Surname,
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, users.ToResponse(created))
}

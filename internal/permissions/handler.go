package permissions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/emojihub/emojihub/internal/platform/httpx"
	"github.com/emojihub/emojihub/internal/shared"
)

// Handler manages permission catalog and grant endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guard    Guard
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validate: validator.New()}
}

// MountRoutes registers permission routes. Every mutating route demands the
// full management set; holding a single management permission is not enough
// to change grants.
func (h *Handler) MountRoutes(r chi.Router) {
	manage := h.guard.Require(
		shared.PermPermissionCreate,
		shared.PermPermissionAssign,
		shared.PermPermissionRevoke,
	)
	r.With(manage).Post("/", h.create)
	r.With(h.guard.Require(shared.PermPermissionRead)).Get("/", h.list)
	r.With(manage).Post("/user/{userID}/assign", h.assign)
	r.With(manage).Delete("/user/{userID}/revoke", h.revoke)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := shared.IdentityFromContext(r.Context())
	created, err := h.service.Create(r.Context(), actor.ID, req.Name, req.Description)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list permissions failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	h.mutateGrant(w, r, h.service.Assign)
}

func (h *Handler) revoke(w http.ResponseWriter, r *http.Request) {
	h.mutateGrant(w, r, h.service.Revoke)
}

func (h *Handler) mutateGrant(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, actorID, userID int64, name string) error) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "user id must be a positive integer")
		return
	}
	var req grantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor := shared.IdentityFromContext(r.Context())
	if err := apply(r.Context(), actor.ID, userID, req.Name); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

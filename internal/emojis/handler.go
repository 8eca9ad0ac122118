package emojis

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/emojihub/emojihub/internal/permissions"
	"github.com/emojihub/emojihub/internal/platform/httpx"
	"github.com/emojihub/emojihub/internal/shared"
)

// Handler manages emoji catalog endpoints.
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

// MountRoutes registers emoji routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require(shared.PermEmojiCreate)).Post("/", h.create)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermEmojiRead))
		r.Get("/", h.find)
		r.Get("/{emojiID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(shared.PermEmojiFavorite))
		r.Post("/{emojiID}/favorite", h.favorite)
		r.Delete("/{emojiID}/favorite", h.unfavorite)
	})
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
	created, err := h.service.Create(r.Context(), actor.ID, req.Name, req.Character)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(created))
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	actor := shared.IdentityFromContext(r.Context())

	list, err := h.service.Find(r.Context(), FindFilter{
		Name:          q.Get("name"),
		FavoritesOnly: q.Get("favorites_only") == "true",
		ViewerID:      actor.ID,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		h.logger.Error("find emojis failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	actor := shared.IdentityFromContext(r.Context())
	emoji, err := h.service.GetByID(r.Context(), actor.ID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(emoji))
}

func (h *Handler) favorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	actor := shared.IdentityFromContext(r.Context())
	if err := h.service.Favorite(r.Context(), actor.ID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) unfavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	actor := shared.IdentityFromContext(r.Context())
	if err := h.service.Unfavorite(r.Context(), actor.ID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "emojiID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "emoji id must be a positive integer")
		return 0, false
	}
	return id, true
}

package auth

import (
	"log/slog"
	"net/http"

	"github.com/emojihub/emojihub/internal/platform/httpx"
	"github.com/emojihub/emojihub/internal/shared"
)

// Header names the clients send tokens in.
const (
	HeaderAccessToken  = "access_token"
	HeaderRefreshToken = "token"
)

// Middleware resolves the caller's identity from the access token header
// and stores it in the request context for guards and handlers downstream.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireUser rejects requests without a valid access token.
func (m Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderAccessToken)
		if raw == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "access token required")
			return
		}
		user, err := m.Service.CurrentUser(r.Context(), raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Debug("identity resolution failed", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		identity := user.Identity()
		next.ServeHTTP(w, r.WithContext(shared.ContextWithIdentity(r.Context(), &identity)))
	})
}

package permissions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/emojihub/emojihub/internal/platform/httpx"
	"github.com/emojihub/emojihub/internal/shared"
)

// Checker resolves the permission names granted to a user.
type Checker interface {
	PermissionsOf(ctx context.Context, userID int64) ([]string, error)
}

// Guard wires permission checks into HTTP handlers. It runs after identity
// resolution and reads the authenticated identity from the request context.
type Guard struct {
	Service Checker
	Logger  *slog.Logger
}

// Require ensures the current user holds every listed permission. An empty
// list admits any authenticated request without touching the store.
func (g Guard) Require(perms ...string) func(http.Handler) http.Handler {
	required := normalizePermissions(perms)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			identity := shared.IdentityFromContext(r.Context())
			if identity == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			granted, err := g.Service.PermissionsOf(r.Context(), identity.ID)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Error("permission lookup failed", slog.Int64("user_id", identity.ID), slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if hasAllPermissions(granted, required) {
				next.ServeHTTP(w, r)
				return
			}
			httpx.RespondError(w, fmt.Errorf("%w: required permissions: %s",
				shared.ErrPermissionDenied, strings.Join(required, ", ")))
		})
	}
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	sort.Strings(normalized)
	return normalized
}

func hasAllPermissions(granted, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[strings.ToLower(p)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/iam-service/internal"
)

// RBACAuthorization builds route guards on top of the authority markers
// carried by the principal. Guards decide from the token alone.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &RBACAuthorization{logger: logger}
}

// RequireRole allows the request through when the principal holds the
// ROLE_<name> marker.
func (ra *RBACAuthorization) RequireRole(name string) func(http.Handler) http.Handler {
	return ra.require(func(p *internal.Principal) bool {
		return p.HasRole(name)
	}, "role", name)
}

// RequirePermission allows the request through when the principal holds the
// permission marker verbatim.
func (ra *RBACAuthorization) RequirePermission(name string) func(http.Handler) http.Handler {
	return ra.require(func(p *internal.Principal) bool {
		return p.HasPermission(name)
	}, "permission", name)
}

func (ra *RBACAuthorization) require(allowed func(*internal.Principal) bool, kind, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				ra.logger.Warn("authorization check failed: principal not in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !allowed(principal) {
				ra.logger.WarnContext(r.Context(), "access denied",
					"user_id", principal.UserID,
					"required_"+kind, name,
					"authorities", principal.Authorities)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

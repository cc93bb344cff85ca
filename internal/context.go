package internal

import (
	"context"
	"strings"
	"time"
)

// RoleMarkerPrefix distinguishes role authorities from permission
// authorities so a guard can require either without ambiguity.
const RoleMarkerPrefix = "ROLE_"

// Principal is the authenticated caller reconstructed from a verified
// access token. It carries everything a guard needs; nothing here comes
// from the store.
type Principal struct {
	UserID      string
	Email       string
	Authorities []string
}

func (p *Principal) HasAuthority(marker string) bool {
	for _, a := range p.Authorities {
		if a == marker {
			return true
		}
	}
	return false
}

func (p *Principal) HasRole(name string) bool {
	return p.HasAuthority(RoleMarkerPrefix + name)
}

func (p *Principal) HasPermission(name string) bool {
	if strings.HasPrefix(name, RoleMarkerPrefix) {
		return false
	}
	return p.HasAuthority(name)
}

type ctxKey string

const contextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(contextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

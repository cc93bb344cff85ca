package auth

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Domain entities used by the auth service. These are detached from the
// gorm datamodel so the token issuer and views never see persistence
// concerns.

type Department struct {
	ID   string
	Name string
}

type Permission struct {
	ID          string
	Name        string
	Description string
}

type Role struct {
	ID          string
	Name        string
	Description string
	Permissions []Permission
}

type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Department   *Department
	CustomClaims json.RawMessage
	Roles        []Role
}

// Well-known roles that the bootstrap step provisions. Registration and the
// admin guards depend on these existing.
const (
	DefaultRoleName = "USER"
	AdminRoleName   = "ADMIN"
)

// RoleNames returns the user's role names sorted lexicographically.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// PermissionNames flattens every role's permission set into a sorted,
// de-duplicated union. Presence in any assigned role is sufficient; there is
// no precedence between roles.
func (u *User) PermissionNames() []string {
	seen := make(map[string]struct{})
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			seen[p.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PasswordHasher is the pluggable credential verifier. Verify reports a
// boolean only so a mismatch is indistinguishable from a malformed digest.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// IssuedToken is the result of minting a token in one signing domain.
// TokenID is set only for refresh tokens.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	TokenID   string
}

// TokenIssuer mints and verifies tokens for the two signing domains.
type TokenIssuer interface {
	IssueAccessToken(user *User) (IssuedToken, error)
	IssueRefreshToken(user *User) (IssuedToken, error)
	ParseAccessToken(token string) (jwt.MapClaims, error)
	ParseRefreshToken(token string) (jwt.MapClaims, error)
}

// AuthTokens is the sign-in response pair.
type AuthTokens struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

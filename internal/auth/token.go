package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/frahmantamala/iam-service/internal"
)

// SigningDomain describes one independent token domain: its purpose, its
// own secret and its own lifetime. Access and refresh are separate domains
// so a token minted for one can never verify under the other.
type SigningDomain struct {
	Purpose string
	Secret  []byte
	TTL     time.Duration
}

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

// JWTTokenIssuer mints HS256 tokens. All claim construction goes through a
// single builder parameterized by the signing domain; adding a new domain
// (e.g. password-reset) means adding a descriptor, not a branch.
type JWTTokenIssuer struct {
	issuer  string
	access  SigningDomain
	refresh SigningDomain
	now     func() time.Time
}

func NewJWTTokenIssuer(issuer string, access, refresh SigningDomain) *JWTTokenIssuer {
	return &JWTTokenIssuer{
		issuer:  issuer,
		access:  access,
		refresh: refresh,
		now:     time.Now,
	}
}

// NewSigningDomains builds the two domains from config.
func NewSigningDomains(cfg internal.JWTConfig) (access, refresh SigningDomain) {
	access = SigningDomain{Purpose: PurposeAccess, Secret: []byte(cfg.AccessSecret), TTL: cfg.AccessTTL()}
	refresh = SigningDomain{Purpose: PurposeRefresh, Secret: []byte(cfg.RefreshSecret), TTL: cfg.RefreshTTL()}
	return access, refresh
}

// WithClock overrides the issuance clock; tests pin it for exact expiries.
func (j *JWTTokenIssuer) WithClock(now func() time.Time) *JWTTokenIssuer {
	j.now = now
	return j
}

// IssueAccessToken embeds the full authorization context: sorted role names
// and the flattened permission union, so verifiers never need a store
// lookup.
func (j *JWTTokenIssuer) IssueAccessToken(user *User) (IssuedToken, error) {
	extra := jwt.MapClaims{
		"email":       user.Email,
		"roles":       user.RoleNames(),
		"permissions": user.PermissionNames(),
	}

	if user.Department != nil {
		extra["department_id"] = user.Department.ID
		extra["department_name"] = user.Department.Name
	}

	if len(user.CustomClaims) > 0 {
		var custom any
		if err := json.Unmarshal(user.CustomClaims, &custom); err != nil {
			return IssuedToken{}, fmt.Errorf("decode custom claims: %w", err)
		}
		extra["custom"] = custom
	}

	return j.issue(j.access, user, extra)
}

// IssueRefreshToken carries identity only. No role or permission claims: a
// refresh token must not be usable for authorization.
func (j *JWTTokenIssuer) IssueRefreshToken(user *User) (IssuedToken, error) {
	tokenID := uuid.NewString()

	extra := jwt.MapClaims{
		"email": user.Email,
		"jti":   tokenID,
	}

	issued, err := j.issue(j.refresh, user, extra)
	if err != nil {
		return IssuedToken{}, err
	}
	issued.TokenID = tokenID
	return issued, nil
}

func (j *JWTTokenIssuer) issue(domain SigningDomain, user *User, extra jwt.MapClaims) (IssuedToken, error) {
	now := j.now()
	expiresAt := now.Add(domain.TTL)

	claims := jwt.MapClaims{
		"iss": j.issuer,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiresAt),
		"sub": user.ID,
	}
	for k, v := range extra {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(domain.Secret)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign %s token: %w", domain.Purpose, err)
	}

	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

func (j *JWTTokenIssuer) ParseAccessToken(token string) (jwt.MapClaims, error) {
	return j.parse(j.access, token)
}

func (j *JWTTokenIssuer) ParseRefreshToken(token string) (jwt.MapClaims, error) {
	return j.parse(j.refresh, token)
}

func (j *JWTTokenIssuer) parse(domain SigningDomain, tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return domain.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}
	return claims, nil
}

// HashToken is the one-way digest stored in the refresh token ledger; the
// serialized token itself is never persisted.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

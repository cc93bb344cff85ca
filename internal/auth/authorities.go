package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/iam-service/internal"
)

// DeriveAuthorities turns a verified token's claims into the in-process
// authority markers used by endpoint guards. Roles are prefixed with
// ROLE_ and permissions pass through verbatim. The transform is pure: it
// never touches the store, which is why issuance must aggregate the full
// role and permission sets.
func DeriveAuthorities(claims jwt.MapClaims) []string {
	var authorities []string

	for _, role := range claimStrings(claims, "roles") {
		authorities = append(authorities, internal.RoleMarkerPrefix+role)
	}

	authorities = append(authorities, claimStrings(claims, "permissions")...)

	return authorities
}

// PrincipalFromClaims builds the request principal from a verified access
// token. An absent roles or permissions claim yields no authorities, not an
// error.
func PrincipalFromClaims(claims jwt.MapClaims) *internal.Principal {
	p := &internal.Principal{
		Authorities: DeriveAuthorities(claims),
	}
	if sub, ok := claims["sub"].(string); ok {
		p.UserID = sub
	}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	return p
}

func claimStrings(claims jwt.MapClaims, key string) []string {
	raw, ok := claims[key]
	if !ok {
		return nil
	}

	values, ok := raw.([]any)
	if !ok {
		// Tokens issued in-process carry []string before serialization.
		if strs, ok := raw.([]string); ok {
			return strs
		}
		return nil
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

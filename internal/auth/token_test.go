package auth

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenIssuer", func() {
	var (
		issuer *JWTTokenIssuer
		user   *User
		now    time.Time
	)

	ginkgo.BeforeEach(func() {
		now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
		issuer = newTestIssuer().WithClock(func() time.Time { return now })
		user = &User{
			ID:    "user-1",
			Email: "alice@example.com",
			Roles: []Role{
				{
					Name: "USER",
					Permissions: []Permission{
						{Name: "dept:read"},
					},
				},
				{
					Name: "MANAGER",
					Permissions: []Permission{
						{Name: "dept:read"},
						{Name: "dept:write"},
						{Name: "report:approve"},
					},
				},
			},
		}
	})

	ginkgo.Describe("IssueAccessToken", func() {
		ginkgo.It("embeds sorted roles and the de-duplicated permission union", func() {
			issued, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := issuer.ParseAccessToken(issued.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(claims["sub"]).To(gomega.Equal("user-1"))
			gomega.Expect(claims["email"]).To(gomega.Equal("alice@example.com"))
			gomega.Expect(claims["iss"]).To(gomega.Equal("iam-service"))
			gomega.Expect(claimStrings(claims, "roles")).To(gomega.Equal([]string{"MANAGER", "USER"}))
			// dept:read is granted by both roles but appears exactly once.
			gomega.Expect(claimStrings(claims, "permissions")).To(gomega.Equal(
				[]string{"dept:read", "dept:write", "report:approve"},
			))
		})

		ginkgo.It("expires exactly one access TTL after issuance", func() {
			issued, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(issued.ExpiresAt).To(gomega.BeTemporally("==", now.Add(15*time.Minute)))

			claims, err := issuer.ParseAccessToken(issued.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			exp, err := claims.GetExpirationTime()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(exp.Time).To(gomega.BeTemporally("==", now.Add(15*time.Minute)))
		})

		ginkgo.It("carries the department when the user has one", func() {
			user.Department = &Department{ID: "dept-7", Name: "Engineering"}

			issued, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := issuer.ParseAccessToken(issued.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims["department_id"]).To(gomega.Equal("dept-7"))
			gomega.Expect(claims["department_name"]).To(gomega.Equal("Engineering"))
		})

		ginkgo.It("passes the custom claims document through", func() {
			user.CustomClaims = json.RawMessage(`{"tenant":"acme","tier":3}`)

			issued, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := issuer.ParseAccessToken(issued.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			custom, ok := claims["custom"].(map[string]any)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(custom["tenant"]).To(gomega.Equal("acme"))
			gomega.Expect(custom["tier"]).To(gomega.BeNumerically("==", 3))
		})

		ginkgo.It("rejects a malformed custom claims document", func() {
			user.CustomClaims = json.RawMessage(`{not-json`)

			_, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects an expired token", func() {
			issued, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			now = now.Add(16 * time.Minute)
			_, err = issuer.ParseAccessToken(issued.Token)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("IssueRefreshToken", func() {
		ginkgo.It("carries identity and a jti but no authorization claims", func() {
			issued, err := issuer.IssueRefreshToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(issued.TokenID).ToNot(gomega.BeEmpty())
			gomega.Expect(issued.ExpiresAt).To(gomega.BeTemporally("==", now.Add(7*24*time.Hour)))

			claims, err := issuer.ParseRefreshToken(issued.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims["jti"]).To(gomega.Equal(issued.TokenID))
			gomega.Expect(claims["email"]).To(gomega.Equal("alice@example.com"))
			gomega.Expect(claims).ToNot(gomega.HaveKey("roles"))
			gomega.Expect(claims).ToNot(gomega.HaveKey("permissions"))
		})

		ginkgo.It("mints a distinct jti per issuance", func() {
			first, err := issuer.IssueRefreshToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			second, err := issuer.IssueRefreshToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(first.TokenID).ToNot(gomega.Equal(second.TokenID))
		})
	})

	ginkgo.Describe("signing domain separation", func() {
		ginkgo.It("refuses an access token in the refresh domain and vice versa", func() {
			access, err := issuer.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			refresh, err := issuer.IssueRefreshToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = issuer.ParseRefreshToken(access.Token)
			gomega.Expect(err).To(gomega.HaveOccurred())
			_, err = issuer.ParseAccessToken(refresh.Token)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("refuses a token signed with the none algorithm", func() {
			token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
				"iss": "iam-service",
				"sub": "user-1",
				"exp": jwt.NewNumericDate(now.Add(time.Hour)),
			})
			unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = issuer.ParseAccessToken(unsigned)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("refuses a token from a different issuer", func() {
			other := NewJWTTokenIssuer("other-service",
				SigningDomain{Purpose: PurposeAccess, Secret: []byte("test-access-secret-0123456789abcdef"), TTL: 15 * time.Minute},
				SigningDomain{Purpose: PurposeRefresh, Secret: []byte("test-refresh-secret-0123456789abcdef"), TTL: time.Hour},
			)
			issued, err := other.IssueAccessToken(user)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = issuer.ParseAccessToken(issued.Token)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("HashToken", func() {
		ginkgo.It("is deterministic and never echoes the input", func() {
			digest := HashToken("some-serialized-token")
			gomega.Expect(digest).To(gomega.HaveLen(64))
			gomega.Expect(digest).To(gomega.Equal(HashToken("some-serialized-token")))
			gomega.Expect(digest).ToNot(gomega.ContainSubstring("some-serialized-token"))
			gomega.Expect(HashToken("another-token")).ToNot(gomega.Equal(digest))
		})
	})
})

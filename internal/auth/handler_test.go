package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/iam-service/internal"
)

var _ = ginkgo.Describe("HTTP surface", func() {
	var (
		service *Service
		handler *Handler
	)

	ginkgo.BeforeEach(func() {
		service = NewService(newMockRepository(), NewBcryptHasher(4), newTestIssuer(), nil)
		handler = NewHandler(service)
	})

	signUp := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign_up", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.SignUp(rec, req)
		return rec
	}

	signIn := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign_in", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handler.SignIn(rec, req)
		return rec
	}

	ginkgo.Describe("SignUp", func() {
		ginkgo.It("returns 201 with the user projection", func() {
			rec := signUp(`{"email":"alice@example.com","password":"password123","full_name":"Alice"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusCreated))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"email":"alice@example.com"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"roles":["USER"]`))
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("password"))
		})

		ginkgo.It("returns 409 with the taxonomy code for a duplicate email", func() {
			gomega.Expect(signUp(`{"email":"bob@example.com","password":"password123"}`).Code).To(gomega.Equal(http.StatusCreated))

			rec := signUp(`{"email":"bob@example.com","password":"password123"}`)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("EMAIL_ALREADY_REGISTERED"))
		})

		ginkgo.It("returns 400 for a malformed body", func() {
			gomega.Expect(signUp(`{not-json`).Code).To(gomega.Equal(http.StatusBadRequest))
		})

		ginkgo.It("returns 400 for a short password", func() {
			gomega.Expect(signUp(`{"email":"carol@example.com","password":"short"}`).Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("SignIn", func() {
		ginkgo.BeforeEach(func() {
			gomega.Expect(signUp(`{"email":"alice@example.com","password":"password123"}`).Code).To(gomega.Equal(http.StatusCreated))
		})

		ginkgo.It("returns the token pair", func() {
			rec := signIn(`{"email":"alice@example.com","password":"password123"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"token_type":"Bearer"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"access_token"`))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"refresh_token"`))
		})

		ginkgo.It("returns the same 401 body for wrong password and unknown email", func() {
			wrongPassword := signIn(`{"email":"alice@example.com","password":"nope-nope"}`)
			unknownEmail := signIn(`{"email":"ghost@example.com","password":"password123"}`)

			gomega.Expect(wrongPassword.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(unknownEmail.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(wrongPassword.Body.String()).To(gomega.Equal(unknownEmail.Body.String()))
		})
	})

	ginkgo.Describe("AuthMiddleware and guards", func() {
		var accessToken string

		newProtected := func(guard ...func(http.Handler) http.Handler) http.Handler {
			var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				principal, ok := internal.PrincipalFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				w.Write([]byte(principal.Email))
			})
			for i := len(guard) - 1; i >= 0; i-- {
				h = guard[i](h)
			}
			return handler.AuthMiddleware(h)
		}

		ginkgo.BeforeEach(func() {
			gomega.Expect(signUp(`{"email":"alice@example.com","password":"password123"}`).Code).To(gomega.Equal(http.StatusCreated))

			tokens, err := service.SignIn(SignInDTO{Email: "alice@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			accessToken = tokens.AccessToken
		})

		ginkgo.It("rejects a request without a bearer token", func() {
			rec := httptest.NewRecorder()
			newProtected().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("rejects a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer not-a-jwt")
			rec := httptest.NewRecorder()
			newProtected().ServeHTTP(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("places the principal in context for a valid token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			req.Header.Set("Authorization", "Bearer "+accessToken)
			rec := httptest.NewRecorder()
			newProtected().ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.Equal("alice@example.com"))
		})

		ginkgo.It("lets a role guard pass for a held role and deny an unheld one", func() {
			rbac := NewRBACAuthorization(nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil)
			req.Header.Set("Authorization", "Bearer "+accessToken)

			rec := httptest.NewRecorder()
			newProtected(rbac.RequireRole(DefaultRoleName)).ServeHTTP(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			rec = httptest.NewRecorder()
			newProtected(rbac.RequireRole(AdminRoleName)).ServeHTTP(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("denies a permission guard when the marker is absent", func() {
			rbac := NewRBACAuthorization(nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil)
			req.Header.Set("Authorization", "Bearer "+accessToken)

			rec := httptest.NewRecorder()
			newProtected(rbac.RequirePermission("role:write")).ServeHTTP(rec, req)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("returns 401 when a guard runs without the middleware", func() {
			rbac := NewRBACAuthorization(nil)
			guarded := rbac.RequireRole(DefaultRoleName)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})

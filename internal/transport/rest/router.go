package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/iam-service/internal/auth"
	"github.com/frahmantamala/iam-service/internal/department"
	"github.com/frahmantamala/iam-service/internal/permission"
	"github.com/frahmantamala/iam-service/internal/role"
	"github.com/frahmantamala/iam-service/internal/transport/middleware"
	"github.com/frahmantamala/iam-service/internal/transport/swagger"
	"github.com/frahmantamala/iam-service/internal/user"
)

type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Role       *role.Handler
	Permission *permission.Handler
	Department *department.Handler
}

// RegisterAllRoutes wires the public auth endpoints, the token-guarded
// administration endpoints and the operational routes. Admin endpoints are
// guarded by the ROLE_ADMIN authority carried in the access token; no
// per-request store lookup is involved.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/sign_up", h.Auth.SignUp)
			sr.Post("/sign_in", h.Auth.SignIn)
		})

		// Everything below requires a verified access token.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.User.GetCurrentUser)

			pr.Get("/departments", h.Department.ListDepartments)

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireRole(auth.AdminRoleName))

				ar.Get("/roles", h.Role.ListRoles)
				ar.Post("/roles", h.Role.CreateRole)

				ar.Get("/permissions", h.Permission.ListPermissions)
				ar.Post("/permissions", h.Permission.CreatePermission)

				ar.Post("/departments", h.Department.CreateDepartment)
			})
		})
	})
}

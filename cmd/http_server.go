package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/iam-service/internal"
	"github.com/frahmantamala/iam-service/internal/auth"
	authPostgres "github.com/frahmantamala/iam-service/internal/auth/postgres"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
	"github.com/frahmantamala/iam-service/internal/department"
	departmentPostgres "github.com/frahmantamala/iam-service/internal/department/postgres"
	"github.com/frahmantamala/iam-service/internal/permission"
	permissionPostgres "github.com/frahmantamala/iam-service/internal/permission/postgres"
	"github.com/frahmantamala/iam-service/internal/role"
	rolePostgres "github.com/frahmantamala/iam-service/internal/role/postgres"
	"github.com/frahmantamala/iam-service/internal/transport/rest"
	"github.com/frahmantamala/iam-service/internal/user"
	"github.com/frahmantamala/iam-service/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	// The authentication flow depends on the seed roles existing; refuse
	// to serve if provisioning never ran.
	if err := verifySeedRoles(deps.Gorm); err != nil {
		fmt.Fprintf(os.Stderr, "Startup invariant failed: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	authRepo := authPostgres.NewRepository(deps.Gorm)

	hasher := auth.NewBcryptHasher(deps.Config.JWT.BCryptCost)
	accessDomain, refreshDomain := auth.NewSigningDomains(deps.Config.JWT)
	issuer := auth.NewJWTTokenIssuer(deps.Config.JWT.Issuer, accessDomain, refreshDomain)

	authService := auth.NewService(authRepo, hasher, issuer, deps.Logger)
	userService := user.NewService(authRepo)
	roleService := role.NewService(rolePostgres.NewRepository(deps.Gorm))
	permissionService := permission.NewService(permissionPostgres.NewRepository(deps.Gorm))
	departmentService := department.NewService(departmentPostgres.NewRepository(deps.Gorm))

	handlers := rest.Handlers{
		Auth:       auth.NewHandler(authService),
		User:       user.NewHandler(userService),
		Role:       role.NewHandler(roleService),
		Permission: permission.NewHandler(permissionService),
		Department: department.NewHandler(departmentService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, deps.Config.Server.AllowedOrigins, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithLevel(config.Observability.Logging.Format, config.Observability.Logging.Level)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.LoggerWrapper(),
		DB:     db,
		Gorm:   gdb,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx-backed connection pool shared by the health check
// and the ORM.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the existing pool. TranslateError is
// required so unique-constraint violations surface as
// gorm.ErrDuplicatedKey across drivers.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

func verifySeedRoles(gdb *gorm.DB) error {
	for _, name := range []string{auth.DefaultRoleName, auth.AdminRoleName} {
		var count int64
		if err := gdb.Model(&iamDatamodel.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("check seed role %s: %w", name, err)
		}
		if count == 0 {
			return fmt.Errorf("%s: seed role %s is missing, run 'iam-service bootstrap' first", internal.ErrCodeSeedDataMissing, name)
		}
	}
	return nil
}

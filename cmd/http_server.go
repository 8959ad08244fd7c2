package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillz-hq/skillz/internal"
	"github.com/skillz-hq/skillz/internal/audit"
	auditPostgres "github.com/skillz-hq/skillz/internal/audit/postgres"
	"github.com/skillz-hq/skillz/internal/auth"
	authPostgres "github.com/skillz-hq/skillz/internal/auth/postgres"
	"github.com/skillz-hq/skillz/internal/catalog"
	catalogPostgres "github.com/skillz-hq/skillz/internal/catalog/postgres"
	"github.com/skillz-hq/skillz/internal/skills"
	skillsPostgres "github.com/skillz-hq/skillz/internal/skills/postgres"
	"github.com/skillz-hq/skillz/internal/transport/rest"
	"github.com/skillz-hq/skillz/internal/user"
	userPostgres "github.com/skillz-hq/skillz/internal/user/postgres"
	"github.com/skillz-hq/skillz/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *gorm.DB
	SQLDB  *sql.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

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
		if err := deps.SQLDB.Close(); err != nil {
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

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	log := logger.L()

	gormDB, sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	auditRepo := auditPostgres.NewAuditRepository(gormDB)

	authRepo := authPostgres.NewAuthRepository(gormDB, auditRepo)
	userRepo := userPostgres.NewUserRepository(gormDB, auditRepo)
	catalogRepo := catalogPostgres.NewCatalogRepository(gormDB, auditRepo)
	skillsRepo := skillsPostgres.NewUserSkillRepository(gormDB, auditRepo)

	authService := auth.NewService(authRepo, log, config.Security.BCryptCost)
	catalogService := catalog.NewService(catalogRepo, log)
	skillsService := skills.NewService(skillsRepo, catalogService, log)
	userService := user.NewService(userRepo, authService, log)

	sessions := auth.NewSessionManager(config.Security.SessionSecret, config.Security.SessionTTL)
	gate := auth.NewGate(sessions)

	authHandler := auth.NewHandler(authService, sessions)
	userHandler := user.NewHandler(userService)
	catalogHandler := catalog.NewHandler(catalogService)
	skillsHandler := skills.NewHandler(skillsService)
	auditHandler := audit.NewHandler(auditRepo)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, gate, authHandler, userHandler, catalogHandler, skillsHandler, auditHandler, log)

	return &Dependencies{
		Config: config,
		Logger: log,
		DB:     gormDB,
		SQLDB:  sqlDB,
		Router: router,
	}, nil
}

// initDB opens the configured database. Postgres goes through the pgx
// stdlib driver so the pool settings apply to the same handle gorm uses;
// sqlite is for local development.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sql.DB, error) {
	switch cfg.Driver {
	case "postgres":
		conn, err := sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
		}

		conn.SetMaxIdleConns(cfg.MaxIdleConns)
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), &gorm.Config{})
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
		}
		return gormDB, conn.DB, nil

	case "sqlite":
		gormDB, err := gorm.Open(sqlite.Open(cfg.Source), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return gormDB, sqlDB, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/parleyhq/parley/internal/api/handlers"
	"github.com/parleyhq/parley/internal/cache"
	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/database"
	"github.com/parleyhq/parley/internal/jobs"
	"github.com/parleyhq/parley/internal/openai"
	"github.com/parleyhq/parley/internal/repository"
	"github.com/parleyhq/parley/internal/server"
	"github.com/parleyhq/parley/internal/service"
	"github.com/parleyhq/parley/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the parley API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Duration("warm-interval", 5*time.Minute, "Interval between popularity cache refreshes")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	advisorRepo := repository.NewAdvisorRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)

	popularCache, err := cache.NewPopularCacheFromURL(cfg.RedisURL, cfg.PopularCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to create popularity cache: %w", err)
	}
	defer popularCache.Close()
	if cfg.HasRedis() {
		if err := popularCache.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		log.Println("connected to redis")
	}

	discoverySvc := service.NewDiscoveryService(advisorRepo, selectionRepo, popularCache)

	var popularityWarmer *jobs.PopularityWarmer
	if cfg.HasRedis() {
		warmInterval, _ := cmd.Flags().GetDuration("warm-interval")
		popularityWarmer = jobs.NewPopularityWarmer(discoverySvc, warmInterval, 0)
		go popularityWarmer.Start(ctx)
		log.Println("popularity warmer started")
	}

	var chatClient service.ChatClient
	if cfg.HasOpenAI() {
		chatClient = openai.NewChatAdapter(cfg.OpenAIAPIKey, cfg.ChatModel)
		log.Println("persona chat enabled")
	}
	chatSvc := service.NewChatService(advisorRepo, chatClient)

	router := server.NewRouter(server.RouterConfig{
		AdvisorHandler: handlers.NewAdvisorHandler(discoverySvc),
		ChatHandler:    handlers.NewChatHandler(chatSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if popularityWarmer != nil {
		popularityWarmer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else {
		log.Printf("migrations: database at version %d", version)
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lifeline/lifeline/internal/config"
	"github.com/lifeline/lifeline/internal/domain/donor"
	"github.com/lifeline/lifeline/internal/domain/forecast"
	"github.com/lifeline/lifeline/internal/domain/fraud"
	"github.com/lifeline/lifeline/internal/domain/hospital"
	"github.com/lifeline/lifeline/internal/domain/inventory"
	"github.com/lifeline/lifeline/internal/domain/matching"
	"github.com/lifeline/lifeline/internal/domain/organ"
	"github.com/lifeline/lifeline/internal/domain/request"
	"github.com/lifeline/lifeline/internal/platform/auth"
	"github.com/lifeline/lifeline/internal/platform/db"
	"github.com/lifeline/lifeline/internal/platform/middleware"
	"github.com/lifeline/lifeline/internal/platform/notification"
	"github.com/lifeline/lifeline/internal/platform/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifeline-server",
		Short: "Lifeline donor matching and inventory API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	// Audit middleware
	e.Use(middleware.Audit(logger))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// WebSocket hub for real-time events
	hub := ws.NewHub(logger)
	wsHandler := ws.NewHandler(hub)
	wsHandler.RegisterRoutes(apiV1)

	// -- Register domain handlers --

	// Hospitals
	hospitalRepo := hospital.NewRepoPG(pool)
	hospitalSvc := hospital.NewService(hospitalRepo)
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)

	// Donors
	donorRepo := donor.NewRepoPG(pool)
	donorSvc := donor.NewService(donorRepo, hub)
	donor.NewHandler(donorSvc).RegisterRoutes(apiV1)

	// Requests
	requestRepo := request.NewRepoPG(pool)
	requestSvc := request.NewService(requestRepo, hub)
	request.NewHandler(requestSvc).RegisterRoutes(apiV1)

	// Organs
	organRepo := organ.NewRepoPG(pool)
	organSvc := organ.NewService(organRepo, hub)
	organ.NewHandler(organSvc).RegisterRoutes(apiV1)

	// Matching
	matchSvc := matching.NewService(requestRepo, donorRepo, organRepo)
	matching.NewHandler(matchSvc).RegisterRoutes(apiV1)

	// Demand forecasting
	forecastSvc := forecast.NewService(forecast.NewRepoPG(pool))
	forecast.NewHandler(forecastSvc).RegisterRoutes(apiV1)

	// Inventory and transfer planning
	inventoryRepo := inventory.NewRepoPG(pool)
	inventorySvc := inventory.NewService(inventoryRepo, hub)
	inventory.NewHandler(inventorySvc).RegisterRoutes(apiV1)

	// Fraud detection
	fraudRepo := fraud.NewRepoPG(pool)
	fraudSvc := fraud.NewService(fraudRepo, logger)
	fraud.NewHandler(fraudSvc).RegisterRoutes(apiV1)

	// Notifications
	tplEngine := notification.NewTemplateEngine()
	notifyMgr := notification.NewManager(
		&notification.LogEmailSender{Log: logger},
		&notification.LogSMSSender{Log: logger},
		tplEngine,
	)
	notification.NewHandler(notifyMgr).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/riskboard/riskboard/internal/config"
	"github.com/riskboard/riskboard/internal/domain/analytics"
	"github.com/riskboard/riskboard/internal/domain/coordination"
	"github.com/riskboard/riskboard/internal/domain/hospital"
	"github.com/riskboard/riskboard/internal/domain/ingest"
	"github.com/riskboard/riskboard/internal/domain/patient"
	"github.com/riskboard/riskboard/internal/domain/prediction"
	"github.com/riskboard/riskboard/internal/domain/risk"
	"github.com/riskboard/riskboard/internal/platform/auth"
	"github.com/riskboard/riskboard/internal/platform/db"
	"github.com/riskboard/riskboard/internal/platform/middleware"
	"github.com/riskboard/riskboard/internal/platform/simulated"
	"github.com/riskboard/riskboard/internal/platform/ws"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "riskboard-server",
		Short: "Hospital readmission-risk dashboard API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(hospitalCmd())
	rootCmd.AddCommand(importCmd())

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

			count, err := db.NewMigrator(pool, dir).Up(ctx)
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

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
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

func hospitalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hospital",
		Short: "Manage the hospital catalog",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a hospital",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			location, _ := cmd.Flags().GetString("location")
			if name == "" {
				return fmt.Errorf("--name is required")
			}

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

			svc := hospital.NewService(hospital.NewRepoPG(pool))
			h := &hospital.Hospital{Name: name, Location: location}
			if err := svc.CreateHospital(ctx, h); err != nil {
				return err
			}
			fmt.Printf("Created hospital %s (%s)\n", h.Name, h.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Hospital name")
	createCmd.Flags().String("location", "", "Hospital location")
	cmd.AddCommand(createCmd)

	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a patient CSV for a hospital",
		RunE: func(cmd *cobra.Command, args []string) error {
			hospitalFlag, _ := cmd.Flags().GetString("hospital")
			file, _ := cmd.Flags().GetString("file")
			if hospitalFlag == "" || file == "" {
				return fmt.Errorf("--hospital and --file are required")
			}
			hid, err := uuid.Parse(hospitalFlag)
			if err != nil {
				return fmt.Errorf("invalid hospital id: %w", err)
			}

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

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			hospitalSvc := hospital.NewService(hospital.NewRepoPG(pool))
			ingestSvc := ingest.NewService(patient.NewRepoPG(pool), hospitalSvc,
				nil, nil, cfg.UploadMaxBytes, cfg.UploadChunkSize)

			report, err := ingestSvc.Upload(ctx, hid, file, "text/csv", info.Size(), f)
			if report != nil {
				fmt.Printf("Uploaded %d/%d rows (%d malformed rows skipped)\n",
					report.Uploaded, report.Total, report.Skipped)
			}
			return err
		},
	}
	cmd.Flags().String("hospital", "", "Hospital id")
	cmd.Flags().String("file", "", "Path to the CSV file")
	return cmd
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthHandler reports liveness plus the database's reachability, so a
// degraded instance gets rotated out instead of serving empty dashboards.
func healthHandler(dbConn pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		body := map[string]string{
			"status":   "ok",
			"database": "ok",
			"version":  "0.1.0",
		}
		if err := dbConn.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = "unreachable"
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, body)
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Summary cache. The dashboard still works without redis, every load
	// just recomputes.
	var summaryCache analytics.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid redis url")
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, summary caching disabled")
		} else {
			summaryCache = analytics.NewRedisCache(redisClient)
			defer redisClient.Close()
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Liveness endpoint for load balancers; stays outside the authenticated
	// API group.
	e.GET("/health", healthHandler(pool))

	// Shared platform pieces.
	hub := ws.NewHub()
	src := simulated.NewSource()

	// Repositories.
	hospitalRepo := hospital.NewRepoPG(pool)
	patientRepo := patient.NewRepoPG(pool)
	taskRepo := coordination.NewTaskRepoPG(pool)
	teamRepo := coordination.NewTeamRepoPG(pool)

	// Services.
	hospitalSvc := hospital.NewService(hospitalRepo)
	patientSvc := patient.NewService(patientRepo)
	riskSvc := risk.NewService(patientSvc, src)
	analyticsSvc := analytics.NewService(patientSvc, src, summaryCache, cfg.DashboardCacheTTL())
	coordinationSvc := coordination.NewService(taskRepo, teamRepo, patientSvc, src, hub)
	ingestSvc := ingest.NewService(patientRepo, hospitalSvc, analyticsSvc, hub,
		cfg.UploadMaxBytes, cfg.UploadChunkSize)

	var scorer prediction.Scorer
	if cfg.PredictionURL != "" {
		scorer = prediction.NewClient(cfg.PredictionURL, cfg.PredictionTimeout())
	}
	predictionSvc := prediction.NewService(scorer, patientRepo, analyticsSvc, hub, src)

	// Routes. Everything under /api/v1 requires a caller identity.
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}
	hospital.NewHandler(hospitalSvc).RegisterRoutes(apiV1)
	risk.NewHandler(riskSvc).RegisterRoutes(apiV1)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(apiV1)
	coordination.NewHandler(coordinationSvc).RegisterRoutes(apiV1)
	ingest.NewHandler(ingestSvc).RegisterRoutes(apiV1)
	prediction.NewHandler(predictionSvc).RegisterRoutes(apiV1)
	ws.NewHandler(hub).RegisterRoutes(apiV1)

	// Graceful shutdown.
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

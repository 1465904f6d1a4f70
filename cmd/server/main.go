package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"housing/internal/config"
	"housing/internal/handler"
	"housing/internal/metrics"
	"housing/internal/repository"
	"housing/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := config.NewLogger(cfg.Logging)
	log.Info("house price predictor starting",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	// Load model artifacts. Any failure here stops the process before
	// the listener starts.
	meta, err := service.LoadMetadata(cfg.Model.MetadataPath)
	if err != nil {
		log.Error("failed to load model metadata", "path", cfg.Model.MetadataPath, "error", err)
		os.Exit(1)
	}

	engine, err := service.LoadInferenceEngine(cfg.Model.ModelPath)
	if err != nil {
		log.Error("failed to load model", "path", cfg.Model.ModelPath, "error", err)
		os.Exit(1)
	}

	guard, err := service.NewSanityGuard(cfg.Guard.Multiplier, cfg.Guard.Fields)
	if err != nil {
		log.Error("invalid guard configuration", "error", err)
		os.Exit(1)
	}

	predictor, err := service.NewPredictionService(meta, engine, guard)
	if err != nil {
		log.Error("model and metadata disagree", "error", err)
		os.Exit(1)
	}

	log.Info("model loaded",
		"model", engine.Describe(),
		"features", len(meta.Features),
		"metadata_version", meta.Version,
		"target_transform", meta.TargetTransform,
		"currency", meta.Currency,
	)

	// Persistence is optional
	var (
		repo   *repository.PostgresRepository
		store  handler.PredictionStore
		pinger handler.Pinger
	)
	if cfg.PersistenceEnabled() {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
		pinger = repo
		log.Info("connected to PostgreSQL, predictions will be persisted")
	} else {
		log.Warn("DATABASE_URL not set, predictions will not be persisted")
	}

	m := metrics.New()
	predictHandler := handler.NewPredictHandler(predictor, store, m)

	// Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", handler.Health(meta.Version, pinger))

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
			"model":      engine.Describe(),
		})
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/predict", predictHandler.Predict)
		apiV1.POST("/predict/", predictHandler.Predict)
		apiV1.GET("/predictions/:id", predictHandler.GetPrediction)
		apiV1.GET("/predictions/:id/similar", predictHandler.Similar)
	}

	setupStaticFiles(router, cfg.Server.StaticDir, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bidround/auction-system/cache"
	"github.com/bidround/auction-system/config"
	"github.com/bidround/auction-system/db"
	"github.com/bidround/auction-system/handlers"
	"github.com/bidround/auction-system/live"
	"github.com/bidround/auction-system/metrics"
	"github.com/bidround/auction-system/repositories"
	api "github.com/bidround/auction-system/routes"
	"github.com/bidround/auction-system/services"
	"github.com/bidround/auction-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// The state cache is optional; without REDIS_ADDR every state read hits
	// the database.
	var stateCache *cache.StateCache
	if cfg.RedisAddr != "" {
		stateCache, err = cache.NewStateCache(cfg.RedisAddr)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer stateCache.Close()
		logger.Info("state cache connected", slog.String("addr", cfg.RedisAddr))
	}

	// Logo uploads are optional too; leave them off unless R2 is configured.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()

	tracker := metrics.NewTracker()

	auctionRepo := repositories.NewPostgresAuctionRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	bidRepo := repositories.NewPostgresBidRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	auctionService := services.NewAuctionService(auctionRepo, resultRepo, roundRepo, bidRepo, teamRepo, stateCache, wsHub, tracker, logger)
	bidService := services.NewBidService(auctionRepo, roundRepo, bidRepo, teamRepo, membershipRepo, wsHub, logger)
	teamService := services.NewTeamService(teamRepo, auctionRepo, uploader)
	permissionService := services.NewPermissionService(auctionRepo, membershipRepo)
	clubService := services.NewClubService(clubRepo)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	auctionHandler := handlers.NewAuctionHandler(auctionService)
	bidHandler := handlers.NewBidHandler(bidService)
	teamHandler := handlers.NewTeamHandler(teamService)
	joinHandler := handlers.NewJoinHandler(permissionService)
	clubHandler := handlers.NewClubHandler(clubService)
	metricsHandler := handlers.NewMetricsHandler(tracker)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, auctionService, logger)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		tracker,
		authHandler,
		auctionHandler,
		bidHandler,
		teamHandler,
		joinHandler,
		clubHandler,
		metricsHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server shutdown complete")
}

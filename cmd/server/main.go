package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kinship/internal/ai"
	"kinship/internal/config"
	"kinship/internal/database"
	"kinship/internal/docstore"
	"kinship/internal/graph"
	"kinship/internal/handlers"
	"kinship/internal/logging"
	"kinship/internal/repository"
	"kinship/internal/retry"
	"kinship/internal/security"
	"kinship/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup := handlers.NewStartupStatus()

	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	startup.CompleteStep(handlers.StepDatabase)
	logger.Info("database connection established", zap.String("type", cfg.DatabaseType))

	startup.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(ctx, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	startup.CompleteStep(handlers.StepMigrations)

	startup.SetCurrentStep(handlers.StepServices)
	store := docstore.NewSQLStore(db)
	trees := repository.NewTreeRepository(store)
	familyData := repository.NewFamilyDataRepository(store)
	profiles := repository.NewProfileRepository(store)
	connections := repository.NewConnectionRepository(store)

	gateway, err := newGateway(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var mirror service.TreeMirror
	if cfg.Neo4jURI != "" {
		neo, err := graph.NewNeo4jMirror(cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword, cfg.Neo4jDatabase)
		if err != nil {
			// The graph is a projection; the service runs without it
			logger.Warn("neo4j mirror disabled", zap.Error(err))
		} else {
			defer neo.Close(context.Background())
			mirror = neo
			logger.Info("neo4j mirror enabled", zap.String("uri", cfg.Neo4jURI))
		}
	}

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	var notifier service.ConnectionNotifier
	if emailService.IsEnabled() {
		notifier = emailService
	}

	treeService := service.NewTreeService(trees, mirror, logger)
	familyService := service.NewFamilyService(familyData, trees, treeService, logger)
	dnaService := service.NewDNAService(profiles, trees, gateway, cfg.AIMaxComparisons, logger)
	assistantService := service.NewAssistantService(gateway, profiles, trees, familyData, logger)
	profileService := service.NewProfileService(profiles, logger)
	connectionService := service.NewConnectionService(connections, profiles, notifier, logger)
	backupService := service.NewBackupService(store, logger)

	limiter := security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	go limiter.Run(ctx, time.Hour)

	middleware := handlers.NewMiddleware(cfg.JWTSecret, limiter, logger)
	routes := &handlers.Handlers{
		Middleware:  middleware,
		Health:      handlers.NewHealthHandler(startup, db, logger),
		Tree:        handlers.NewTreeHandler(treeService, logger),
		Family:      handlers.NewFamilyHandler(familyService, middleware, logger),
		DNA:         handlers.NewDNAHandler(dnaService, cfg.UploadMaxSize, logger),
		Assistant:   handlers.NewAssistantHandler(assistantService, middleware, logger),
		Profile:     handlers.NewProfileHandler(profileService, logger),
		Connections: handlers.NewConnectionHandler(connectionService, middleware, logger),
		Admin:       handlers.NewAdminHandler(backupService, cfg.UploadMaxSize, logger),
	}
	startup.CompleteStep(handlers.StepServices)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(logger, routes.Routes()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // DNA analysis waits on three model calls
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	startup.MarkReady()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newGateway builds the AI gateway. Without an API key every model call
// fails fast and the endpoints answer with their failure messages.
func newGateway(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ai.Gateway, error) {
	var gen ai.Generator
	var model string
	if cfg.GeminiAPIKey != "" {
		g, err := ai.NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize model client: %w", err)
		}
		gen = g
		model = g.Model()
	}

	policy := retry.Default()
	policy.MaxAttempts = cfg.AIMaxAttempts
	policy.BaseDelay = cfg.AIBaseDelay

	aiLog := logger.Named("ai")
	gateway := ai.NewGateway(gen, ai.Options{
		Policy:         policy,
		MaxInputChars:  cfg.AIMaxInputChars,
		MaxComparisons: cfg.AIMaxComparisons,
		Logger:         logger,
		Observer: func(t ai.Transition) {
			msg := "flow transition"
			if t.State.Terminal() {
				msg = "flow finished"
			}
			aiLog.Debug(msg,
				zap.String("flow", t.Flow),
				zap.Stringer("state", t.State),
				zap.Int("attempt", t.Attempt),
				zap.Error(t.Err))
		},
	})

	if gateway.Configured() {
		logger.Info("model client ready", zap.String("model", model))
	} else {
		logger.Warn("GEMINI_API_KEY not configured: AI features will be unavailable")
	}
	return gateway, nil
}

package main

import (
	"context"
	"time"

	"kwallo/internal/account"
	"kwallo/internal/calendar"
	"kwallo/internal/chat"
	"kwallo/internal/composer"
	kwalloconfig "kwallo/internal/config"
	"kwallo/internal/content"
	"kwallo/internal/extract"
	"kwallo/internal/generator"
	"kwallo/internal/knowledge"
	"kwallo/internal/notes"
	"kwallo/internal/profile"
	"kwallo/pkg/auth"
	"kwallo/pkg/config"
	"kwallo/pkg/database"
	"kwallo/pkg/llm"
	"kwallo/pkg/logging"
	"kwallo/pkg/monitoring"
	"kwallo/pkg/server"
	"kwallo/pkg/version"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("kwallo")

	// Load environment variables
	config.LoadEnv(logger)

	build := version.GetInfo()
	logger.WithFields(logging.Fields{
		"version":    build.Version,
		"git_commit": version.ShortCommit(),
		"build_date": build.BuildDate,
	}).Info("Starting KWALLO (AI Marketing Content API)")

	cfg := kwalloconfig.LoadConfig()

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = cfg.DatabaseURL
	db := database.MustConnect(dbConfig, logger)
	defer func() { _ = db.Close() }()

	if err := database.ApplySchema(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to apply database schema")
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("kwallo", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("kwallo", version.Version, version.GitCommit)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"JWT_SECRET":   string(cfg.JWTSecret),
	}))

	// LLM provider. Keep the base service (health/metrics, CRUD) running
	// when generation is unconfigured.
	llmProvider, err := llm.NewProvider(context.Background(), cfg.LLM)
	if err != nil {
		logger.WithError(err).Warn("Failed to initialize LLM provider - generation and chat disabled")
		llmProvider = nil
	}

	usageTracker := account.NewUsageTracker(account.UsageTrackerConfig{
		DB:            db,
		Logger:        logger,
		Provider:      providerName(llmProvider),
		FlushInterval: time.Minute,
	})
	usageTracker.Start()
	defer usageTracker.Stop()

	// Stores
	accountStore := account.NewStore(db)
	profileStore := profile.NewStore(db)
	knowledgeStore := knowledge.NewStore(db)
	calendarStore := calendar.NewStore(db)
	contentStore := content.NewStore(db)
	chatStore := chat.NewStore(db)
	notesStore := notes.NewStore(db)

	generatorService := &generator.Service{
		Composer:  composer.New(nil),
		Profiles:  profileStore,
		Knowledge: knowledgeStore,
		Calendar:  calendarStore,
		Content:   contentStore,
		Accounts:  accountStore,
		Provider:  llmProvider,
		Usage:     usageTracker,
		Logger:    logger,
	}

	// Setup router with unified monitoring (health/metrics only)
	router := server.SetupServiceRouter(logger, "kwallo", healthChecker, metricsCollector)

	apiGroup := router.Group("/api/kwallo")
	apiGroup.Use(auth.JWTAuthMiddleware(cfg.JWTSecret))
	account.RegisterRoutes(apiGroup, account.NewHandler(accountStore, logger))
	profile.RegisterRoutes(apiGroup, profile.NewHandler(profileStore, accountStore, logger))
	calendar.RegisterRoutes(apiGroup, calendar.NewHandler(calendarStore, logger))
	content.RegisterRoutes(apiGroup, content.NewHandler(contentStore, logger))
	notes.RegisterRoutes(apiGroup, notes.NewHandler(notesStore, logger))
	extract.RegisterRoutes(apiGroup, extract.NewHandler(logger))
	generator.RegisterRoutes(apiGroup, generator.NewHandler(generatorService, logger))
	chat.RegisterRoutes(apiGroup, chat.NewHandler(
		chatStore, profileStore, knowledgeStore, calendarStore, accountStore, llmProvider, usageTracker, logger))

	adminGroup := router.Group("/api/kwallo/admin")
	adminGroup.Use(auth.JWTAuthMiddleware(cfg.JWTSecret))
	adminGroup.Use(auth.RequireRole("admin"))
	knowledge.NewAdminAPI(knowledgeStore, logger).RegisterRoutes(adminGroup)

	// Start HTTP server with graceful shutdown
	serverConfig := server.DefaultConfig("kwallo", cfg.Port)
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}

func providerName(p llm.Provider) string {
	if p == nil {
		return ""
	}
	return p.Name()
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accessionapp "github.com/ams/backend/internal/application/accession"
	unitapp "github.com/ams/backend/internal/application/archivalunit"
	authorityapp "github.com/ams/backend/internal/application/authority"
	containerapp "github.com/ams/backend/internal/application/container"
	digitizationapp "github.com/ams/backend/internal/application/digitization"
	donorapp "github.com/ams/backend/internal/application/donor"
	eventapp "github.com/ams/backend/internal/application/event"
	findingaidsapp "github.com/ams/backend/internal/application/findingaids"
	"github.com/ams/backend/internal/application/indexing"
	researchapp "github.com/ams/backend/internal/application/research"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/ams/backend/internal/infrastructure/auth"
	"github.com/ams/backend/internal/infrastructure/cache"
	"github.com/ams/backend/internal/infrastructure/catalogindex"
	"github.com/ams/backend/internal/infrastructure/config"
	"github.com/ams/backend/internal/infrastructure/event"
	"github.com/ams/backend/internal/infrastructure/logger"
	"github.com/ams/backend/internal/infrastructure/persistence"
	"github.com/ams/backend/internal/infrastructure/printing"
	"github.com/ams/backend/internal/infrastructure/scheduler"
	"github.com/ams/backend/internal/infrastructure/storage"
	"github.com/ams/backend/internal/infrastructure/telemetry"
	_ "github.com/ams/backend/internal/interfaces/http/docs"
	"github.com/ams/backend/internal/interfaces/http/handler"
	"github.com/ams/backend/internal/interfaces/http/middleware"
	"github.com/ams/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// Telemetry providers come first so every later component is traced
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.Profiling.Enabled,
		ServerAddress:     cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:   cfg.Telemetry.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.Profiling.BasicAuthPassword,
		Contention:        cfg.Telemetry.Profiling.Contention,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Telemetry.Profiling.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting AMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		IncludeVars:     !cfg.IsProduction(),
		SlowQueryThresh: cfg.Telemetry.SlowQueryThreshold,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis backs the catalog index, the idempotency ledger and the token
	// blacklist. Each falls back to memory when allowed.
	var redisClient redis.UniversalClient
	if client, err := cache.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable", zap.Error(err))
	} else {
		redisClient = client
	}

	index, err := catalogindex.New(cfg.Catalog, redisClient, log)
	if err != nil {
		log.Fatal("Failed to initialize catalog index", zap.Error(err))
	}

	objects, err := storage.New(cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	donorRepo := persistence.NewGormDonorRepository(db.DB)
	accessionRepo := persistence.NewGormAccessionRepository(db.DB)
	isaarRepo := persistence.NewGormIsaarRepository(db.DB)
	unitRepo := persistence.NewGormArchivalUnitRepository(db.DB)
	containerRepo := persistence.NewGormContainerRepository(db.DB)
	findingAidsRepo := persistence.NewGormFindingAidsRepository(db.DB)
	digitalVersionRepo := persistence.NewGormDigitalVersionRepository(db.DB)
	researcherRepo := persistence.NewGormResearcherRepository(db.DB)
	requestRepo := persistence.NewGormResearchRequestRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Indexed records write their events to the outbox in the same transaction
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	outboxPublisher.SetMaxRetries(cfg.Event.MaxRetries)
	isaarRepo.SetOutboxEventSaver(outboxPublisher)
	unitRepo.SetOutboxEventSaver(outboxPublisher)
	containerRepo.SetOutboxEventSaver(outboxPublisher)
	findingAidsRepo.SetOutboxEventSaver(outboxPublisher)
	digitalVersionRepo.SetOutboxEventSaver(outboxPublisher)

	catalogMetrics, err := telemetry.NewCatalogMetrics(meterProvider.Meter("github.com/ams/backend/catalog"))
	if err != nil {
		log.Fatal("Failed to create catalog metrics", zap.Error(err))
	}

	// Catalog indexing
	builders := indexing.DefaultBuilders(indexing.Sources{
		Isaar:           isaarRepo,
		Units:           unitRepo,
		Containers:      containerRepo,
		FindingAids:     findingAidsRepo,
		DigitalVersions: digitalVersionRepo,
	})
	searchService := indexing.NewSearchService(index, cache.NewResultCache[*indexing.SearchResponse](cfg.Catalog.SearchCacheTTL))
	reindexService := indexing.NewReindexService(builders, index, cfg.Catalog.ReindexPageSize, log)
	reindexService.SetChangeHook(searchService.Invalidate)
	indexingHandler := indexing.NewIndexingHandler(builders, index, findingAidsRepo, unitRepo, log,
		indexing.WithMetrics(catalogMetrics),
		indexing.WithChangeHook(searchService.Invalidate),
	)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(redisClient,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.Event.AllowMemoryLedger),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewIdempotentHandler(indexingHandler, idempotencyStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: true, TTL: cfg.Event.IdempotencyTTL}),
	))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	log.Info("Indexing handler registered", zap.Strings("events", indexingHandler.EventTypes()))

	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, event.OutboxProcessorConfig{
		BatchSize:         cfg.Event.BatchSize,
		PollInterval:      cfg.Event.PollInterval,
		CleanupEnabled:    cfg.Event.CleanupEnabled,
		CleanupRetention:  cfg.Event.CleanupRetention,
		CleanupInterval:   cfg.Event.CleanupInterval,
		VisibilityTimeout: cfg.Event.VisibilityTimeout,
	}, log)
	outboxProcessor.SetMetrics(catalogMetrics)
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Event.BatchSize),
			zap.Duration("poll_interval", cfg.Event.PollInterval),
		)
	}

	// Nightly reconcile repairs catalog drift the event pipeline missed
	var reconcileScheduler *scheduler.Scheduler
	var reconcileTrigger *scheduler.CronTrigger
	if cfg.Catalog.ReconcileEnabled {
		triggerCfg, err := scheduler.ParseCronSchedule(cfg.Catalog.ReconcileSchedule)
		if err != nil {
			log.Fatal("Invalid catalog reconcile schedule", zap.Error(err))
		}
		schedCfg := scheduler.DefaultSchedulerConfig()
		schedCfg.JobTimeout = cfg.Catalog.ReconcileTimeout
		reconcileScheduler = scheduler.NewScheduler(schedCfg, scheduler.NewReconcileExecutor(reindexService, log), log)
		reconcileTrigger = scheduler.NewCronTrigger(triggerCfg, reconcileScheduler, log)
		if err := reconcileScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
		}
		if err := reconcileTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start reconcile trigger", zap.Error(err))
		}
	}

	// Application services
	donorService := donorapp.NewService(donorRepo, accessionRepo)
	accessionService := accessionapp.NewService(accessionRepo, donorRepo, unitRepo)
	isaarService := authorityapp.NewService(isaarRepo)
	unitService := unitapp.NewService(unitRepo, isaarRepo, containerRepo)
	containerService := containerapp.NewService(containerRepo, unitRepo, findingAidsRepo, digitalVersionRepo)
	findingAidsService := findingaidsapp.NewService(findingAidsRepo, containerRepo)

	// Box lists render through headless Chrome; without it the endpoint answers PRINTING_DISABLED
	var boxRenderer containerapp.BoxListRenderer
	var chrome *printing.ChromedpRenderer
	if cfg.Printing.Enabled {
		chrome = printing.NewChromedpRenderer(printing.ChromedpConfig{
			RemoteURL: cfg.Printing.RemoteURL,
			NoSandbox: cfg.Printing.NoSandbox,
			PaperSize: printing.PaperSize(cfg.Printing.PaperSize),
			Timeout:   cfg.Printing.Timeout,
			Logger:    log,
		})
		boxRenderer = chrome
	}
	boxListService := containerapp.NewBoxListService(containerRepo, unitRepo, findingAidsRepo, boxRenderer)
	digitizationService := digitizationapp.NewService(digitalVersionRepo, containerRepo, findingAidsRepo, objects, log)
	researcherService := researchapp.NewResearcherService(researcherRepo, requestRepo, log)
	requestService := researchapp.NewRequestService(requestRepo, researcherRepo, containerRepo, log)
	queueService := eventapp.NewQueueService(outboxRepo, log)

	handlers := router.Handlers{
		Donor:           handler.NewDonorHandler(donorService),
		Accession:       handler.NewAccessionHandler(accessionService),
		Isaar:           handler.NewIsaarHandler(isaarService),
		ArchivalUnit:    handler.NewArchivalUnitHandler(unitService),
		Container:       handler.NewContainerHandler(containerService, boxListService),
		FindingAids:     handler.NewFindingAidsHandler(findingAidsService, findingaidsapp.NewImportService(findingAidsRepo, containerRepo, log)),
		DigitalVersion:  handler.NewDigitalVersionHandler(digitizationService),
		Researcher:      handler.NewResearcherHandler(researcherService),
		ResearchRequest: handler.NewResearchRequestHandler(requestService),
		Catalog:         handler.NewCatalogHandler(searchService, reindexService),
		Outbox:          handler.NewOutboxHandler(queueService),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order matters: the request logger attaches the base logger
	// that RequestID then enriches, and the span must exist before metrics
	// and the error marker run.
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meterProvider.Meter("github.com/ams/backend/http")))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Version, healthChecks)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/info", systemHandler.GetSystemInfo)

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		})),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:       jwtService,
		TokenBlacklist:   blacklist,
		SkipPathPrefixes: router.PublicPathPrefixes(r.BasePath()),
		Logger:           log,
	}))
	r.Use(middleware.TracingAttributeInjector())
	router.RegisterArchive(r, handlers, middleware.RoleConfig{Logger: log})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	// HTTP first so no new outbox rows arrive, then the processor, then the bus
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if reconcileTrigger != nil {
		if err := reconcileTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping reconcile trigger", zap.Error(err))
		}
		if err := reconcileScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping reconcile scheduler", zap.Error(err))
		}
	}
	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if chrome != nil {
		if err := chrome.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}
	if err := index.Close(); err != nil {
		log.Error("Error closing catalog index", zap.Error(err))
	}
	if err := idempotencyStore.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

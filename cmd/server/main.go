package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/lifemap/diary/api/handler"
	"github.com/lifemap/diary/internal/config"
	"github.com/lifemap/diary/internal/infrastructure/monitor"
	pgInfra "github.com/lifemap/diary/internal/infrastructure/postgres"
	redisInfra "github.com/lifemap/diary/internal/infrastructure/redis"
	"github.com/lifemap/diary/internal/middleware"
	"github.com/lifemap/diary/internal/router"
	"github.com/lifemap/diary/internal/services"
	"github.com/lifemap/diary/internal/services/lifecycle"
	"github.com/lifemap/diary/pkg/httpcontext"
	"github.com/lifemap/diary/pkg/logger"
	boltRepo "github.com/lifemap/diary/repository/bolt"
	"github.com/lifemap/diary/repository/postgres"
	redisRepo "github.com/lifemap/diary/repository/redis"
	authUC "github.com/lifemap/diary/usecase/auth"
	draftUC "github.com/lifemap/diary/usecase/draft"
	entryUC "github.com/lifemap/diary/usecase/entry"
	profileUC "github.com/lifemap/diary/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	draftStore, err := boltRepo.Open(cfg.Drafts.Path, cfg.Drafts.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open draft store", zap.Error(err))
	}
	manager.Register("draft_store", func(ctx context.Context) error {
		return draftStore.Close()
	})

	mon := monitor.New(pool, redisClient, draftStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	historyFeed := redisRepo.NewHistoryFeed(redisClient)

	janitor := services.NewDraftJanitor(draftStore, zapLogger, services.JanitorConfig{
		SweepInterval: cfg.Drafts.SweepInterval,
		Retention:     cfg.Drafts.Retention,
	})
	janitor.Start()
	manager.Register("draft_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	entryUseCase := entryUC.New(entryRepo, historyFeed, zapLogger)
	draftUseCase := draftUC.New(draftStore, entryUseCase, draftUC.Defaults{
		ConsecutiveDay:   cfg.Journal.InitialConsecutiveDay,
		AccumulatedCount: cfg.Journal.InitialAccumulatedCount,
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Session.TTL),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Entry:   apiHandler.NewEntryHandler(entryUseCase, ctxAdapter, zapLogger),
		Draft:   apiHandler.NewDraftHandler(draftUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

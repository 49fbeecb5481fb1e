package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/docmint-backend/internal/ai"
	"github.com/ignatzorin/docmint-backend/internal/config"
	"github.com/ignatzorin/docmint-backend/internal/db"
	"github.com/ignatzorin/docmint-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/docmint-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/docmint-backend/internal/http/router"
	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/pdf"
	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/service"
	"github.com/ignatzorin/docmint-backend/internal/storage"
	"github.com/ignatzorin/docmint-backend/internal/worker"
	"github.com/ignatzorin/docmint-backend/internal/ws"
)

// maxPDFCacheMB предел размера одного файла в кэше PDF.
const maxPDFCacheMB = 20

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logLevel := "info"
	if cfg.IsDevelopment() {
		logLevel = "debug"
	}
	logger.Init(logLevel, cfg.Env)
	log := logger.L()

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPoolOptions)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath)
	if err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}
	log.WithField("applied", len(applied)).Info("main: миграции проверены")

	pdfCache, err := storage.NewPDFCache(cfg.PDFCachePath, maxPDFCacheMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить кэш PDF: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cache := service.NewCacheService(ctx)
	hub := ws.NewHub()

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	templateRepo := repository.NewTemplateRepository(dbConn)
	checklistRepo := repository.NewChecklistRepository(dbConn)
	documentRepo := repository.NewDocumentRepository(dbConn)
	subscriptionRepo := repository.NewSubscriptionRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager, cfg.FreeSaveLimit)
	templateService := service.NewTemplateService(templateRepo, cache)
	checklistService := service.NewChecklistService(checklistRepo, cache)
	documentService := service.NewDocumentService(documentRepo, userRepo, templateService, hub, cache, cfg.FreeSaveLimit)
	pdfService := service.NewPDFService(documentRepo, userRepo, pdf.NewGenerator("DocMint"), pdfCache)
	billingService := service.NewBillingService(userRepo, subscriptionRepo, hub, cache, cfg.BillingWebhookSecret, cfg.BillingWebhookTolerance)
	analyticsService := service.NewAnalyticsService(documentRepo, userRepo, cache, cfg.FreeSaveLimit)
	analyzerService := service.NewAnalyzerService(documentRepo, userRepo, ai.NewClient(cfg.AIBaseURL, cfg.AIModel, cfg.AITimeout))

	// HTTP хэндлеры.
	engine := httpRouter.SetupRouter(
		cfg,
		tokenManager,
		httpHandlers.NewAuthHandler(authService),
		httpHandlers.NewTemplateHandler(templateService, checklistService),
		httpHandlers.NewDocumentHandler(documentService, pdfService),
		httpHandlers.NewInsightsHandler(analyticsService, analyzerService),
		httpHandlers.NewBillingHandler(billingService),
		httpHandlers.NewHealthHandler(dbConn),
		httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	retention := worker.NewRetention(documentRepo, userRepo, cfg.RetentionPeriod, cfg.RetentionInterval).
		WithPDFEvictor(pdfCache).
		WithCacheInvalidator(cache)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(goroutine.Guard(gctx, "ws hub", hub.Run))
	g.Go(goroutine.Guard(gctx, "retention worker", retention.Run))
	g.Go(goroutine.Guard(gctx, "http server", func(context.Context) error {
		log.Infof("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}))

	// Завершаем сервер при получении сигнала или падении соседней задачи.
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("main: сервер завершился с ошибкой")
		return
	}
	log.Info("main: сервер остановлен")
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.L().WithError(err).Warn("main: ошибка закрытия базы")
	}
}

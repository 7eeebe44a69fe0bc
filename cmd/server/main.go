package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/raghav2405/invoice-backend/api/handlers"
	"github.com/raghav2405/invoice-backend/api/routes"
	"github.com/raghav2405/invoice-backend/config"
	"github.com/raghav2405/invoice-backend/internal/ai"
	"github.com/raghav2405/invoice-backend/internal/bot"
	"github.com/raghav2405/invoice-backend/internal/extract"
	"github.com/raghav2405/invoice-backend/internal/invoice"
	"github.com/raghav2405/invoice-backend/internal/pipeline"
	"github.com/raghav2405/invoice-backend/internal/repository"
	"github.com/raghav2405/invoice-backend/pkg/logger"
	"github.com/raghav2405/invoice-backend/pkg/ratelimit"
	"github.com/raghav2405/invoice-backend/pkg/storage"
)

func main() {
	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appCfg := config.GetAppConfig()
	dbCfg := config.GetDBConfig()
	geminiCfg := config.GetGeminiConfig()
	telegramCfg := config.GetTelegramConfig()
	rateCfg := config.GetRateLimitConfig()
	archiveCfg := config.GetArchiveConfig()

	// init persistence
	db, err := repository.Open(dbCfg.Path, log)
	if err != nil {
		log.Fatal("Failed to open database:", logger.Error(err))
	}
	repo := repository.NewInvoiceRepository(db, log)

	// init archive backend
	archive, err := storage.NewStorage(storage.StorageType(archiveCfg.Backend), log)
	if err != nil {
		log.Fatal("Failed to init archive storage:", logger.Error(err))
	}

	// init Gemini normalizer
	normalizer, err := ai.NewGeminiNormalizer(ctx, geminiCfg.APIKey, geminiCfg.Model, log)
	if err != nil {
		log.Fatal("Failed to init Gemini client:", logger.Error(err))
	}

	processor := pipeline.NewService(
		extract.NewExtractor(log),
		repo,
		normalizer,
		archive,
		log,
		nil,
	)

	limiter := ratelimit.NewLimiter(rateCfg.MaxRequests, rateCfg.Window)
	book := invoice.NewBook()
	renderer := invoice.NewRenderer(log)

	// init handlers
	h := handlers.NewHandlers(book, renderer, processor, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h, limiter)

	srv := &http.Server{
		Addr:    net.JoinHostPort(appCfg.Host, appCfg.Port),
		Handler: r,
	}

	// start server
	go func() {
		log.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error:", logger.Error(err))
		}
	}()

	// start Telegram poller if a token is configured
	var poller *bot.Poller
	if telegramCfg.BotToken != "" {
		poller, err = bot.NewPoller(telegramCfg, processor, limiter, log)
		if err != nil {
			log.Fatal("Failed to init Telegram bot:", logger.Error(err))
		}
		if err := poller.Start(ctx); err != nil {
			log.Fatal("Failed to start Telegram poller:", logger.Error(err))
		}
	} else {
		log.Warn("TELEGRAM_BOT_TOKEN not set, bot disabled")
	}

	// wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	if poller != nil {
		poller.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown:", logger.Error(err))
	}
}

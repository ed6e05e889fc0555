// Package main runs the workshop registration HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forumdeeptech/inscriptions/config"
	"github.com/forumdeeptech/inscriptions/internal/countries"
	"github.com/forumdeeptech/inscriptions/internal/emaillogs"
	"github.com/forumdeeptech/inscriptions/internal/inscriptions"
	"github.com/forumdeeptech/inscriptions/internal/middleware"
	"github.com/forumdeeptech/inscriptions/internal/notify"
	"github.com/forumdeeptech/inscriptions/pkg/database"
	"github.com/forumdeeptech/inscriptions/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	sender := newSender(cfg.Email, logger)

	emailLogRepo := emaillogs.NewRepository(pool)
	emailLogHandler := emaillogs.NewHandler(emailLogRepo)

	inscriptionRepo := inscriptions.NewRepository(pool)
	inscriptionHandler := inscriptions.NewHandler(inscriptionRepo, sender, emailLogRepo, logger)

	countrySvc := countries.NewService(cfg.Countries.LookupURL, time.Duration(cfg.Countries.TimeoutSec)*time.Second, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	router.POST("/api/inscriptions", inscriptionHandler.Create)
	router.GET("/api/inscriptions", inscriptionHandler.List)
	router.GET("/api/emails", emailLogHandler.List)
	router.GET("/api/countries", countrySvc.Handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("variant", cfg.Form.Variant),
			zap.String("email_provider", cfg.Email.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// newSender picks the one configured notification provider. The choice is
// fixed for the lifetime of the process.
func newSender(cfg config.EmailConfig, logger *zap.Logger) notify.Sender {
	switch cfg.Provider {
	case config.ProviderEmailJS:
		return notify.NewEmailJS(cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey, cfg.EmailJSOrigin)
	case config.ProviderResend:
		return notify.NewResend(cfg.ResendAPIKey, cfg.FromName, cfg.FromAddress)
	case config.ProviderSMTP:
		return notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromName, cfg.FromAddress)
	default:
		logger.Warn("no email provider configured, confirmations disabled")
		return notify.NewDisabled(logger)
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/j-bridge/volunteerhub.com/internal/certpdf"
	"github.com/j-bridge/volunteerhub.com/internal/config"
	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/logger"
	"github.com/j-bridge/volunteerhub.com/internal/metrics"
	"github.com/j-bridge/volunteerhub.com/internal/middleware"
	"github.com/j-bridge/volunteerhub.com/internal/notify"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
	"github.com/j-bridge/volunteerhub.com/internal/router"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := pflag.String("config", "", "path to a YAML configuration file")
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	addr := pflag.String("addr", "", "listen address, overrides APP_ADDR")
	pflag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		logrus.WithError(err).Fatal("Failed to load env file")
	}

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	log := logger.New(cfg)
	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("Server stopped with error")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Run migrations
	if err := database.MigrateDatabase(db, log); err != nil {
		return err
	}

	m := metrics.New()

	var mailer notify.Mailer
	if cfg.SMTPEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	} else {
		log.Warn("SMTP_HOST not set, outgoing email is only logged")
		mailer = notify.NewLogMailer(log.WithField("component", "mailer"))
	}
	notifier, err := notify.New(mailer, notify.Options{
		From:      cfg.MailFrom,
		Workers:   cfg.MailWorkers,
		QueueSize: cfg.MailQueue,
		Logger:    log,
		Metrics:   m,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.CertificatesDir, 0o755); err != nil {
		return err
	}

	store := repository.NewStore(db)
	tm := tokens.NewManager(tokens.Options{
		Secret:      cfg.JWTSecret,
		Issuer:      cfg.JWTIssuer,
		AccessTTL:   cfg.AccessTokenTTL,
		RefreshTTL:  cfg.RefreshTokenTTL,
		DownloadTTL: cfg.DownloadTokenTTL,
		ResetTTL:    cfg.ResetTokenTTL,
	})

	svc := router.Services{
		Auth: services.NewAuthService(store, tm, notifier, services.AuthOptions{
			Metrics:  m,
			Logger:   log,
			ResetURL: strings.TrimRight(cfg.FrontendURL, "/") + "/reset-password",
		}),
		Users:         services.NewUserService(store, log),
		Organizations: services.NewOrganizationService(store, log),
		Opportunities: services.NewOpportunityService(store, log),
		Applications:  services.NewApplicationService(store, notifier, m, log),
		Certificates: services.NewCertificateService(store, tm, certpdf.NewRenderer(), notifier, services.CertificateOptions{
			OutputDir:     cfg.CertificatesDir,
			PublicBaseURL: cfg.PublicBaseURL,
			Metrics:       m,
			Logger:        log,
		}),
		Videos:  services.NewVideoService(store, log),
		Admin:   services.NewAdminService(store),
		Contact: services.NewContactService(notifier, cfg.ContactInbox, log),
	}

	engine := router.New(router.Options{
		Services:    svc,
		Tokens:      tm,
		Metrics:     m,
		Logger:      log,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
	})

	handler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})(engine)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown incomplete")
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("Pending email was not delivered")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusevents/config"
	_ "campusevents/docs"
	authadapter "campusevents/internal/adapters/auth"
	emailadapter "campusevents/internal/adapters/email"
	paymentadapter "campusevents/internal/adapters/payment"
	delivery "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

// @title Campus Events API
// @version 1.0
// @description Campus event management: catalog, registrations, and fee payments.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := postgres.Connect(cfg.DBUrl)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)

	tokens := authadapter.NewJWTManager(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(0)
	gateway := paymentadapter.NewRazorpayGateway(paymentadapter.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	})

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	}, logger)
	if err != nil {
		logger.Error("mailer init failed", "err", err)
		os.Exit(1)
	}
	emailSvc := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	authSvc := services.NewAuthService(userRepo, hasher, tokens, cfg.TokenExpiry, cfg.AdminCode)
	eventSvc := services.NewEventService(eventRepo)
	regSvc := services.NewRegistrationService(eventRepo, regRepo, gateway, emailSvc, logger)

	handler := delivery.NewRouter(delivery.RouterConfig{
		Logger:         logger,
		Verifier:       tokens,
		AllowedOrigins: cfg.AllowedOrigins,
		Auth:           controllers.NewAuthController(logger, authSvc),
		Events:         controllers.NewEventController(logger, eventSvc),
		Registrations:  controllers.NewRegistrationController(logger, regSvc),
		Payments:       controllers.NewPaymentController(logger, regSvc),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "err", err)
	}
}

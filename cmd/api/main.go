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

	"github.com/joho/godotenv"

	"github.com/xavierca1/lynkupro-api/internal/config"
	"github.com/xavierca1/lynkupro-api/internal/infra/database"
	"github.com/xavierca1/lynkupro-api/internal/infra/http/handlers"
	"github.com/xavierca1/lynkupro-api/internal/infra/http/middleware"
	"github.com/xavierca1/lynkupro-api/internal/infra/mail"
	"github.com/xavierca1/lynkupro-api/internal/infra/queue"
	"github.com/xavierca1/lynkupro-api/internal/infra/worker"
	"github.com/xavierca1/lynkupro-api/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := database.NewDBConnection(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err == nil {
		err = db.EnsureIndexes(connectCtx)
	}
	cancel()
	if err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}
	defer db.Close(context.Background())
	logger.Info("connected to MongoDB", "database", cfg.Mongo.Database)

	// 2. Repositories
	userRepo := database.NewUserRepository(db.Collection(database.CollectionUsers))
	leadRepo := database.NewLeadRepository(db.Collection(database.CollectionLeads), userRepo)

	// 3. RabbitMQ. Without a broker the API still serves; events are dropped.
	var events usecase.EventPublisher
	var broker *queue.RabbitMQ
	if cfg.RabbitMQ.URL != "" {
		broker, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer broker.Close()
		events = queue.NewProducer(broker.Ch)
		logger.Info("connected to RabbitMQ")
	} else {
		logger.Warn("RABBITMQ_URL not set, lead events disabled")
	}

	// 4. Workers
	if broker != nil {
		go worker.NewFollowUpWorker(leadRepo, events, logger, cfg.FollowUp.Interval).Start(ctx)

		if cfg.Mail.Host != "" {
			consumeCh, err := broker.Conn.Channel()
			if err != nil {
				return fmt.Errorf("failed to open consumer channel: %w", err)
			}
			defer consumeCh.Close()

			sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.AppURL)
			notifications := queue.NewWorker(consumeCh, sender, logger)
			go func() {
				if err := notifications.Start(ctx, queue.QueueName); err != nil {
					logger.Error("notification worker failed", "error", err)
				}
			}()
		} else {
			logger.Warn("MAIL_HOST not set, notification worker disabled")
		}
	}

	// 5. HTTP
	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret)
	leadHandler := handlers.NewLeadHandler(leadRepo, userRepo, events, logger)

	var brokerStatus handlers.BrokerStatus
	if broker != nil {
		brokerStatus = broker
	}
	healthHandler := handlers.NewHealthHandler(db, brokerStatus, cfg.Server.Version)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(cfg.Server.AllowedOrigins, auth, leadHandler, healthHandler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("LynkUpro API listening", "addr", srv.Addr)
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

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

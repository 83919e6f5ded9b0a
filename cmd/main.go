// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
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

	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/auth"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/config"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/database"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/festival"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/handler"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/logger"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/queue"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/repository"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/service"
	"github.com/Shivanand-hulikatti/dance-festival-registration/internal/session"
)

func main() {
	ctx := context.Background()

	// ── 1. Configuration and logging ──────────────────────────────────────
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.IsProduction())

	// ── 2. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.WithError(err).Fatal("database schema")
	}
	log.Info("connected to PostgreSQL")

	// ── 3. Sessions and messaging ─────────────────────────────────────────
	var sessions session.Store
	if rc := session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rc != nil {
		defer rc.Close()
		sessions = session.NewRedisStore(rc, "session", cfg.SessionTTL, log)
		log.WithField("addr", cfg.RedisAddr).Info("sessions stored in redis")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		log.WithField("addr", cfg.RedisAddr).Warn("redis unavailable, sessions kept in memory")
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		async := queue.NewAsyncPublisher(queue.NewAMQPPublisher(cfg.RabbitMQURL, log), 10*time.Second, log)
		defer async.Wait()
		publisher = async
	} else {
		log.Warn("RABBITMQ_URL not set, domain events are discarded")
	}

	// ── 4. Wire up layers ────────────────────────────────────────────────
	svc := service.New(service.Deps{
		Catalog:       festival.NewCatalog(),
		Sessions:      sessions,
		Registrations: repository.NewRegistrationRepository(pool),
		Contacts:      repository.NewContactRepository(pool),
		Donations:     repository.NewDonationRepository(pool),
		Publisher:     publisher,
		Logger:        log,
	})
	authn := auth.NewAuthenticator(cfg.JWTSecret, cfg.AccessTTL, cfg.AdminUser, cfg.AdminPasswordHash)
	if !authn.Enabled() {
		log.Warn("JWT_SECRET or ADMIN_PASSWORD_HASH not set, admin area disabled")
	}
	r := handler.New(svc, authn, log).Router()

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		return
	}
	log.Info("server stopped")
}

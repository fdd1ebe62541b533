package main

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/staytus-dev/staytus/db"
	"github.com/staytus-dev/staytus/internal/auth"
	"github.com/staytus-dev/staytus/internal/config"
	"github.com/staytus-dev/staytus/internal/handlers"
	"github.com/staytus-dev/staytus/internal/models"
	"github.com/staytus-dev/staytus/internal/monitor"
	"github.com/staytus-dev/staytus/internal/notifier"
	"github.com/staytus-dev/staytus/internal/probes"
	"github.com/staytus-dev/staytus/internal/router"
	"github.com/staytus-dev/staytus/internal/scheduler"
	"github.com/staytus-dev/staytus/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	if cfg.Server.Env == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := auth.InitJWTSecret(); err != nil {
		logger.WithError(err).Fatal("JWT secret not configured")
	}

	if err := db.ConnectDatabase(cfg.Database.DSN); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	if err := seedAdminUser(cfg.Bootstrap, logger); err != nil {
		logger.WithError(err).Fatal("Failed to seed admin user")
	}

	st := store.NewGormStore(db.DB)
	prober := probes.New(cfg.Monitor)
	notify := notifier.NewMattermost(cfg.Webhook, st, logger)
	runner := monitor.NewRunner(st, prober, notify, logger)
	runner.OnStatusChange(handlers.BroadcastStatusChange)
	aggregator := monitor.NewAggregator(st, logger, cfg.Monitor.RetentionDays)

	sched := scheduler.New(runner, aggregator, cfg.Monitor, logger)
	if err := sched.Start(); err != nil {
		logger.WithError(err).Fatal("Failed to start scheduler")
	}

	handlers.Configure(sched, runner, notify, logger)

	r := router.NewRouter()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Staytus listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	sched.Stop()

	if err := srv.Close(); err != nil {
		logger.WithError(err).Warn("Server close failed")
	}
}

// seedAdminUser creates the initial admin account when the users table is
// empty and ADMIN_PASSWORD is set.
func seedAdminUser(cfg config.BootstrapConfig, logger *logrus.Logger) error {
	var count int64

	if err := db.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		logger.Warn("No users exist and ADMIN_PASSWORD is not set, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
	}

	if err := db.DB.Create(&user).Error; err != nil {
		return err
	}

	logger.WithField("username", cfg.AdminUsername).Info("Seeded admin user")
	return nil
}

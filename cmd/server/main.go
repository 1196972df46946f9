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

	"domain-panel/internal/api"
	"domain-panel/internal/config"
	"domain-panel/internal/database"
	"domain-panel/internal/logger"
	"domain-panel/internal/metrics"
	"domain-panel/internal/panel"
	"domain-panel/internal/scheduler"
	"domain-panel/internal/services"
	"domain-panel/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// loadSettingsFromDB applies channel secrets saved as settings rows over
// the configuration
func loadSettingsFromDB(ctx context.Context, cfg *config.Config, settings *store.GormPreferenceStore, log logger.Logger) {
	values, err := settings.All(ctx)
	if err != nil {
		log.Warn("Failed to load settings from database", logger.Error(err))
		return
	}
	config.ApplySettings(cfg, values)
	log.Info("Settings loaded from database", logger.Int("rows", len(values)))
}

// preferenceStore selects where client preferences live
func preferenceStore(ctx context.Context, cfg *config.PreferencesConfig, db *gorm.DB, log logger.Logger) (store.PreferenceStore, func()) {
	if cfg.Store != "redis" {
		return store.NewGormPreferenceStore(db), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, storing preferences in the database",
			logger.String("address", cfg.Redis.Address),
			logger.Error(err),
		)
		_ = client.Close()
		return store.NewGormPreferenceStore(db), func() {}
	}
	log.Info("Preferences stored in Redis", logger.String("address", cfg.Redis.Address))
	return store.NewRedisPreferenceStore(client, cfg.Redis.Key), func() { _ = client.Close() }
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database", logger.Error(err))
	}
	log.Info("Database initialized", logger.String("path", cfg.Database.Path))

	settingsRows := store.NewGormPreferenceStore(db)
	loadSettingsFromDB(ctx, cfg, settingsRows, log)

	prefs, closePrefs := preferenceStore(ctx, &cfg.Preferences, db, log)
	defer closePrefs()

	// Initialize services
	m := metrics.New(prometheus.DefaultRegisterer)
	domains := store.NewDomainStore(db)
	notifyService := services.NewNotifyService(&cfg.Notifications, domains, m, log.With(logger.String("component", "notify")))
	backupService := services.NewBackupService(&cfg.Backup, config.ParseDuration(cfg.Notifications.Timeout, 30*time.Second), m)
	whoisService := services.NewWhoisService(cfg.Whois.APIURL, config.ParseDuration(cfg.Whois.Timeout, 30*time.Second))
	monitorService := services.NewMonitorService(domains, prefs, notifyService, m, log.With(logger.String("component", "monitor")))

	controller := panel.NewController(panel.NewStoreRemote(domains),
		panel.WithNotifier(notifyService),
		panel.WithSettings(domains),
		panel.WithPreferences(prefs),
		panel.WithMetrics(m),
		panel.WithLogger(log.With(logger.String("component", "panel"))),
	)
	if err := controller.Load(ctx); err != nil {
		log.Error("Initial load failed", logger.Error(err))
	}

	// Initialize scheduler
	var backupJob scheduler.BackupRunner
	if backupService.Configured() {
		backupJob = func(ctx context.Context) (string, error) {
			return backupService.BackupStored(ctx, domains)
		}
	}
	sched := scheduler.NewScheduler(monitorService, backupJob, log.With(logger.String("component", "scheduler")))
	if err := sched.Start(scheduler.Specs{
		Daily:  cfg.Reminder.DailySpec,
		Weekly: cfg.Reminder.WeeklySpec,
		Backup: cfg.Backup.Schedule,
	}); err != nil {
		log.Fatal("Failed to start scheduler", logger.Error(err))
	}
	defer sched.Stop()

	// Setup Gin
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := api.NewHandler(api.Deps{
		Store:      domains,
		Settings:   settingsRows,
		Prefs:      prefs,
		Controller: controller,
		Notify:     notifyService,
		Backup:     backupService,
		Whois:      whoisService,
		Monitor:    monitorService,
		Metrics:    m,
		Logger:     log,
	})
	r := api.NewRouter(handler, api.RouterOptions{
		Metrics:   m,
		Gatherer:  prometheus.DefaultGatherer,
		Logger:    log.With(logger.String("component", "http")),
		StaticDir: cfg.Server.StaticDir,
	})

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", logger.Error(err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FireKid846/TG-bot/internal/config"
	"github.com/FireKid846/TG-bot/internal/handler"
	"github.com/FireKid846/TG-bot/internal/health"
	"github.com/FireKid846/TG-bot/internal/middleware"
	"github.com/FireKid846/TG-bot/internal/mirror"
	"github.com/FireKid846/TG-bot/internal/repository"
	"github.com/FireKid846/TG-bot/internal/repository/file"
	"github.com/FireKid846/TG-bot/internal/repository/postgres"
	"github.com/FireKid846/TG-bot/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.IsDevelopment() {
		if logger, err = zap.NewDevelopment(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync()

	logger.Info("Starting bot",
		zap.String("storage", cfg.StorageBackend),
		zap.String("mirror", cfg.Mirror.Backend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Local storage
	local, closeStorage, err := openStorage(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open config storage", zap.Error(err))
	}
	defer closeStorage()

	// Initialize services
	opts := []service.ConfigOption{}
	remote, err := openMirror(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize config mirror", zap.Error(err))
	}
	if remote != nil {
		opts = append(opts, service.WithMirror(remote))
	}

	configService := service.NewConfigService(local, cfg.DefaultCooldown, logger, opts...)
	sessions := service.NewSessionManager(cfg.SessionDuration)
	states := service.NewStateStore()
	authService := service.NewAuthService(configService, sessions, cfg.OwnerUserID)
	statsService := service.NewStatsService(configService, logger)

	// Creates the default document on first start
	doc, err := configService.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load bot config", zap.Error(err))
	}

	logger.Info("Bot config loaded",
		zap.Bool("monitoring_active", doc.MonitoringActive),
		zap.Int("channels", len(doc.Channels)),
		zap.Int("groups", len(doc.Groups)),
	)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("user_id", c.Sender().ID))
			}
			logger.Error("Handler failed", fields...)
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Initialize handler
	h := handler.NewHandler(bot, authService, configService, statsService, states, logger)
	h.SetPrefix(doc.CommandPrefix)
	h.RegisterHandlers(middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, logger))

	logger.Info("Handlers registered", zap.String("prefix", h.Prefix()))

	// Liveness endpoint and keep-alive
	server := health.NewServer(logger)
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			logger.Error("Liveness server stopped", zap.Error(err))
		}
	}()

	pinger := health.NewPinger(cfg.ExternalURL, cfg.PingInterval, nil, logger)
	go pinger.Run(ctx)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Failed to stop liveness server", zap.Error(err))
	}

	sessions.Close()
	states.Close()

	logger.Info("Bot stopped gracefully")
}

// openStorage returns the local config repository for the configured backend
func openStorage(cfg *config.Config, logger *zap.Logger) (repository.ConfigRepository, func(), error) {
	if cfg.StorageBackend != config.StoragePostgres {
		repo := file.NewConfigRepo(cfg.ConfigFile)
		logger.Info("Using file storage", zap.String("path", repo.Path()))
		return repo, func() {}, nil
	}

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		db.Close()
		return nil, nil, err
	}

	return postgres.NewConfigRepo(db), func() { db.Close() }, nil
}

// openMirror returns the remote mirror, or nil when mirroring is off
func openMirror(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Mirror, error) {
	switch cfg.Mirror.Backend {
	case config.MirrorGitHub:
		gh := cfg.Mirror.GitHub
		logger.Info("Mirroring config to GitHub",
			zap.String("repo", gh.Repo),
			zap.String("path", gh.FilePath),
		)
		return mirror.NewGitHub(mirror.GitHubConfig{
			Token:  gh.Token,
			Repo:   gh.Repo,
			Path:   gh.FilePath,
			Branch: gh.Branch,
		}, &http.Client{Timeout: 30 * time.Second}, logger), nil

	case config.MirrorS3:
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Mirror.S3.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Mirror.S3.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		logger.Info("Mirroring config to S3",
			zap.String("bucket", cfg.Mirror.S3.Bucket),
			zap.String("key", cfg.Mirror.S3.Key),
		)
		return mirror.NewS3(s3.NewFromConfig(awsCfg), cfg.Mirror.S3.Bucket, cfg.Mirror.S3.Key), nil

	default:
		return nil, nil
	}
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// One row, written by a handful of operators
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations creates the bot_config table
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case err == migrate.ErrNoChange:
		logger.Info("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		logger.Info("Migrations applied successfully")
	}

	return nil
}

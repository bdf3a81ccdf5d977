package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/awesomehub/internal/config"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver"
	"github.com/MrSnakeDoc/awesomehub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/awesomehub/internal/index"
	"github.com/MrSnakeDoc/awesomehub/internal/logger"
	"github.com/MrSnakeDoc/awesomehub/internal/redis"
	"github.com/MrSnakeDoc/awesomehub/internal/scheduler"
	"github.com/MrSnakeDoc/awesomehub/internal/sources/github"
	"github.com/MrSnakeDoc/awesomehub/internal/sources/tracked"
	redisstore "github.com/MrSnakeDoc/awesomehub/internal/store/redis"
	"github.com/MrSnakeDoc/awesomehub/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	listIndex   *index.ListIndex
	scraper     *scheduler.ListScraper
	pruner      *scheduler.ListPruner
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Tracked repositories - a broken file is a startup error
	repos, err := tracked.NewLoader(cfg.TrackedFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load tracked repositories: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("tracked repositories loaded",
		logger.Int("count", len(repos)),
		logger.String("file", cfg.TrackedFile))

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	listIndex := index.NewListIndex()
	store := redisstore.NewStore(redisClient)

	if cfg.ReparseOnStart {
		if err := store.FlushDigests(context.Background()); err != nil {
			loggerClient.Warn("failed to flush readme digests", logger.Error(err))
		} else {
			loggerClient.Info("readme digests flushed, every list will be re-parsed")
		}
	}

	// Serve the last known versions while the first scrape runs
	syncer := scheduler.NewStoreSyncer(store, listIndex, loggerClient)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync from redis on startup, lists will appear after the first scrape",
			logger.Error(err))
	}

	gh := github.New(github.Options{
		APIURL:     cfg.GitHubAPIURL,
		RawURL:     cfg.GitHubRawURL,
		Token:      cfg.GitHubToken,
		Timeout:    cfg.GitHubTimeout,
		Retries:    cfg.GitHubRetries,
		RetryDelay: time.Second,
	}, loggerClient)

	scraper := scheduler.NewListScraper(repos, gh, store, listIndex, loggerClient, scheduler.ScraperOptions{
		Interval:          cfg.ScrapeInterval,
		Workers:           cfg.ScrapeWorkers,
		NewItemWindow:     cfg.NewItemWindow,
		UmbrellaThreshold: cfg.UmbrellaThreshold,
		MaxDocumentSize:   cfg.MaxDocumentSize,
	})

	pruner := scheduler.NewListPruner(store, listIndex, loggerClient, repos, cfg.PruneInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		Index:         listIndex,
		Scraper:       scraper,
		TrackedCount:  len(repos),
		TriggerAPIKey: cfg.TriggerAPIKey,
		NewItemWindow: cfg.NewItemWindow,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		listIndex:   listIndex,
		scraper:     scraper,
		pruner:      pruner,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting awesomehub v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Drop lists that are no longer tracked before scraping the rest
	if err := a.pruner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start list pruner: %w", err)
	}
	a.logger.Info("list pruner started",
		logger.Duration("interval", a.cfg.PruneInterval))

	if err := a.scraper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start list scraper: %w", err)
	}
	a.logger.Info("list scraper started",
		logger.Duration("interval", a.cfg.ScrapeInterval),
		logger.Int("workers", a.cfg.ScrapeWorkers))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.scraper.Stop()
	a.pruner.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ awesomehub stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

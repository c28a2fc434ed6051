package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/equine-kiosk/server/internal/api"
	"github.com/equine-kiosk/server/internal/assistant"
	"github.com/equine-kiosk/server/internal/assistant/observers"
	"github.com/equine-kiosk/server/internal/assistant/tools"
	"github.com/equine-kiosk/server/internal/catalog"
	"github.com/equine-kiosk/server/internal/core"
	"github.com/equine-kiosk/server/internal/repo"
	"github.com/equine-kiosk/server/internal/session"
	"github.com/equine-kiosk/server/internal/submission"
	logx "github.com/equine-kiosk/server/pkg/logger"
	pkgmysql "github.com/equine-kiosk/server/pkg/mysql"
	"github.com/equine-kiosk/server/pkg/rabbitmq"
	pkgredis "github.com/equine-kiosk/server/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig defines all configurable parameters of the kiosk backend,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env      core.Environment `envconfig:"APP_ENV" default:"development"`
	LogLevel string           `envconfig:"LOG_LEVEL"`
	HTTPAddr string           `envconfig:"HTTP_ADDR" default:":8080"`

	// Infrastructure
	Redis    pkgredis.Config
	MySQL    pkgmysql.Config
	RabbitMQ rabbitmq.Config

	// Catalog
	CatalogSource    string   `envconfig:"CATALOG_SOURCE" default:"mysql"`
	CatalogFeedDir   string   `envconfig:"CATALOG_FEED_DIR" default:"./catalog"`
	CatalogLanguages []string `envconfig:"CATALOG_LANGUAGES" default:"fr,en"`

	SavedCartTTL time.Duration `envconfig:"SAVED_CART_TTL" default:"72h"`
	Kiosk        session.Config
}

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: cfg.Env, Level: cfg.LogLevel})
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ====================================================
	// Catalog
	var catalogRepo catalog.Repository
	switch cfg.CatalogSource {
	case "feed":
		catalogRepo = catalog.NewFeedRepository(cfg.CatalogFeedDir)
	case "mysql":
		db, err := cfg.MySQL.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to connect to MySQL")
		}
		defer db.Close()
		catalogRepo = catalog.NewMySQLRepository(db)
	default:
		logx.Fatal().Str("source", cfg.CatalogSource).Msg("unknown CATALOG_SOURCE")
	}

	store := catalog.NewStore(catalogRepo)
	for _, lang := range cfg.CatalogLanguages {
		snap, err := store.Refresh(ctx, lang)
		if err != nil {
			// The kiosk still boots; the catalog endpoints answer 503 until a refresh succeeds.
			logx.Error().Err(err).Str("language", lang).Msg("initial catalog load failed")
			continue
		}
		logx.Info().Str("language", lang).Int("products", snap.Len()).Msg("catalog loaded")
	}

	// ====================================================
	// Saved carts
	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()
	savedCarts := repo.NewRedisSavedCartRepository(rdb, cfg.SavedCartTTL)

	// ====================================================
	// Order submission
	var submitter session.OrderSubmitter = submission.LogSubmitter{}
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.New(cfg.RabbitMQ)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer mq.Close()
		submitter = submission.NewAMQPPublisher(mq.Channel, cfg.RabbitMQ.OrderExchange, cfg.RabbitMQ.RoutingKey, 5*time.Second)
	} else {
		logx.Warn().Msg("RABBITMQ_URL not set, orders are only logged")
	}

	sessions := session.NewService(cfg.Kiosk, store, savedCarts, submitter)
	if cfg.Kiosk.IdleTimeout > 0 {
		go sessions.RunSweeper(ctx, time.Minute)
	}

	runner, err := assistant.NewRunner(ctx, tools.NewCatalog(store, cfg.Kiosk.DefaultLanguage).Tools(), observers.NewToolCallbacks())
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build assistant tools")
	}

	handler := api.NewHandler(sessions, store).WithAssistant(runner)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.Env.String()).Msg("kiosk server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logx.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("graceful shutdown failed")
	}
}

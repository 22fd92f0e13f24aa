package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outfitapi/config"
	"outfitapi/controllers"
	"outfitapi/dbhelper"
	"outfitapi/logging"
	"outfitapi/metrics"
	"outfitapi/services"
	"outfitapi/stylist"
	"outfitapi/telegram"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogJSON)

	err = sentry.Init(sentry.ClientOptions{
		// empty DSN disables reporting
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          "outfitapi@1.0.0",
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sentry.Init")
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := dbhelper.SetupDB(cfg)

	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize R2 presign client")
	}
	urlCache, err := services.NewURLCacheService(awsService, cfg.R2Bucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize URL cache service")
	}

	reg := metrics.NewRegistry()
	wardrobe := services.NewGormWardrobe(db)
	cached, err := services.NewCachedItemSource(wardrobe, cfg.ItemCacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize item cache")
	}
	engine := stylist.NewEngine(cached, stylist.WithFetchLimit(cfg.ItemFetchLimit), stylist.WithMetrics(reg))
	users := services.NewGormUsers(db)

	if cfg.TelegramBot {
		api, updates, err := telegram.Connect(cfg.TelegramToken, cfg.Env == "local")
		if err != nil {
			log.Fatal().Err(err).Msg("telegram")
		}
		defer api.StopReceivingUpdates()
		telegram.NewBot(api, users, engine).Run(ctx, updates)
		return
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.BrokerAddress})
	defer asynqClient.Close()

	e := controllers.SetupServer(controllers.ServerDeps{
		Wardrobe:    wardrobe,
		Outfits:     wardrobe,
		Users:       users,
		Engine:      engine,
		AWSService:  awsService,
		URLCache:    urlCache,
		Invalidator: cached,
		Enqueuer:    asynqClient,
		Metrics:     reg,
		JWTSecret:   cfg.JWTSecret,
		Bucket:      cfg.R2Bucket,
	})
	e.HideBanner = true
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3)))
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()
	log.Info().Str("address", cfg.Address).Msg("starting api")
	if err := e.Start(cfg.Address); err != nil {
		log.Info().Err(err).Msg("api stopped")
	}
}

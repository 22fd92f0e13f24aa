package main

import (
	"context"
	"time"

	"outfitapi/config"
	"outfitapi/dbhelper"
	"outfitapi/logging"
	"outfitapi/metrics"
	"outfitapi/services"
	"outfitapi/stylist"
	"outfitapi/tasks"

	firebase "firebase.google.com/go/v4"
	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

func runScheduler(cfg config.Config) {
	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: cfg.BrokerAddress}, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	entries := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: cfg.DailyCron,
			task: tasks.NewDailySuggestionTask(),
			desc: "Daily outfit suggestions",
		},
	}

	for _, t := range entries {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatal().Err(err).Str("task", t.desc).Msg("failed to register scheduled task")
		}
		log.Info().Str("task", t.desc).Str("entry_id", entryID).Str("cron", t.cron).Msg("registered scheduled task")
	}

	log.Info().Msg("starting scheduler")
	if err := scheduler.Run(); err != nil {
		log.Fatal().Err(err).Msg("scheduler failed")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogJSON)

	if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env, Release: "outfitapi@1.0.0"}); err != nil {
		log.Fatal().Err(err).Msg("sentry.Init")
	}
	defer sentry.Flush(2 * time.Second)

	redis := asynq.RedisClientOpt{Addr: cfg.BrokerAddress}
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			tasks.QueueSuggest: 7,
			"default":          3,
		},
	})
	client := asynq.NewClient(redis)
	defer client.Close()

	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("error initializing firebase app")
	}

	db := dbhelper.SetupDB(cfg)
	reg := metrics.NewRegistry()
	wardrobe := services.NewGormWardrobe(db)
	users := services.NewGormUsers(db)
	engine := stylist.NewEngine(wardrobe, stylist.WithFetchLimit(cfg.ItemFetchLimit), stylist.WithMetrics(reg))
	notifier := services.NewFirebaseNotifier(app, db)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOutfitSuggest, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleOutfitSuggestionTask(ctx, t, users, engine, wardrobe, notifier, reg)
	})
	mux.HandleFunc(tasks.TypeOutfitDaily, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleDailySuggestionTask(ctx, t, users, client, reg)
	})

	go runScheduler(cfg)
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("worker stopped")
	}
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nhle/daybook/internal/credential"
	"github.com/nhle/daybook/internal/model"
	"github.com/nhle/daybook/internal/notify"
	"github.com/nhle/daybook/internal/reminder"
	"github.com/nhle/daybook/internal/scheduler"
	"github.com/nhle/daybook/internal/store"
	"github.com/nhle/daybook/internal/summary"
)

func main() {
	configPath := flag.String("config", model.DefaultSettingsPath(), "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr, TimeFormat: "2006-01-02_15:04:05",
	})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	settings, err := model.LoadSettings(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading settings")
	}

	db, err := store.NewSQLiteStore(settings.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("opening store")
	}
	defer db.Close()

	var sender notify.Sender = notify.NewLogSender(log.Logger)
	if settings.Telegram.Enabled {
		token, tokenErr := credential.Get(credential.TelegramTokenKey)
		if tokenErr != nil {
			log.Warn().Err(tokenErr).Msg("no telegram token in keyring, falling back to log delivery")
		} else {
			tg, tgErr := notify.NewTelegramSender(token, settings.Telegram.ChatID, log.Logger)
			if tgErr != nil {
				log.Warn().Err(tgErr).Msg("telegram unavailable, falling back to log delivery")
			} else {
				sender = tg
			}
		}
	}

	engine := scheduler.NewEngine(64)
	engine.Start()
	defer engine.Stop()

	coord := reminder.NewCoordinator(db, engine, settings, sender, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := coord.RestorePending(ctx); err != nil {
		log.Error().Err(err).Msg("restoring pending reminders")
	}

	go coord.Run(ctx, engine.C())

	jobs := cron.New()
	if _, err := jobs.AddFunc(settings.SummaryCron, func() {
		text, buildErr := summary.Build(ctx, db, time.Now())
		if buildErr != nil {
			log.Error().Err(buildErr).Msg("building daily summary")
			return
		}
		if sendErr := sender.SendMessage(text); sendErr != nil {
			log.Warn().Err(sendErr).Msg("delivering daily summary")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", settings.SummaryCron).Msg("invalid summary cron spec")
	}
	jobs.Start()
	defer jobs.Stop()

	log.Info().Str("db", settings.DatabasePath).Msg("daybookd started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
}

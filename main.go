package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appBot "adboard-bot/bot"
	"adboard-bot/internal/auth"
	"adboard-bot/internal/config"
	"adboard-bot/internal/database"
	"adboard-bot/internal/handlers"
	"adboard-bot/internal/locales"
	"adboard-bot/internal/publisher"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	locales.Init(cfg.DefaultLanguage)

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	defer func() {
		if err = client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
			sentry.CaptureException(err)
		} else {
			log.Println("Disconnected from MongoDB.")
		}
	}()

	postRepo := database.NewMongoPostRepository(db)
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	banRepo := database.NewMongoBanRepository(db)
	mongoLogger := database.NewMongoLogger(db)

	// The channel set is either fixed in configuration or managed at runtime
	// through admin commands backed by the channels collection.
	var channelSource database.ChannelSource
	var channelRepo database.ChannelRepository
	if len(cfg.ChannelIDs) > 0 {
		channelSource = database.StaticChannels(cfg.ChannelIDs)
	} else {
		repo := database.NewMongoChannelRepository(db)
		channelRepo = repo
		channelSource = repo
	}

	adminChecker, err := auth.NewAdminChecker(cfg.AdminIDs)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create admin checker: %v", err)
	}

	messageHandler := handlers.NewMessageHandler(
		cfg.Version,
		postRepo,
		banRepo,
		channelRepo,
		mongoLogger,
		adminChecker,
	)

	var bot *telego.Bot
	if cfg.Debug {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, false))
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create telego bot: %v", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to start long polling: %v", err)
	}

	wrapper, err := appBot.New(appBot.Deps{
		Bot:         bot,
		UpdatesChan: updates,
		Debug:       cfg.Debug,
		Handler:     messageHandler,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	pub, err := publisher.New(publisher.Deps{
		Bot:                  bot,
		Posts:                postRepo,
		Bans:                 banRepo,
		Channels:             channelSource,
		PostLogger:           mongoLogger,
		Interval:             cfg.PublishInterval,
		MinPostAge:           cfg.MinPostAge,
		DisposePolicy:        cfg.DisposePolicy,
		RetractBeforePublish: cfg.RetractBeforePublish,
		PostRetention:        cfg.PostRetention,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}

	go wrapper.Start(ctx)
	go pub.Run(ctx)

	<-ctx.Done()

	log.Println("Shutting down bot...")
	log.Println("Bot shutdown complete.")
}

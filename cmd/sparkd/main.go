package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ignitelabs/sparkd/internal/api"
	"github.com/ignitelabs/sparkd/internal/config"
	"github.com/ignitelabs/sparkd/internal/cron"
	"github.com/ignitelabs/sparkd/internal/database"
	"github.com/ignitelabs/sparkd/internal/dispatcher"
	"github.com/ignitelabs/sparkd/internal/llm"
	"github.com/ignitelabs/sparkd/internal/logger"
	"github.com/ignitelabs/sparkd/internal/mailer"
	"github.com/ignitelabs/sparkd/internal/migrator"
	"github.com/ignitelabs/sparkd/internal/nats"
	"github.com/ignitelabs/sparkd/internal/publisher"
	"github.com/ignitelabs/sparkd/internal/repository"
	"github.com/ignitelabs/sparkd/internal/spark"
	"github.com/ignitelabs/sparkd/internal/teaser"
	"github.com/ignitelabs/sparkd/migrations"
)

func main() {
	// 1. Load config (.env is optional, real env wins)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting teaser scheduling & dispatch service")

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Run migrations
	mig, err := migrator.NewWithFS(migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrator")
	}
	if err := mig.Up(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// 5. Connect to database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 6. Connect to NATS (optional, events are best-effort)
	var teaserPub teaser.EventPublisher
	var dispatchPub dispatcher.EventPublisher

	nc, err := nats.New(ctx, cfg.NatsURL)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to nats, event publishing disabled")
	} else {
		defer nc.Close()
		pub := publisher.NewNATSPublisher(nc.Conn)
		teaserPub = pub
		dispatchPub = pub
	}

	// 7. Initialize repositories
	sparksRepo := repository.NewSparksRepository(db.GORM)
	categoriesRepo := repository.NewCategoriesRepository(db.GORM)
	teasersRepo := repository.NewTeasersRepository(db.GORM)
	usersRepo := repository.NewUsersRepository(db.GORM)

	// 8. Initialize LLM client and teaser service
	llmClient := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLMBaseURL,
		Model:       cfg.LLMModel,
		APIKey:      cfg.LLMAPIKey,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: float32(cfg.LLMTemperature),
		Timeout:     time.Duration(cfg.LLMTimeoutSec) * time.Second,
	})
	generator := teaser.NewGenerator(llmClient, log)

	teaserSvc := teaser.NewService(sparksRepo, categoriesRepo, teasersRepo, generator, teaserPub, log)

	// 9. Initialize mailer and dispatch service
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Rate:     cfg.MailRate,
	}, log)

	dispatchSvc := dispatcher.NewService(teasersRepo, sparksRepo, sender, dispatchPub, log)
	subscriptionSvc := spark.NewService(sparksRepo, usersRepo, sender, log)

	// 10. Schedule the dispatch job
	runner := cron.NewRunner(log)
	err = runner.Schedule(cfg.DispatchCron, "dispatch", func(ctx context.Context) error {
		_, err := dispatchSvc.Run(ctx)
		if errors.Is(err, dispatcher.ErrRunInProgress) {
			// previous tick still draining its fan-out, next tick catches up
			log.Warn().Msg("dispatch tick skipped, previous run still in progress")
			return nil
		}
		return err
	})
	if err != nil {
		log.Fatal().Err(err).Str("expr", cfg.DispatchCron).Msg("failed to schedule dispatch job")
	}
	runner.Start()

	// 11. Start HTTP server
	teasersHandler := api.NewTeasersHandler(
		teaserSvc,
		dispatchSvc,
		time.Duration(cfg.GenerateTimeoutSec)*time.Second,
		log,
	)
	sparksHandler := api.NewSparksHandler(subscriptionSvc)
	server := api.NewServer(&api.Config{Port: cfg.HTTPPort}, teasersHandler, sparksHandler)

	log.Info().Int("port", cfg.HTTPPort).Str("cron", cfg.DispatchCron).Msg("starting http server")
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// 12. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down services...")

	runner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}

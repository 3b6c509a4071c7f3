package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codeclash/arena/internal/config"
	"github.com/codeclash/arena/internal/database"
	"github.com/codeclash/arena/internal/handler"
	"github.com/codeclash/arena/internal/middleware"
	"github.com/codeclash/arena/internal/router"
	"github.com/codeclash/arena/internal/service"
	"github.com/codeclash/arena/internal/store"
	"github.com/codeclash/arena/pkg/judge"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	judgeClient, err := buildJudge(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create judge: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	roomStore := store.NewRoomStore()
	submissionStore := store.NewSubmissionStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventService := service.NewEventService(redisClient, cfg.EventChannelBase, natsConn, logger)
	eventService.Start(ctx)

	roomService := service.NewRoomService(roomStore, eventService, validate, logger)
	submissionService := service.NewSubmissionService(roomStore, submissionStore, judgeClient, eventService, validate, logger, service.SubmissionConfig{
		JudgeTimeout: cfg.JudgeTimeout,
	})
	problemService := service.NewProblemService(logger)

	roomHandler := handler.NewRoomHandler(roomService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	problemHandler := handler.NewProblemHandler(problemService, logger)
	eventHandler := handler.NewEventHandler(eventService, roomStore, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		RoomHandler:       roomHandler,
		SubmissionHandler: submissionHandler,
		ProblemHandler:    problemHandler,
		EventHandler:      eventHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildJudge(cfg config.Config, logger zerolog.Logger) (judge.Judge, error) {
	if cfg.JudgeProvider == "openai" {
		return judge.NewOpenAIJudge(judge.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			Model:     cfg.JudgeModel,
			MaxTokens: cfg.JudgeMaxTokens,
			Logger:    logger,
		})
	}

	return judge.NewStaticJudge(), nil
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}

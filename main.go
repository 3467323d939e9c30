package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matchai-service/config"
	"matchai-service/database"
	"matchai-service/event"
	"matchai-service/event/listener"
	"matchai-service/llm"
	"matchai-service/logger"
	"matchai-service/media"
	"matchai-service/metrics"
	"matchai-service/realtime"
	"matchai-service/router"
	"matchai-service/service"
	"matchai-service/socketio"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	logger.SetupDefault(os.Stdout, config.Default("LOG_LEVEL", "info"))

	rest := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		StrictRouting:         true,
		AppName:               "matchai-service",
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	rest.Use(recover.New())
	rest.Use(cors.New())
	rest.Use(metrics.Middleware(rec))

	db, err := database.PostgresConnect()
	if err != nil {
		fatal("failed to connect to postgres", err)
	}
	if err := database.Migrate(db); err != nil {
		fatal("failed to migrate database", err)
	}
	enforcer, err := database.Casbin(db)
	if err != nil {
		fatal("failed to initialize casbin", err)
	}
	redisClient := database.RedisConnect()
	store := database.NewStore(db)

	// Domain events
	notifications := make(chan event.EventChannelData, 256)
	var publisher event.Publisher
	var rabbit *event.RabbitMQ
	switch mode := config.Default("EVENT_MODE", "local"); mode {
	case "rabbitmq":
		rabbit, err = event.RabbitMQConnect(config.Default("EVENT_QUEUE", "matchai"))
		if err != nil {
			fatal("failed to connect to rabbitmq", err)
		}
		if err := rabbit.Subscribe(notifications); err != nil {
			fatal("failed to subscribe to rabbitmq", err)
		}
		publisher = rabbit
	default:
		publisher = event.NewLocal(notifications)
	}

	advisor := llm.FromConfig(rec)

	matches := service.NewMatchService(store, advisor, publisher, service.MatchOptions{
		Policy:      service.TransitionPolicy(config.Default("MATCH_TRANSITION_POLICY", string(service.PolicyPermissive))),
		UniquePairs: config.Bool("MATCH_UNIQUE_PAIRS", false),
	})
	messages := service.NewMessageService(store, matches, publisher)
	auth := service.NewAuthService(store, database.NewRedisTokenStore(redisClient), enforcer, service.AuthOptions{
		BcryptCost: config.Int("BCRYPT_COST", 14),
		OtpIssuer:  config.Config("OTP_ISSUER"),
		Admins:     config.List("ADMIN_USERS"),
	})

	registry := realtime.NewRegistry()
	relay := realtime.NewRelay(registry, matches, messages, rec, realtime.Config{
		RequireToken:    config.Default("SOCKET_AUTH_MODE", "claim") == "token",
		EventsPerSecond: config.Float("SOCKET_EVENTS_PER_SECOND", 20),
		EventsBurst:     config.Int("SOCKET_EVENTS_BURST", 40),
	})
	go listener.Notifications(notifications, relay)

	var presigner *media.Presigner
	if config.Config("S3_BUCKET_NAME") != "" {
		presigner, err = media.S3Connect(context.Background())
		if err != nil {
			fatal("failed to configure s3", err)
		}
	}

	socket := socketio.Init(rest)
	socketio.WebSocket(rest, "/ws", relay)

	router.Rest(rest, router.Services{
		Auth:       auth,
		Users:      service.NewUserService(store),
		Matches:    matches,
		Messages:   messages,
		VideoCalls: service.NewVideoCallService(store, matches, publisher),
		AI:         service.NewAIService(store, matches, advisor),
		Media:      presigner,
		Registry:   registry,
		Enforcer:   enforcer,
		Gatherer:   reg,
	})
	router.Socket(socket, relay)

	go func() {
		if err := rest.Listen(fmt.Sprintf(":%s", config.Default("SERVER_PORT", "5000"))); err != nil {
			fatal("server stopped", err)
		}
	}()

	exit := make(chan struct{})
	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				close(exit)
				return
			}
		}
	}()

	<-exit
	slog.Info("shutting down")
	registry.Close()
	socket.Close(nil)
	if err := rest.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Warn("http shutdown", "error", err)
	}
	if rabbit != nil {
		rabbit.Close()
	}
	redisClient.Close()
	os.Exit(0)
}

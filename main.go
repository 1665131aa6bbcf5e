package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"room-service/internal/config"
	"room-service/internal/db"
	"room-service/internal/handlers"
	"room-service/internal/middleware"
	"room-service/internal/observability"
	"room-service/internal/presence"
	"room-service/internal/rabbitmq"
	"room-service/internal/repositories"
	"room-service/internal/telemetry"
)

const serviceName = "room-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer shutdownTracing()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	if reason := rabbitmq.PublisherNoopReason(publisher); reason != "" {
		log.Printf("event publisher mode=%s reason=%s", rabbitmq.PublisherMode(publisher), reason)
	} else {
		log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))
	}

	emitter := telemetry.NewEventEmitter(publisher, serviceName, cfg.Environment)

	participantRepo := repositories.NewParticipantRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	participantHandler := handlers.NewParticipantHandler(participantRepo, messageRepo, emitter)
	messageHandler := handlers.NewMessageHandler(participantRepo, messageRepo, emitter)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := presence.NewSweeper(participantRepo, messageRepo, emitter, cfg.SweepInterval, cfg.StaleAfter)
	go sweeper.Start(ctx)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(middleware.Identity())

	router.POST("/participants", participantHandler.Join)
	router.GET("/participants", participantHandler.ListParticipants)
	router.POST("/status", participantHandler.Heartbeat)

	router.POST("/messages", messageHandler.PostMessage)
	router.GET("/messages", messageHandler.ListMessages)
	router.PUT("/messages/:id", messageHandler.EditMessage)
	router.DELETE("/messages/:id", messageHandler.DeleteMessage)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, sweeper, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

package main

import (
	"FarmWatch/internal/config"
	"FarmWatch/internal/event"
	"FarmWatch/pkg/inference"
	"FarmWatch/pkg/log"
	"FarmWatch/pkg/push"
	"FarmWatch/pkg/redis"
	"FarmWatch/pkg/ws"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()

	detectors := map[string]inference.Detector{
		inference.ModelFireSmoke: inference.NewYOLODetector(logger, inference.ModelFireSmoke, os.Getenv("YOLO_FIRE_SMOKE_URL")),
		inference.ModelPerson:    inference.NewYOLODetector(logger, inference.ModelPerson, os.Getenv("YOLO_PERSON_URL")),
	}
	adapter := inference.NewAdapter(logger, detectors)
	classMap := inference.ClassMapFromEnv()

	eventBus := event.NewBus(logger, 256)
	hub := ws.NewHub(logger)

	pushClient, err := push.New()
	if err != nil {
		logger.Warnf("Push notifications disabled: %v", err)
		pushClient = nil
	}

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithInferenceAdapter(adapter, classMap),
		config.WithEventBus(eventBus),
		config.WithHub(hub),
		config.WithPushClient(pushClient),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	server.Shutdown()
}

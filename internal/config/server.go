package config

import (
	"FarmWatch/database/postgres"
	authHandler "FarmWatch/internal/api/auth/handler"
	authRepository "FarmWatch/internal/api/auth/repository"
	authService "FarmWatch/internal/api/auth/service"
	detectionHandler "FarmWatch/internal/api/detection/handler"
	detectionRepository "FarmWatch/internal/api/detection/repository"
	detectionService "FarmWatch/internal/api/detection/service"
	notificationHandler "FarmWatch/internal/api/notification/handler"
	notificationRepository "FarmWatch/internal/api/notification/repository"
	notificationService "FarmWatch/internal/api/notification/service"
	projectHandler "FarmWatch/internal/api/project/handler"
	projectRepository "FarmWatch/internal/api/project/repository"
	projectService "FarmWatch/internal/api/project/service"
	"FarmWatch/internal/event"
	"FarmWatch/internal/middleware"
	"FarmWatch/pkg/bcrypt"
	"FarmWatch/pkg/inference"
	"FarmWatch/pkg/push"
	"FarmWatch/pkg/redis"
	"FarmWatch/pkg/s3"
	"FarmWatch/pkg/utils"
	"FarmWatch/pkg/ws"
	"context"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine           *fiber.App
	db               *sqlx.DB
	log              *logrus.Logger
	middleware       middleware.Middleware
	validator        *validator.Validate
	utils            utils.IUtils
	bcryptUtils      bcrypt.IBcrypt
	handlers         []handler
	redisServer      redis.IRedis
	s3Client         s3.ItfS3
	inferenceAdapter inference.IAdapter
	classMap         inference.ClassMap
	eventBus         event.Bus
	hub              ws.IHub
	pushClient       push.ItfPush
	fanoutCancel     context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithInferenceAdapter(adapter inference.IAdapter, classMap inference.ClassMap) ServerOption {
	return func(s *Server) error {
		s.inferenceAdapter = adapter
		s.classMap = classMap
		return nil
	}
}

func WithEventBus(bus event.Bus) ServerOption {
	return func(s *Server) error {
		s.eventBus = bus
		return nil
	}
}

func WithHub(hub ws.IHub) ServerOption {
	return func(s *Server) error {
		s.hub = hub
		return nil
	}
}

func WithPushClient(pushClient push.ItfPush) ServerOption {
	return func(s *Server) error {
		s.pushClient = pushClient
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	// Project Domain
	projectRepo := projectRepository.New(s.db, s.log)
	projectServices := projectService.New(s.log, projectRepo, s.redisServer, s.utils)
	projectHandlers := projectHandler.New(s.log, s.validator, s.middleware, projectServices)

	// Detection Domain
	detectionRepo := detectionRepository.New(s.db, s.log)
	detectionServices := detectionService.New(s.log, detectionRepo, projectRepo, s.inferenceAdapter, s.classMap, s.s3Client, s.utils, s.eventBus)
	detectionHandlers := detectionHandler.New(s.log, s.validator, s.middleware, detectionServices, s.utils)

	// Notification Domain
	notificationRepo := notificationRepository.New(s.db, s.log)
	notificationServices := notificationService.New(s.log, notificationRepo, projectRepo, authRepo, s.hub, s.pushClient, s.utils, s.eventBus)
	notificationHandlers := notificationHandler.New(s.log, s.validator, s.middleware, notificationServices, s.hub, s.redisServer)

	fanoutCtx, cancel := context.WithCancel(context.Background())
	s.fanoutCancel = cancel
	notificationServices.StartFanout(fanoutCtx)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, projectHandlers, detectionHandlers, notificationHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		s.Shutdown()
		return err
	}

	return nil
}

func (s *Server) Shutdown() {
	if s.fanoutCancel != nil {
		s.fanoutCancel()
	}
	if s.eventBus != nil {
		s.eventBus.Close()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

package notificationHandler

import (
	notificationService "FarmWatch/internal/api/notification/service"
	"FarmWatch/internal/middleware"
	"FarmWatch/pkg/redis"
	"FarmWatch/pkg/ws"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type NotificationHandler struct {
	log                 *logrus.Logger
	validator           *validator.Validate
	middleware          middleware.Middleware
	notificationService notificationService.INotificationService
	hub                 ws.IHub
	redisServer         redis.IRedis
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	notificationService notificationService.INotificationService,
	hub ws.IHub,
	redisServer redis.IRedis,
) *NotificationHandler {
	return &NotificationHandler{
		log:                 log,
		validator:           validate,
		middleware:          middleware,
		notificationService: notificationService,
		hub:                 hub,
		redisServer:         redisServer,
	}
}

func (h *NotificationHandler) Start(srv fiber.Router) {
	notifications := srv.Group("/notifications")

	notifications.Get("/", h.middleware.NewTokenMiddleware, h.ListNotifications)
	notifications.Patch("/read-all", h.middleware.NewTokenMiddleware, h.MarkAllRead)
	notifications.Patch("/:id/read", h.middleware.NewTokenMiddleware, h.MarkRead)

	notifications.Get("/ws", h.middleware.NewTokenMiddleware, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, websocket.New(h.Stream))
}

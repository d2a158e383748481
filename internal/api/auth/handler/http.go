package authHandler

import (
	authService "FarmWatch/internal/api/auth/service"
	"FarmWatch/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	authService authService.IAuthService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	authService authService.IAuthService,
) *AuthHandler {
	return &AuthHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		authService: authService,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")

	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.RefreshToken)
	auth.Get("/profile", h.middleware.NewTokenMiddleware, h.GetProfile)
	auth.Post("/device-tokens", h.middleware.NewTokenMiddleware, h.RegisterDeviceToken)
	auth.Delete("/device-tokens/:token", h.middleware.NewTokenMiddleware, h.RemoveDeviceToken)
}

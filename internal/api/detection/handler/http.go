package detectionHandler

import (
	detectionService "FarmWatch/internal/api/detection/service"
	"FarmWatch/internal/middleware"
	"FarmWatch/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	validator        *validator.Validate
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	detectionService detectionService.IDetectionService,
	utils utils.IUtils,
) *DetectionHandler {
	return &DetectionHandler{
		log:              log,
		validator:        validate,
		middleware:       middleware,
		detectionService: detectionService,
		utils:            utils,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	detections := srv.Group("/detections")

	detections.Post("/ingest", h.IngestFrame)
	detections.Get("/", h.middleware.NewTokenMiddleware, h.GetHistory)
	detections.Get("/:id", h.middleware.NewTokenMiddleware, h.GetDetection)
	detections.Patch("/:id/review", h.middleware.NewTokenMiddleware, h.Review)
}

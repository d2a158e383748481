package projectHandler

import (
	projectService "FarmWatch/internal/api/project/service"
	"FarmWatch/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ProjectHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	projectService projectService.IProjectService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	projectService projectService.IProjectService,
) *ProjectHandler {
	return &ProjectHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		projectService: projectService,
	}
}

func (h *ProjectHandler) Start(srv fiber.Router) {
	projects := srv.Group("/projects")

	projects.Post("/", h.middleware.NewTokenMiddleware, h.CreateProject)
	projects.Get("/", h.middleware.NewTokenMiddleware, h.ListProjects)
	projects.Post("/join", h.middleware.NewTokenMiddleware, h.JoinProject)
	projects.Get("/access-codes/:code", h.ValidateAccessCode)
	projects.Get("/:id", h.middleware.NewTokenMiddleware, h.GetProject)
	projects.Put("/:id", h.middleware.NewTokenMiddleware, h.UpdateProject)
	projects.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteProject)
	projects.Post("/:id/access-code", h.middleware.NewTokenMiddleware, h.RegenerateAccessCode)
	projects.Get("/:id/members", h.middleware.NewTokenMiddleware, h.ListMembers)

	projects.Post("/:id/boundaries", h.middleware.NewTokenMiddleware, h.CreateBoundary)
	projects.Get("/:id/boundaries", h.middleware.NewTokenMiddleware, h.ListBoundaries)
	projects.Get("/:id/cameras", h.middleware.NewTokenMiddleware, h.ListCameras)

	boundaries := srv.Group("/boundaries")
	boundaries.Get("/:id", h.middleware.NewTokenMiddleware, h.GetBoundary)
	boundaries.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteBoundary)
	boundaries.Post("/:id/cameras", h.middleware.NewTokenMiddleware, h.CreateCamera)

	cameras := srv.Group("/cameras")
	cameras.Post("/heartbeat", h.Heartbeat)
	cameras.Get("/:id", h.middleware.NewTokenMiddleware, h.GetCamera)
	cameras.Delete("/:id", h.middleware.NewTokenMiddleware, h.DeleteCamera)
}

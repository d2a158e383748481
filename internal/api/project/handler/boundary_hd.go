package projectHandler

import (
	"FarmWatch/internal/api/project"
	contextPkg "FarmWatch/pkg/context"
	"FarmWatch/pkg/handlerUtil"
	jwtPkg "FarmWatch/pkg/jwt"
	"FarmWatch/pkg/log"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *ProjectHandler) CreateBoundary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing create boundary request")

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	projectID := ctx.Params("id")
	if projectID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("project ID is required"), ctx.Path())
	}

	var req project.CreateBoundaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.projectService.CreateBoundary(c, userData.ID, projectID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_boundary")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, resp)
	}
}

func (h *ProjectHandler) GetBoundary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	boundaryID := ctx.Params("id")
	if boundaryID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("boundary ID is required"), ctx.Path())
	}

	resp, err := h.projectService.GetBoundary(c, userData.ID, boundaryID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_boundary")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *ProjectHandler) ListBoundaries(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	projectID := ctx.Params("id")
	if projectID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("project ID is required"), ctx.Path())
	}

	boundaries, err := h.projectService.ListBoundaries(c, userData.ID, projectID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_boundaries")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"boundaries": boundaries,
		})
	}
}

func (h *ProjectHandler) DeleteBoundary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	boundaryID := ctx.Params("id")
	if boundaryID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("boundary ID is required"), ctx.Path())
	}

	if err := h.projectService.DeleteBoundary(c, userData.ID, boundaryID); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_boundary")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "Boundary deleted successfully",
		})
	}
}

package detectionHandler

import (
	"FarmWatch/internal/api/detection"
	contextPkg "FarmWatch/pkg/context"
	"FarmWatch/pkg/handlerUtil"
	jwtPkg "FarmWatch/pkg/jwt"
	"FarmWatch/pkg/log"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// IngestFrame accepts one multipart frame from a camera device. The camera is
// identified by camera_id, ip_address+port or cellular_id form fields, tried
// in that order. Inference can take a while, so the timeout is generous.
func (h *DetectionHandler) IngestFrame(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing frame ingestion request")

	fileHeader, err := ctx.FormFile("frame")
	if err != nil {
		return errHandler.Handle(ctx, requestID, detection.ErrMissingFrame, ctx.Path(), "read_frame")
	}

	if err := h.utils.ValidateImageFile(fileHeader); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_frame")
	}
	defer file.Close()

	frame, err := io.ReadAll(file)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_frame")
	}

	cameraID, _ := strconv.ParseInt(ctx.FormValue("camera_id"), 10, 64)
	port, _ := strconv.ParseInt(ctx.FormValue("port"), 10, 64)

	req := detection.IngestFrameRequest{
		CameraID:   cameraID,
		IPAddress:  ctx.FormValue("ip_address"),
		Port:       port,
		CellularID: ctx.FormValue("cellular_id"),
		Frame:      frame,
	}

	resp, err := h.detectionService.IngestFrame(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "ingest_frame")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, resp)
	}
}

func (h *DetectionHandler) GetDetection(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	detectionID := ctx.Params("id")
	if detectionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("detection ID is required"), ctx.Path())
	}

	resp, err := h.detectionService.GetDetection(c, userData.ID, detectionID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_detection")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

func (h *DetectionHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	projectID := ctx.Query("project_id")
	if projectID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("project_id query parameter is required"), ctx.Path())
	}

	cameraID, _ := strconv.ParseInt(ctx.Query("camera_id"), 10, 64)

	query := detection.HistoryQuery{
		ProjectID:     projectID,
		CameraID:      cameraID,
		DetectionType: ctx.Query("detection_type"),
		From:          ctx.Query("from"),
		To:            ctx.Query("to"),
		Limit:         ctx.QueryInt("limit", 50),
		Offset:        ctx.QueryInt("offset", 0),
	}

	detections, err := h.detectionService.GetHistory(c, userData.ID, query)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"detections": detections,
		})
	}
}

func (h *DetectionHandler) Review(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	detectionID := ctx.Params("id")
	if detectionID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("detection ID is required"), ctx.Path())
	}

	var req detection.ReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	resp, err := h.detectionService.Review(c, userData.ID, detectionID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "review_detection")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, resp)
	}
}

package detectionService

import (
	"FarmWatch/internal/api/detection"
	detectionRepository "FarmWatch/internal/api/detection/repository"
	"FarmWatch/internal/api/project"
	"FarmWatch/internal/entity"
	"FarmWatch/internal/event"
	"FarmWatch/pkg/annotate"
	contextPkg "FarmWatch/pkg/context"
	"FarmWatch/pkg/inference"
	"errors"
	"fmt"
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// IngestFrame runs the full pipeline for one camera frame: resolve the
// camera, run the fire/smoke model, fall back to the person model only when
// nothing burns, then persist one detection row per detected type with its
// original and annotated artifacts. Model degradation never fails the
// request; the response is tagged instead. A save failure in one detection
// group is logged and excluded without aborting its siblings.
func (s *detectionService) IngestFrame(ctx context.Context, req detection.IngestFrameRequest) (detection.IngestResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(req.Frame) == 0 {
		return detection.IngestResponse{}, detection.ErrMissingFrame
	}
	if err := validateIdentifiers(req); err != nil {
		return detection.IngestResponse{}, err
	}

	camera, err := s.resolveCamera(ctx, req)
	if err != nil {
		return detection.IngestResponse{}, err
	}
	if !camera.Active {
		return detection.IngestResponse{}, detection.ErrCameraInactive
	}

	detectedAt := time.Now()

	fireSmoke := s.inferenceAdapter.Detect(ctx, req.Frame, inference.ModelFireSmoke, inference.DefaultConfidenceThreshold)
	degraded := fireSmoke.Degraded

	groups := s.groupByType(fireSmoke.Detections, inference.ModelFireSmoke)
	fireSmokeDetected := len(groups) > 0

	// The person model only runs when the frame shows no fire or smoke, so a
	// burning field is never reported as a trespasser.
	if !fireSmokeDetected {
		person := s.inferenceAdapter.Detect(ctx, req.Frame, inference.ModelPerson, inference.DefaultConfidenceThreshold)
		degraded = degraded || person.Degraded
		groups = s.groupByType(person.Detections, inference.ModelPerson)
	}

	resp := detection.IngestResponse{
		Success:                true,
		CameraID:               camera.ID,
		CameraType:             string(camera.CameraType),
		Detections:             []detection.DetectionResponse{},
		DetectionsCreated:      []string{},
		FireSmokeDetected:      fireSmokeDetected,
		PersonDetectionSkipped: fireSmokeDetected,
		Degraded:               degraded,
	}

	if len(groups) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"camera_id":  camera.ID,
			"degraded":   degraded,
		}).Debug("Frame produced no detections")
		resp.Message = "no detections"
		return resp, nil
	}

	repo, err := s.detectionRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return detection.IngestResponse{}, err
	}

	projectRepo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return detection.IngestResponse{}, err
	}

	projectID, err := projectRepo.Camera.GetProjectIDByCameraID(ctx, camera.ID)
	if err != nil {
		return detection.IngestResponse{}, err
	}

	failed := 0
	for typeName, rawDetections := range groups {
		groupResp, err := s.persistDetection(ctx, repo, camera, projectID, typeName, rawDetections, req.Frame, detectedAt)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"camera_id":      camera.ID,
				"detection_type": typeName,
				"error":          err.Error(),
			}).Error("Failed to persist detection group")
			failed++
			continue
		}
		resp.Detections = append(resp.Detections, groupResp)
		resp.DetectionsCreated = append(resp.DetectionsCreated, groupResp.ID)
	}

	if failed > 0 {
		resp.Message = fmt.Sprintf("%d of %d detection groups saved", len(resp.Detections), len(groups))
	} else {
		resp.Message = fmt.Sprintf("%d detections created", len(resp.Detections))
	}

	return resp, nil
}

// validateIdentifiers enforces that a frame names its camera exactly one way:
// numeric id, ip:port pair, or cellular id.
func validateIdentifiers(req detection.IngestFrameRequest) error {
	count := 0
	if req.CameraID > 0 {
		count++
	}
	if req.IPAddress != "" || req.Port > 0 {
		if req.IPAddress == "" || req.Port <= 0 {
			return detection.ErrMissingCameraIdentifier
		}
		count++
	}
	if req.CellularID != "" {
		count++
	}

	switch {
	case count == 0:
		return detection.ErrMissingCameraIdentifier
	case count > 1:
		return detection.ErrAmbiguousCameraIdentifiers
	}

	return nil
}

func (s *detectionService) resolveCamera(ctx context.Context, req detection.IngestFrameRequest) (entity.Camera, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return entity.Camera{}, err
	}

	var camera entity.Camera
	switch {
	case req.CameraID > 0:
		camera, err = repo.Camera.GetCameraByID(ctx, req.CameraID)
	case req.IPAddress != "" && req.Port > 0:
		camera, err = repo.Camera.GetCameraByAddress(ctx, req.IPAddress, req.Port)
	case req.CellularID != "":
		camera, err = repo.Camera.GetCameraByCellularID(ctx, req.CellularID)
	default:
		return entity.Camera{}, detection.ErrCameraNotResolvable
	}

	if err != nil {
		if errors.Is(err, project.ErrCameraNotFound) {
			return entity.Camera{}, detection.ErrCameraNotResolvable
		}
		return entity.Camera{}, err
	}

	return camera, nil
}

// groupByType buckets raw model output by detection type name using the
// configured class id mapping. Unknown class ids are dropped.
func (s *detectionService) groupByType(detections []inference.RawDetection, modelKey string) map[string][]inference.RawDetection {
	groups := make(map[string][]inference.RawDetection)

	for _, d := range detections {
		var typeName string
		switch modelKey {
		case inference.ModelFireSmoke:
			switch d.ClassID {
			case s.classMap.Fire:
				typeName = entity.DetectionFire
			case s.classMap.Smoke:
				typeName = entity.DetectionSmoke
			}
		case inference.ModelPerson:
			if d.ClassID == s.classMap.Person {
				typeName = entity.DetectionPerson
			}
		}

		if typeName == "" {
			continue
		}
		groups[typeName] = append(groups[typeName], d)
	}

	return groups
}

func (s *detectionService) persistDetection(
	ctx context.Context,
	repo detectionRepository.Client,
	camera entity.Camera,
	projectID string,
	typeName string,
	rawDetections []inference.RawDetection,
	frame []byte,
	detectedAt time.Time,
) (detection.DetectionResponse, error) {
	boxes := make([]entity.BoundingBox, 0, len(rawDetections))
	annotateBoxes := make([]annotate.Box, 0, len(rawDetections))
	var confidenceSum float64

	for _, d := range rawDetections {
		confidenceSum += d.Confidence
		boxes = append(boxes, entity.BoundingBox{
			X1:         d.X1,
			Y1:         d.Y1,
			X2:         d.X2,
			Y2:         d.Y2,
			Confidence: d.Confidence,
		})
		annotateBoxes = append(annotateBoxes, annotate.Box{
			X1:         d.X1,
			Y1:         d.Y1,
			X2:         d.X2,
			Y2:         d.Y2,
			Confidence: d.Confidence,
			Label:      typeName,
		})
	}

	// Stored fixed-point with four decimals; round here so the response and
	// the row agree.
	meanConfidence := math.Round(confidenceSum/float64(len(rawDetections))*10000) / 10000

	annotated, err := annotate.Render(frame, annotateBoxes)
	if err != nil {
		return detection.DetectionResponse{}, detection.ErrInvalidFrame
	}

	stamp := detectedAt.Format("20060102_150405")
	originalKey := fmt.Sprintf("detections/original/camera_%d_%s_%s_original.jpg", camera.ID, typeName, stamp)
	annotatedKey := fmt.Sprintf("detections/annotated/camera_%d_%s_%s_annotated.jpg", camera.ID, typeName, stamp)

	originalURL, err := s.s3.UploadBytes(originalKey, frame, "image/jpeg")
	if err != nil {
		return detection.DetectionResponse{}, detection.ErrArtifactUpload
	}

	annotatedURL, err := s.s3.UploadBytes(annotatedKey, annotated, "image/jpeg")
	if err != nil {
		return detection.DetectionResponse{}, detection.ErrArtifactUpload
	}

	typeULID, err := s.utils.NewULIDFromTimestamp(detectedAt)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	detectionType, err := repo.DetectionType.EnsureDetectionType(ctx, entity.DetectionType{
		ID:   typeULID,
		Name: typeName,
	})
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	boxesJSON, err := jsoniter.Marshal(boxes)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	ULID, err := s.utils.NewULIDFromTimestamp(detectedAt)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	d := entity.Detection{
		ID:                ULID,
		CameraID:          camera.ID,
		DetectionTypeID:   detectionType.ID,
		DetectionTypeName: detectionType.Name,
		Confidence:        meanConfidence,
		BoundingBoxes:     boxesJSON,
		OriginalImageURL:  originalURL,
		AnnotatedImageURL: annotatedURL,
		DetectedAt:        detectedAt,
	}

	if err := repo.Detection.CreateDetection(ctx, d); err != nil {
		return detection.DetectionResponse{}, err
	}

	s.eventBus.PublishDetectionCreated(event.DetectionCreated{
		DetectionID:   d.ID,
		CameraID:      camera.ID,
		ProjectID:     projectID,
		DetectionType: typeName,
		Confidence:    meanConfidence,
	})

	return makeDetectionResponse(d), nil
}

func makeDetectionResponse(d entity.Detection) detection.DetectionResponse {
	var boxes []entity.BoundingBox
	if len(d.BoundingBoxes) > 0 {
		_ = jsoniter.Unmarshal(d.BoundingBoxes, &boxes)
	}

	resp := detection.DetectionResponse{
		ID:                d.ID,
		CameraID:          d.CameraID,
		DetectionType:     d.DetectionTypeName,
		Confidence:        d.Confidence,
		BoundingBoxes:     boxes,
		OriginalImageURL:  d.OriginalImageURL,
		AnnotatedImageURL: d.AnnotatedImageURL,
		FalsePositive:     d.FalsePositive,
		ReviewNotes:       d.ReviewNotes.String,
		ReviewedBy:        d.ReviewedBy.String,
		DetectedAt:        d.DetectedAt.Format(time.RFC3339),
	}

	if d.ReviewedAt.Valid {
		resp.ReviewedAt = d.ReviewedAt.Time.Format(time.RFC3339)
	}

	return resp
}

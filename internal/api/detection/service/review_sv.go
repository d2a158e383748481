package detectionService

import (
	"FarmWatch/internal/api/detection"
	detectionRepository "FarmWatch/internal/api/detection/repository"
	contextPkg "FarmWatch/pkg/context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *detectionService) GetDetection(ctx context.Context, userID string, detectionID string) (detection.DetectionResponse, error) {
	repo, err := s.detectionRepository.NewClient(false)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	d, err := repo.Detection.GetDetectionByID(ctx, detectionID)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	if err := s.authorizeForCamera(ctx, userID, d.CameraID); err != nil {
		return detection.DetectionResponse{}, err
	}

	return makeDetectionResponse(d), nil
}

func (s *detectionService) GetHistory(ctx context.Context, userID string, query detection.HistoryQuery) ([]detection.DetectionResponse, error) {
	projectRepo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := projectRepo.Member.GetMember(ctx, query.ProjectID, userID); err != nil {
		return nil, err
	}

	repo, err := s.detectionRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	detections, err := repo.Detection.GetDetectionHistory(ctx, detectionRepository.HistoryFilter{
		ProjectID:     query.ProjectID,
		CameraID:      query.CameraID,
		DetectionType: query.DetectionType,
		From:          query.From,
		To:            query.To,
		Limit:         query.Limit,
		Offset:        query.Offset,
	})
	if err != nil {
		return nil, err
	}

	result := make([]detection.DetectionResponse, 0, len(detections))
	for _, d := range detections {
		result = append(result, makeDetectionResponse(d))
	}

	return result, nil
}

// Review flips the false-positive flag and records who reviewed the
// detection. The model output itself (confidence, boxes, artifacts) is never
// rewritten.
func (s *detectionService) Review(ctx context.Context, userID string, detectionID string, req detection.ReviewRequest) (detection.DetectionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.detectionRepository.NewClient(false)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	d, err := repo.Detection.GetDetectionByID(ctx, detectionID)
	if err != nil {
		return detection.DetectionResponse{}, err
	}

	if err := s.authorizeForCamera(ctx, userID, d.CameraID); err != nil {
		return detection.DetectionResponse{}, err
	}

	d.FalsePositive = *req.FalsePositive
	d.ReviewNotes = sql.NullString{String: req.Notes, Valid: req.Notes != ""}
	d.ReviewedBy = sql.NullString{String: userID, Valid: true}
	d.ReviewedAt = sql.NullTime{Time: time.Now(), Valid: true}

	if err := repo.Detection.UpdateDetectionReview(ctx, d); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"detection_id": detectionID,
			"error":        err.Error(),
		}).Error("Failed to update detection review")
		return detection.DetectionResponse{}, err
	}

	return makeDetectionResponse(d), nil
}

func (s *detectionService) authorizeForCamera(ctx context.Context, userID string, cameraID int64) error {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return err
	}

	projectID, err := repo.Camera.GetProjectIDByCameraID(ctx, cameraID)
	if err != nil {
		return err
	}

	_, err = repo.Member.GetMember(ctx, projectID, userID)
	return err
}

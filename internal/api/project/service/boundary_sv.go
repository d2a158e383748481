package projectService

import (
	"FarmWatch/internal/api/project"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"FarmWatch/pkg/geo"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *projectService) CreateBoundary(ctx context.Context, userID string, projectID string, req project.CreateBoundaryRequest) (project.BoundaryResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	mp, err := geo.ParseMultiPolygon(req.Geometry)
	if err != nil {
		var geomErr *geo.GeometryError
		if errors.As(err, &geomErr) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"reason":     geomErr.Reason,
			}).Warn("Rejected boundary geometry")
			return project.BoundaryResponse{}, project.ErrInvalidGeometry
		}
		return project.BoundaryResponse{}, err
	}

	repo, err := s.projectRepository.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return project.BoundaryResponse{}, err
	}
	defer repo.Rollback()

	member, err := repo.Member.GetMember(ctx, projectID, userID)
	if err != nil {
		return project.BoundaryResponse{}, err
	}
	if member.Role != entity.RoleOwner {
		return project.BoundaryResponse{}, project.ErrNotProjectOwner
	}

	// Serializes with other boundary writes on the same project so two
	// overlapping boundaries cannot slip in concurrently.
	if err := repo.Project.LockProject(ctx, projectID); err != nil {
		return project.BoundaryResponse{}, err
	}

	existing, err := repo.Boundary.GetBoundariesByProjectID(ctx, projectID)
	if err != nil {
		return project.BoundaryResponse{}, err
	}

	// Only active siblings constrain the new geometry; a deactivated boundary
	// no longer claims its land.
	var overlapping []string
	for _, other := range existing {
		if !other.Active {
			continue
		}

		otherMP, err := geo.ParseMultiPolygon(other.Geometry)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"boundary_id": other.ID,
				"error":       err.Error(),
			}).Error("Stored boundary geometry failed to parse")
			return project.BoundaryResponse{}, err
		}

		if geo.Intersects(mp, otherMP) {
			overlapping = append(overlapping, other.ID)
		}
	}

	if len(overlapping) > 0 {
		s.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"project_id":   projectID,
			"boundary_ids": overlapping,
		}).Warn("Boundary overlaps existing boundaries")
		return project.BoundaryResponse{}, project.BoundaryOverlapError(overlapping)
	}

	area, err := geo.AreaHectares(mp)
	if err != nil {
		return project.BoundaryResponse{}, project.ErrInvalidGeometry
	}

	ULID, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return project.BoundaryResponse{}, err
	}

	boundary := entity.FarmBoundary{
		ID:           ULID,
		ProjectID:    projectID,
		Name:         req.Name,
		Geometry:     req.Geometry,
		AreaHectares: area,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := repo.Boundary.CreateBoundary(ctx, boundary); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create farm boundary")
		return project.BoundaryResponse{}, err
	}

	if err := repo.Commit(); err != nil {
		return project.BoundaryResponse{}, err
	}

	return s.makeBoundaryResponse(boundary), nil
}

func (s *projectService) GetBoundary(ctx context.Context, userID string, boundaryID string) (project.BoundaryResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return project.BoundaryResponse{}, err
	}

	boundary, err := repo.Boundary.GetBoundaryByID(ctx, boundaryID)
	if err != nil {
		return project.BoundaryResponse{}, err
	}

	if _, err := repo.Member.GetMember(ctx, boundary.ProjectID, userID); err != nil {
		return project.BoundaryResponse{}, err
	}

	return s.makeBoundaryResponse(boundary), nil
}

func (s *projectService) ListBoundaries(ctx context.Context, userID string, projectID string) ([]project.BoundaryResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Member.GetMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	boundaries, err := repo.Boundary.GetBoundariesByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := make([]project.BoundaryResponse, 0, len(boundaries))
	for _, boundary := range boundaries {
		result = append(result, s.makeBoundaryResponse(boundary))
	}

	return result, nil
}

func (s *projectService) DeleteBoundary(ctx context.Context, userID string, boundaryID string) error {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return err
	}

	boundary, err := repo.Boundary.GetBoundaryByID(ctx, boundaryID)
	if err != nil {
		return err
	}

	member, err := repo.Member.GetMember(ctx, boundary.ProjectID, userID)
	if err != nil {
		return err
	}
	if member.Role != entity.RoleOwner {
		return project.ErrNotProjectOwner
	}

	return repo.Boundary.DeleteBoundary(ctx, boundaryID)
}

func (s *projectService) makeBoundaryResponse(boundary entity.FarmBoundary) project.BoundaryResponse {
	return project.BoundaryResponse{
		ID:           boundary.ID,
		ProjectID:    boundary.ProjectID,
		Name:         boundary.Name,
		Geometry:     jsoniter.RawMessage(boundary.Geometry),
		AreaHectares: boundary.AreaHectares,
		Active:       boundary.Active,
		CreatedAt:    boundary.CreatedAt.Format(time.RFC3339),
	}
}

package projectService

import (
	"FarmWatch/internal/api/project"
	projectRepository "FarmWatch/internal/api/project/repository"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"FarmWatch/pkg/geo"
	"database/sql"
	"errors"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	heartbeatTTL      = 10 * time.Minute
	heartbeatStaleAge = 2 * time.Minute
	heartbeatDeadAge  = 10 * time.Minute
)

func (s *projectService) CreateCamera(ctx context.Context, userID string, boundaryID string, req project.CreateCameraRequest) (project.CameraResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create new client")
		return project.CameraResponse{}, err
	}

	boundary, err := repo.Boundary.GetBoundaryByID(ctx, boundaryID)
	if err != nil {
		return project.CameraResponse{}, err
	}

	member, err := repo.Member.GetMember(ctx, boundary.ProjectID, userID)
	if err != nil {
		return project.CameraResponse{}, err
	}
	if member.Role != entity.RoleOwner {
		return project.CameraResponse{}, project.ErrNotProjectOwner
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return project.CameraResponse{}, project.ErrIncompleteLocation
	}

	camera := entity.Camera{
		BoundaryID: boundaryID,
		Name:       req.Name,
		CameraType: entity.CameraType(req.CameraType),
		Active:     true,
	}
	if req.Latitude != nil {
		camera.Latitude = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
		camera.Longitude = sql.NullFloat64{Float64: *req.Longitude, Valid: true}
	}

	switch camera.CameraType {
	case entity.CameraStationary:
		if req.IPAddress == "" || req.Port == 0 {
			return project.CameraResponse{}, project.ErrMissingCameraAddress
		}
		camera.IPAddress = sql.NullString{String: req.IPAddress, Valid: true}
		camera.Port = sql.NullInt64{Int64: int64(req.Port), Valid: true}

		if _, err := repo.Camera.GetCameraByAddress(ctx, req.IPAddress, int64(req.Port)); err == nil {
			return project.CameraResponse{}, project.ErrCameraAddressInUse
		} else if !errors.Is(err, project.ErrCameraNotFound) {
			return project.CameraResponse{}, err
		}
	case entity.CameraCellular:
		if req.CellularID == "" {
			return project.CameraResponse{}, project.ErrMissingCellularID
		}
		camera.CellularID = sql.NullString{String: req.CellularID, Valid: true}

		if _, err := repo.Camera.GetCameraByCellularID(ctx, req.CellularID); err == nil {
			return project.CameraResponse{}, project.ErrCellularIDInUse
		} else if !errors.Is(err, project.ErrCameraNotFound) {
			return project.CameraResponse{}, err
		}
	}

	// Containment only applies to cameras that declare a position.
	if camera.Latitude.Valid {
		mp, err := geo.ParseMultiPolygon(boundary.Geometry)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"boundary_id": boundaryID,
				"error":       err.Error(),
			}).Error("Stored boundary geometry failed to parse")
			return project.CameraResponse{}, err
		}

		if !geo.Contains(mp, orb.Point{camera.Longitude.Float64, camera.Latitude.Float64}) {
			s.log.WithFields(logrus.Fields{
				"request_id":  requestID,
				"boundary_id": boundaryID,
				"latitude":    camera.Latitude.Float64,
				"longitude":   camera.Longitude.Float64,
			}).Warn("Camera position outside boundary")
			return project.CameraResponse{}, project.ErrCameraOutsideBoundary
		}
	}

	id, err := repo.Camera.CreateCamera(ctx, camera)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create camera")
		return project.CameraResponse{}, err
	}

	camera.ID = id
	camera.CreatedAt = time.Now()

	return s.makeCameraResponse(camera), nil
}

func (s *projectService) GetCamera(ctx context.Context, userID string, cameraID int64) (project.CameraResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return project.CameraResponse{}, err
	}

	camera, err := repo.Camera.GetCameraByID(ctx, cameraID)
	if err != nil {
		return project.CameraResponse{}, err
	}

	projectID, err := repo.Camera.GetProjectIDByCameraID(ctx, cameraID)
	if err != nil {
		return project.CameraResponse{}, err
	}

	if _, err := repo.Member.GetMember(ctx, projectID, userID); err != nil {
		return project.CameraResponse{}, err
	}

	return s.makeCameraResponse(camera), nil
}

func (s *projectService) ListCameras(ctx context.Context, userID string, projectID string) ([]project.CameraResponse, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	if _, err := repo.Member.GetMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	cameras, err := repo.Camera.GetCamerasByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := make([]project.CameraResponse, 0, len(cameras))
	for _, camera := range cameras {
		result = append(result, s.makeCameraResponse(camera))
	}

	return result, nil
}

func (s *projectService) DeleteCamera(ctx context.Context, userID string, cameraID int64) error {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return err
	}

	projectID, err := repo.Camera.GetProjectIDByCameraID(ctx, cameraID)
	if err != nil {
		return err
	}

	member, err := repo.Member.GetMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if member.Role != entity.RoleOwner {
		return project.ErrNotProjectOwner
	}

	return repo.Camera.DeleteCamera(ctx, cameraID)
}

// ResolveCamera finds a camera by id first, then by ip:port, then by cellular
// id. The first identifier present wins; later ones are ignored.
func (s *projectService) ResolveCamera(ctx context.Context, cameraID int64, ipAddress string, port int64, cellularID string) (entity.Camera, error) {
	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return entity.Camera{}, err
	}

	return s.resolveCamera(ctx, repo, cameraID, ipAddress, port, cellularID)
}

func (s *projectService) resolveCamera(ctx context.Context, repo projectRepository.Client, cameraID int64, ipAddress string, port int64, cellularID string) (entity.Camera, error) {
	if cameraID > 0 {
		return repo.Camera.GetCameraByID(ctx, cameraID)
	}
	if ipAddress != "" && port > 0 {
		return repo.Camera.GetCameraByAddress(ctx, ipAddress, port)
	}
	if cellularID != "" {
		return repo.Camera.GetCameraByCellularID(ctx, cellularID)
	}
	return entity.Camera{}, project.ErrCameraNotFound
}

func (s *projectService) Heartbeat(ctx context.Context, req project.HeartbeatRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.projectRepository.NewClient(false)
	if err != nil {
		return err
	}

	camera, err := s.resolveCamera(ctx, repo, req.CameraID, req.IPAddress, int64(req.Port), req.CellularID)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := repo.Camera.UpdateCameraHeartbeat(ctx, camera.ID, now); err != nil {
		return err
	}

	// Cached copy keeps health checks off the database; the row remains the
	// source of truth.
	if err := s.redisServer.SetCameraHeartbeat(ctx, camera.ID, now, heartbeatTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"camera_id":  camera.ID,
			"error":      err.Error(),
		}).Warn("Failed to cache camera heartbeat")
	}

	return nil
}

func (s *projectService) cameraHealth(camera entity.Camera) entity.CameraHealth {
	if !camera.LastHeartbeatAt.Valid {
		return entity.CameraOffline
	}

	age := time.Since(camera.LastHeartbeatAt.Time)
	switch {
	case age <= heartbeatStaleAge:
		return entity.CameraOnline
	case age <= heartbeatDeadAge:
		return entity.CameraStale
	default:
		return entity.CameraOffline
	}
}

func (s *projectService) makeCameraResponse(camera entity.Camera) project.CameraResponse {
	resp := project.CameraResponse{
		ID:         camera.ID,
		BoundaryID: camera.BoundaryID,
		Name:       camera.Name,
		CameraType: string(camera.CameraType),
		IPAddress:  camera.IPAddress.String,
		Port:       camera.Port.Int64,
		CellularID: camera.CellularID.String,
		Active:     camera.Active,
		Health:     string(s.cameraHealth(camera)),
		CreatedAt:  camera.CreatedAt.Format(time.RFC3339),
	}

	if camera.Latitude.Valid && camera.Longitude.Valid {
		lat, lon := camera.Latitude.Float64, camera.Longitude.Float64
		resp.Latitude = &lat
		resp.Longitude = &lon
	}

	if camera.LastHeartbeatAt.Valid {
		resp.LastHeartbeatAt = camera.LastHeartbeatAt.Time.Format(time.RFC3339)
	}

	return resp
}

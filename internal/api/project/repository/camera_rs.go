package projectRepository

import (
	"FarmWatch/internal/api/project"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type CameraDB struct {
	ID              int64           `db:"id"`
	BoundaryID      sql.NullString  `db:"boundary_id"`
	Name            sql.NullString  `db:"name"`
	CameraType      sql.NullString  `db:"camera_type"`
	IPAddress       sql.NullString  `db:"ip_address"`
	Port            sql.NullInt64   `db:"port"`
	CellularID      sql.NullString  `db:"cellular_id"`
	Latitude        sql.NullFloat64 `db:"latitude"`
	Longitude       sql.NullFloat64 `db:"longitude"`
	Active          bool            `db:"active"`
	LastHeartbeatAt sql.NullTime    `db:"last_heartbeat_at"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

func (r *cameraRepository) CreateCamera(c context.Context, camera entity.Camera) (int64, error) {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"boundary_id": camera.BoundaryID,
		"name":        camera.Name,
		"camera_type": camera.CameraType,
		"ip_address":  camera.IPAddress,
		"port":        camera.Port,
		"cellular_id": camera.CellularID,
		"latitude":    camera.Latitude,
		"longitude":   camera.Longitude,
		"active":      camera.Active,
		"created_at":  time.Now(),
		"updated_at":  time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateCamera, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateCamera named query preparation err")
		return 0, err
	}
	query = r.q.Rebind(query)

	var id int64
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&id); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating camera")
		return 0, err
	}

	return id, nil
}

func (r *cameraRepository) GetCameraByID(c context.Context, id int64) (entity.Camera, error) {
	return r.getCamera(c, queryGetCameraByID, map[string]interface{}{"id": id})
}

func (r *cameraRepository) GetCameraByAddress(c context.Context, ipAddress string, port int64) (entity.Camera, error) {
	return r.getCamera(c, queryGetCameraByAddress, map[string]interface{}{
		"ip_address": ipAddress,
		"port":       port,
	})
}

func (r *cameraRepository) GetCameraByCellularID(c context.Context, cellularID string) (entity.Camera, error) {
	return r.getCamera(c, queryGetCameraByCellularID, map[string]interface{}{"cellular_id": cellularID})
}

func (r *cameraRepository) getCamera(c context.Context, namedQuery string, argsKV map[string]interface{}) (entity.Camera, error) {
	requestID := contextPkg.GetRequestID(c)
	var camera CameraDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("getCamera named query preparation err")
		return entity.Camera{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&camera); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Camera{}, project.ErrCameraNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("getCamera execution err")
		return entity.Camera{}, err
	}

	return r.makeCamera(camera), nil
}

func (r *cameraRepository) GetCamerasByBoundaryID(c context.Context, boundaryID string) ([]entity.Camera, error) {
	return r.listCameras(c, queryGetCamerasByBoundaryID, map[string]interface{}{"boundary_id": boundaryID})
}

func (r *cameraRepository) GetCamerasByProjectID(c context.Context, projectID string) ([]entity.Camera, error) {
	return r.listCameras(c, queryGetCamerasByProjectID, map[string]interface{}{"project_id": projectID})
}

func (r *cameraRepository) listCameras(c context.Context, namedQuery string, argsKV map[string]interface{}) ([]entity.Camera, error) {
	requestID := contextPkg.GetRequestID(c)
	var cameras []CameraDB

	query, args, err := sqlx.Named(namedQuery, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("listCameras named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &cameras, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("listCameras execution err")
		return nil, err
	}

	result := make([]entity.Camera, 0, len(cameras))
	for _, camera := range cameras {
		result = append(result, r.makeCamera(camera))
	}

	return result, nil
}

func (r *cameraRepository) GetProjectIDByCameraID(c context.Context, cameraID int64) (string, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetProjectIDByCameraID, map[string]interface{}{"id": cameraID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectIDByCameraID named query preparation err")
		return "", err
	}

	query = r.q.Rebind(query)

	var projectID string
	if err := r.q.QueryRowxContext(c, query, args...).Scan(&projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", project.ErrCameraNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetProjectIDByCameraID execution err")
		return "", err
	}

	return projectID, nil
}

func (r *cameraRepository) UpdateCameraHeartbeat(c context.Context, id int64, at time.Time) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":                id,
		"last_heartbeat_at": at,
		"updated_at":        time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateCameraHeartbeat, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCameraHeartbeat named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateCameraHeartbeat execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrCameraNotFound
	}

	return nil
}

func (r *cameraRepository) SetCameraActive(c context.Context, id int64, active bool) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":         id,
		"active":     active,
		"updated_at": time.Now(),
	}

	query, args, err := sqlx.Named(querySetCameraActive, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetCameraActive named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("SetCameraActive execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrCameraNotFound
	}

	return nil
}

func (r *cameraRepository) DeleteCamera(c context.Context, id int64) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteCamera, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCamera named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteCamera execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrCameraNotFound
	}

	return nil
}

func (r *cameraRepository) makeCamera(camera CameraDB) entity.Camera {
	return entity.Camera{
		ID:              camera.ID,
		BoundaryID:      camera.BoundaryID.String,
		Name:            camera.Name.String,
		CameraType:      entity.CameraType(camera.CameraType.String),
		IPAddress:       camera.IPAddress,
		Port:            camera.Port,
		CellularID:      camera.CellularID,
		Latitude:        camera.Latitude,
		Longitude:       camera.Longitude,
		Active:          camera.Active,
		LastHeartbeatAt: camera.LastHeartbeatAt,
		CreatedAt:       camera.CreatedAt,
		UpdatedAt:       camera.UpdatedAt,
	}
}

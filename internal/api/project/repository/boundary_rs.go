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

type FarmBoundaryDB struct {
	ID           sql.NullString  `db:"id"`
	ProjectID    sql.NullString  `db:"project_id"`
	Name         sql.NullString  `db:"name"`
	Geometry     []byte          `db:"geometry"`
	AreaHectares sql.NullFloat64 `db:"area_hectares"`
	Active       bool            `db:"active"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r *boundaryRepository) CreateBoundary(c context.Context, boundary entity.FarmBoundary) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            boundary.ID,
		"project_id":    boundary.ProjectID,
		"name":          boundary.Name,
		"geometry":      boundary.Geometry,
		"area_hectares": boundary.AreaHectares,
		"active":        boundary.Active,
		"created_at":    time.Now(),
		"updated_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateBoundary, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateBoundary named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating farm boundary")
		return err
	}

	return nil
}

func (r *boundaryRepository) GetBoundaryByID(c context.Context, id string) (entity.FarmBoundary, error) {
	requestID := contextPkg.GetRequestID(c)
	var boundary FarmBoundaryDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetBoundaryByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBoundaryByID named query preparation err")
		return entity.FarmBoundary{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&boundary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.FarmBoundary{}, project.ErrBoundaryNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBoundaryByID execution err")
		return entity.FarmBoundary{}, err
	}

	return r.makeBoundary(boundary), nil
}

func (r *boundaryRepository) GetBoundariesByProjectID(c context.Context, projectID string) ([]entity.FarmBoundary, error) {
	requestID := contextPkg.GetRequestID(c)
	var boundaries []FarmBoundaryDB

	argsKV := map[string]interface{}{
		"project_id": projectID,
	}

	query, args, err := sqlx.Named(queryGetBoundariesByProjectID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBoundariesByProjectID named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &boundaries, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetBoundariesByProjectID execution err")
		return nil, err
	}

	result := make([]entity.FarmBoundary, 0, len(boundaries))
	for _, boundary := range boundaries {
		result = append(result, r.makeBoundary(boundary))
	}

	return result, nil
}

func (r *boundaryRepository) DeleteBoundary(c context.Context, id string) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryDeleteBoundary, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteBoundary named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteBoundary execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return project.ErrBoundaryNotFound
	}

	return nil
}

func (r *boundaryRepository) makeBoundary(boundary FarmBoundaryDB) entity.FarmBoundary {
	return entity.FarmBoundary{
		ID:           boundary.ID.String,
		ProjectID:    boundary.ProjectID.String,
		Name:         boundary.Name.String,
		Geometry:     boundary.Geometry,
		AreaHectares: boundary.AreaHectares.Float64,
		Active:       boundary.Active,
		CreatedAt:    boundary.CreatedAt,
		UpdatedAt:    boundary.UpdatedAt,
	}
}

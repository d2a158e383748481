package detectionRepository

import (
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DetectionTypeDB struct {
	ID          sql.NullString `db:"id"`
	Name        sql.NullString `db:"name"`
	Description sql.NullString `db:"description"`
}

// EnsureDetectionType returns the row for the named type, creating it if this
// is the first detection of its kind.
func (r *detectionTypeRepository) EnsureDetectionType(c context.Context, detectionType entity.DetectionType) (entity.DetectionType, error) {
	requestID := contextPkg.GetRequestID(c)

	existing, err := r.getByName(c, detectionType.Name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.DetectionType{}, err
	}

	argsKV := map[string]interface{}{
		"id":          detectionType.ID,
		"name":        detectionType.Name,
		"description": detectionType.Description,
	}

	query, args, err := sqlx.Named(queryCreateDetectionType, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("EnsureDetectionType named query preparation err")
		return entity.DetectionType{}, err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating detection type")
		return entity.DetectionType{}, err
	}

	// Re-read so a concurrent insert that won the ON CONFLICT race still
	// yields the canonical row.
	return r.getByName(c, detectionType.Name)
}

func (r *detectionTypeRepository) getByName(c context.Context, name string) (entity.DetectionType, error) {
	var detectionType DetectionTypeDB

	argsKV := map[string]interface{}{
		"name": name,
	}

	query, args, err := sqlx.Named(queryGetDetectionTypeByName, argsKV)
	if err != nil {
		return entity.DetectionType{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&detectionType); err != nil {
		return entity.DetectionType{}, err
	}

	return entity.DetectionType{
		ID:          detectionType.ID.String,
		Name:        detectionType.Name.String,
		Description: detectionType.Description.String,
	}, nil
}

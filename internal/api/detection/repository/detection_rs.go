package detectionRepository

import (
	"FarmWatch/internal/api/detection"
	"FarmWatch/internal/entity"
	contextPkg "FarmWatch/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DetectionDB struct {
	ID                sql.NullString  `db:"id"`
	CameraID          int64           `db:"camera_id"`
	DetectionTypeID   sql.NullString  `db:"detection_type_id"`
	DetectionTypeName sql.NullString  `db:"detection_type_name"`
	Confidence        sql.NullFloat64 `db:"confidence"`
	BoundingBoxes     []byte          `db:"bounding_boxes"`
	OriginalImageURL  sql.NullString  `db:"original_image_url"`
	AnnotatedImageURL sql.NullString  `db:"annotated_image_url"`
	FalsePositive     bool            `db:"false_positive"`
	ReviewNotes       sql.NullString  `db:"review_notes"`
	ReviewedBy        sql.NullString  `db:"reviewed_by"`
	ReviewedAt        sql.NullTime    `db:"reviewed_at"`
	DetectedAt        time.Time       `db:"detected_at"`
	CreatedAt         time.Time       `db:"created_at"`
}

func (r *detectionRepository) CreateDetection(c context.Context, d entity.Detection) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":                  d.ID,
		"camera_id":           d.CameraID,
		"detection_type_id":   d.DetectionTypeID,
		"confidence":          d.Confidence,
		"bounding_boxes":      d.BoundingBoxes,
		"original_image_url":  d.OriginalImageURL,
		"annotated_image_url": d.AnnotatedImageURL,
		"false_positive":      d.FalsePositive,
		"detected_at":         d.DetectedAt,
		"created_at":          time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateDetection, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateDetection named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating detection")
		return err
	}

	return nil
}

func (r *detectionRepository) GetDetectionByID(c context.Context, id string) (entity.Detection, error) {
	requestID := contextPkg.GetRequestID(c)
	var d DetectionDB

	argsKV := map[string]interface{}{
		"id": id,
	}

	query, args, err := sqlx.Named(queryGetDetectionByID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionByID named query preparation err")
		return entity.Detection{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Detection{}, detection.ErrDetectionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionByID execution err")
		return entity.Detection{}, err
	}

	return r.makeDetection(d), nil
}

func (r *detectionRepository) GetDetectionHistory(c context.Context, filter HistoryFilter) ([]entity.Detection, error) {
	requestID := contextPkg.GetRequestID(c)
	var detections []DetectionDB

	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	argsKV := map[string]interface{}{
		"project_id":     filter.ProjectID,
		"camera_id":      filter.CameraID,
		"detection_type": filter.DetectionType,
		"from":           filter.From,
		"to":             filter.To,
		"limit":          filter.Limit,
		"offset":         filter.Offset,
	}

	query, args, err := sqlx.Named(queryGetDetectionHistory, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionHistory named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.SelectContext(c, &detections, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetDetectionHistory execution err")
		return nil, err
	}

	result := make([]entity.Detection, 0, len(detections))
	for _, d := range detections {
		result = append(result, r.makeDetection(d))
	}

	return result, nil
}

func (r *detectionRepository) UpdateDetectionReview(c context.Context, d entity.Detection) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":             d.ID,
		"false_positive": d.FalsePositive,
		"review_notes":   d.ReviewNotes,
		"reviewed_by":    d.ReviewedBy,
		"reviewed_at":    d.ReviewedAt,
	}

	query, args, err := sqlx.Named(queryUpdateDetectionReview, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateDetectionReview named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpdateDetectionReview execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return detection.ErrDetectionNotFound
	}

	return nil
}

func (r *detectionRepository) makeDetection(d DetectionDB) entity.Detection {
	return entity.Detection{
		ID:                d.ID.String,
		CameraID:          d.CameraID,
		DetectionTypeID:   d.DetectionTypeID.String,
		DetectionTypeName: d.DetectionTypeName.String,
		Confidence:        d.Confidence.Float64,
		BoundingBoxes:     d.BoundingBoxes,
		OriginalImageURL:  d.OriginalImageURL.String,
		AnnotatedImageURL: d.AnnotatedImageURL.String,
		FalsePositive:     d.FalsePositive,
		ReviewNotes:       d.ReviewNotes,
		ReviewedBy:        d.ReviewedBy,
		ReviewedAt:        d.ReviewedAt,
		DetectedAt:        d.DetectedAt,
		CreatedAt:         d.CreatedAt,
	}
}

package entity

import (
	"database/sql"
	"time"
)

const (
	DetectionFire   = "fire"
	DetectionSmoke  = "smoke"
	DetectionPerson = "person"
)

type DetectionType struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

// BoundingBox is one detected region in frame pixel coordinates, stored with
// the detection as a JSON array.
type BoundingBox struct {
	X1         float64 `json:"x1"`
	Y1         float64 `json:"y1"`
	X2         float64 `json:"x2"`
	Y2         float64 `json:"y2"`
	Confidence float64 `json:"confidence"`
}

type Detection struct {
	ID                string         `db:"id"`
	CameraID          int64          `db:"camera_id"`
	DetectionTypeID   string         `db:"detection_type_id"`
	DetectionTypeName string         `db:"detection_type_name"`
	Confidence        float64        `db:"confidence"`
	BoundingBoxes     []byte         `db:"bounding_boxes"`
	OriginalImageURL  string         `db:"original_image_url"`
	AnnotatedImageURL string         `db:"annotated_image_url"`
	FalsePositive     bool           `db:"false_positive"`
	ReviewNotes       sql.NullString `db:"review_notes"`
	ReviewedBy        sql.NullString `db:"reviewed_by"`
	ReviewedAt        sql.NullTime   `db:"reviewed_at"`
	DetectedAt        time.Time      `db:"detected_at"`
	CreatedAt         time.Time      `db:"created_at"`
}

package detection

import "FarmWatch/internal/entity"

type IngestFrameRequest struct {
	CameraID   int64  `json:"camera_id"`
	IPAddress  string `json:"ip_address"`
	Port       int64  `json:"port"`
	CellularID string `json:"cellular_id"`
	Frame      []byte `json:"-"`
}

type DetectionResponse struct {
	ID                string               `json:"id"`
	CameraID          int64                `json:"camera_id"`
	DetectionType     string               `json:"detection_type"`
	Confidence        float64              `json:"confidence"`
	BoundingBoxes     []entity.BoundingBox `json:"bounding_boxes"`
	OriginalImageURL  string               `json:"original_image_url"`
	AnnotatedImageURL string               `json:"annotated_image_url"`
	FalsePositive     bool                 `json:"false_positive"`
	ReviewNotes       string               `json:"review_notes,omitempty"`
	ReviewedBy        string               `json:"reviewed_by,omitempty"`
	ReviewedAt        string               `json:"reviewed_at,omitempty"`
	DetectedAt        string               `json:"detected_at"`
}

type IngestResponse struct {
	Success                bool                `json:"success"`
	CameraID               int64               `json:"camera_id"`
	CameraType             string              `json:"camera_type"`
	Detections             []DetectionResponse `json:"detections"`
	DetectionsCreated      []string            `json:"detections_created"`
	FireSmokeDetected      bool                `json:"fire_smoke_detected"`
	PersonDetectionSkipped bool                `json:"person_detection_skipped"`
	Degraded               bool                `json:"degraded"`
	Message                string              `json:"message"`
}

type ReviewRequest struct {
	FalsePositive *bool  `json:"false_positive" validate:"required"`
	Notes         string `json:"notes" validate:"max=1000"`
}

type HistoryQuery struct {
	ProjectID     string
	CameraID      int64
	DetectionType string
	From          string
	To            string
	Limit         int
	Offset        int
}

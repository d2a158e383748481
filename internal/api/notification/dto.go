package notification

type NotificationResponse struct {
	ID          string `json:"id"`
	DetectionID string `json:"detection_id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Read        bool   `json:"read"`
	ReadAt      string `json:"read_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type ListNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// RealtimePayload is the message pushed over the websocket when a detection
// produces a notification for the user.
type RealtimePayload struct {
	NotificationID string  `json:"notification_id"`
	DetectionID    string  `json:"detection_id"`
	ProjectID      string  `json:"project_id"`
	CameraID       int64   `json:"camera_id"`
	DetectionType  string  `json:"detection_type"`
	Confidence     float64 `json:"confidence"`
	Title          string  `json:"title"`
	Body           string  `json:"body"`
}

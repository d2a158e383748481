package entity

import (
	"database/sql"
	"time"
)

type Notification struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	DetectionID string       `db:"detection_id"`
	Title       string       `db:"title"`
	Body        string       `db:"body"`
	Read        bool         `db:"read"`
	ReadAt      sql.NullTime `db:"read_at"`
	CreatedAt   time.Time    `db:"created_at"`
}

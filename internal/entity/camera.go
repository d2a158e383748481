package entity

import (
	"database/sql"
	"time"
)

type CameraType string

const (
	CameraStationary CameraType = "STATIONARY"
	CameraCellular   CameraType = "CELLULAR"
)

// Camera is a registered frame source. Stationary cameras are addressed by
// ip:port; cellular cameras carry a device identifier instead.
type Camera struct {
	ID              int64           `db:"id"`
	BoundaryID      string          `db:"boundary_id"`
	Name            string          `db:"name"`
	CameraType      CameraType      `db:"camera_type"`
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

type CameraHealth string

const (
	CameraOnline  CameraHealth = "ONLINE"
	CameraStale   CameraHealth = "STALE"
	CameraOffline CameraHealth = "OFFLINE"
)

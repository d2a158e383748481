package entity

import (
	"database/sql"
	"time"
)

type Project struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	AccessCode  string    `db:"access_code"`
	Description string    `db:"description"`
	OwnerID     string    `db:"owner_id"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type ProjectRole string

const (
	RoleOwner  ProjectRole = "OWNER"
	RoleMember ProjectRole = "MEMBER"
)

type ProjectMember struct {
	ID             string         `db:"id"`
	ProjectID      string         `db:"project_id"`
	UserID         string         `db:"user_id"`
	Role           ProjectRole    `db:"role"`
	AccessCodeUsed sql.NullString `db:"access_code_used"`
	Active         bool           `db:"active"`
	CreatedAt      time.Time      `db:"created_at"`
}

// FarmBoundary is a monitored land parcel. Geometry is stored as GeoJSON
// (Polygon or MultiPolygon) in WGS84; the area is precomputed in hectares.
type FarmBoundary struct {
	ID           string    `db:"id"`
	ProjectID    string    `db:"project_id"`
	Name         string    `db:"name"`
	Geometry     []byte    `db:"geometry"`
	AreaHectares float64   `db:"area_hectares"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

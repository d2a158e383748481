package project

import jsoniter "github.com/json-iterator/go"

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	AccessCode  string `json:"access_code,omitempty"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"owner_id"`
	Active      bool   `json:"active"`
	Role        string `json:"role,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type JoinProjectRequest struct {
	AccessCode string `json:"access_code" validate:"required,len=12"`
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

type CreateBoundaryRequest struct {
	Name     string              `json:"name" validate:"required,min=2,max=100"`
	Geometry jsoniter.RawMessage `json:"geometry" validate:"required"`
}

type BoundaryResponse struct {
	ID           string              `json:"id"`
	ProjectID    string              `json:"project_id"`
	Name         string              `json:"name"`
	Geometry     jsoniter.RawMessage `json:"geometry"`
	AreaHectares float64             `json:"area_hectares"`
	Active       bool                `json:"active"`
	CreatedAt    string              `json:"created_at"`
}

// Location is optional; when both coordinates are present the camera must sit
// inside its boundary.
type CreateCameraRequest struct {
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	CameraType string   `json:"camera_type" validate:"required,oneof=STATIONARY CELLULAR"`
	IPAddress  string   `json:"ip_address" validate:"omitempty,ip"`
	Port       int      `json:"port" validate:"omitempty,min=1,max=65535"`
	CellularID string   `json:"cellular_id" validate:"omitempty,max=100"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type CameraResponse struct {
	ID              int64    `json:"id"`
	BoundaryID      string   `json:"boundary_id"`
	Name            string   `json:"name"`
	CameraType      string   `json:"camera_type"`
	IPAddress       string   `json:"ip_address,omitempty"`
	Port            int64    `json:"port,omitempty"`
	CellularID      string   `json:"cellular_id,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Active          bool     `json:"active"`
	Health          string   `json:"health"`
	LastHeartbeatAt string   `json:"last_heartbeat_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type HeartbeatRequest struct {
	CameraID   int64  `json:"camera_id"`
	IPAddress  string `json:"ip_address"`
	Port       int    `json:"port"`
	CellularID string `json:"cellular_id"`
}

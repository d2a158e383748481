package project

import (
	"FarmWatch/pkg/response"
	"fmt"
	"strings"
)

var (
	ErrProjectNotFound       = response.NewError(404, "project not found")
	ErrProjectNameTaken      = response.NewError(409, "a project with this name already exists for this owner")
	ErrNotProjectMember      = response.NewError(403, "user is not a member of this project")
	ErrNotProjectOwner       = response.NewError(403, "only the project owner can perform this action")
	ErrInvalidAccessCode     = response.NewError(404, "invalid access code")
	ErrAlreadyProjectMember  = response.NewError(409, "user is already a member of this project")
	ErrBoundaryNotFound      = response.NewError(404, "farm boundary not found")
	ErrInvalidGeometry       = response.NewError(400, "invalid boundary geometry")
	ErrBoundaryOverlap       = response.NewError(409, "boundary overlaps an existing boundary in this project")
	ErrCameraNotFound        = response.NewError(404, "camera not found")
	ErrCameraOutsideBoundary = response.NewError(400, "camera position is outside the farm boundary")
	ErrCameraAddressInUse    = response.NewError(409, "a camera with this ip and port already exists")
	ErrCellularIDInUse       = response.NewError(409, "a camera with this cellular id already exists")
	ErrMissingCameraAddress  = response.NewError(400, "stationary cameras require an ip address and port")
	ErrMissingCellularID     = response.NewError(400, "cellular cameras require a cellular id")
	ErrIncompleteLocation    = response.NewError(400, "latitude and longitude must be provided together")
)

// BoundaryOverlapError carries the ids of every conflicting boundary. It
// matches ErrBoundaryOverlap under errors.Is.
func BoundaryOverlapError(ids []string) error {
	return &response.Error{
		Code: 409,
		Err:  fmt.Errorf("%w: %s", ErrBoundaryOverlap, strings.Join(ids, ", ")),
	}
}

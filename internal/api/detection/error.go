package detection

import "FarmWatch/pkg/response"

var (
	ErrDetectionNotFound          = response.NewError(404, "detection not found")
	ErrCameraNotResolvable        = response.NewError(404, "no camera matches the provided identifiers")
	ErrMissingCameraIdentifier    = response.NewError(400, "a camera identifier is required")
	ErrAmbiguousCameraIdentifiers = response.NewError(400, "exactly one camera identifier may be provided")
	ErrCameraInactive             = response.NewError(409, "camera is inactive")
	ErrInvalidFrame               = response.NewError(400, "frame is not a decodable image")
	ErrMissingFrame               = response.NewError(400, "frame file is required")
	ErrArtifactUpload             = response.NewError(500, "failed to store detection artifacts")
)

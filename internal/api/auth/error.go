package auth

import "FarmWatch/pkg/response"

var (
	ErrUserNotFound           = response.NewError(404, "user not found")
	ErrEmailAlreadyInUse      = response.NewError(409, "email already in use")
	ErrInvalidEmailOrPassword = response.NewError(400, "invalid email or password")
	ErrInvalidRefreshToken    = response.NewError(401, "invalid refresh token")
	ErrRefreshTokenExpired    = response.NewError(401, "refresh token expired")
	ErrDeviceTokenNotFound    = response.NewError(404, "device token not found")
)

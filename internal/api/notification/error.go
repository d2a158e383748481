package notification

import "FarmWatch/pkg/response"

var (
	ErrNotificationNotFound = response.NewError(404, "notification not found")
	ErrNotificationNotOwned = response.NewError(403, "notification does not belong to user")
)

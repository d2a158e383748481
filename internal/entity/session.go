package entity

import "time"

type Session struct {
	ID           string
	UserID       string
	RefreshToken string
	CreatedAt    string
	ExpiresAt    time.Time
}

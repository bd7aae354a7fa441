package model

import "time"

// Session describes the stored access token as read from its claims.
type Session struct {
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// TokenInspector reads claims from an access token without verifying its signature.
type TokenInspector interface {
	Inspect(token string) (Session, error)
}

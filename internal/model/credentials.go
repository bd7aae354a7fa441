package model

import "context"

// Credentials is the access/refresh token pair of the current session.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether no session is stored.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// TokenStore holds the credentials shared by every API call.
// Get, Set and Clear are atomic with respect to each other: a Get that starts
// after a Set returns observes both new tokens.
type TokenStore interface {
	Get(ctx context.Context) (Credentials, error)
	Set(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

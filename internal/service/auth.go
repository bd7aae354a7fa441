package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/tourdesk/internal/endpoint"
	"github.com/dtroode/tourdesk/internal/logger"
	"github.com/dtroode/tourdesk/internal/model"
)

var errMissingTokens = errors.New("auth response carries no access token")

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Auth signs the user in and out and manages the profile of the signed-in account.
type Auth struct {
	api       API
	store     model.TokenStore
	inspector model.TokenInspector
	notifier  model.Notifier
	logger    *logger.Logger
}

func NewAuth(
	api API,
	store model.TokenStore,
	inspector model.TokenInspector,
	notifier model.Notifier,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		api:       api,
		store:     store,
		inspector: inspector,
		notifier:  notifier,
		logger:    logger,
	}
}

// Login exchanges email and password for a session and stores its tokens.
func (a *Auth) Login(ctx context.Context, req model.LoginRequest) (*model.Envelope[model.User], error) {
	a.logger.Debug("Auth service: signing in",
		"email", req.Email)

	return a.authenticate(ctx, endpoint.AuthLogin, req, "Signed in")
}

// Register creates an account. The server signs the new user in right away.
func (a *Auth) Register(ctx context.Context, req model.RegisterRequest) (*model.Envelope[model.User], error) {
	a.logger.Debug("Auth service: registering",
		"email", req.Email)

	return a.authenticate(ctx, endpoint.AuthRegister, req, "Account created")
}

func (a *Auth) authenticate(ctx context.Context, path string, body any, done string) (*model.Envelope[model.User], error) {
	env, err := decode[model.AuthResult](a.api.Post(ctx, path, body))
	if err != nil {
		return nil, err
	}

	out := &model.Envelope[model.User]{
		Success: env.Success,
		Message: env.Message,
		Status:  env.Status,
	}
	if !env.Success {
		a.logger.Info("Auth service: authentication rejected",
			"path", path,
			"status", env.Status)
		return out, nil
	}

	if env.Data.AccessToken == "" {
		return nil, errMissingTokens
	}

	err = a.store.Set(ctx, model.Credentials{
		AccessToken:  env.Data.AccessToken,
		RefreshToken: env.Data.RefreshToken,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to store credentials",
			"error", err.Error())
		return nil, fmt.Errorf("failed to store credentials: %w", err)
	}

	out.Data = env.Data.User
	a.logger.Info("Auth service: signed in",
		"user_id", out.Data.ID)
	notifyInfo(ctx, a.notifier, done)

	return out, nil
}

// Logout revokes the session on the server and always clears the local tokens.
// A failed server call is logged and not returned.
func (a *Auth) Logout(ctx context.Context) error {
	creds, err := a.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	if !creds.Empty() {
		env, err := a.api.Post(ctx, endpoint.AuthLogout, logoutRequest{RefreshToken: creds.RefreshToken})
		switch {
		case err != nil:
			a.logger.Warn("Auth service: logout call failed",
				"error", err.Error())
		case !env.Success:
			a.logger.Warn("Auth service: logout rejected",
				"status", env.Status)
		}
	}

	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	a.logger.Info("Auth service: signed out")
	notifyInfo(ctx, a.notifier, "Signed out")
	return nil
}

// Profile returns the signed-in user.
func (a *Auth) Profile(ctx context.Context) (*model.Envelope[model.User], error) {
	return decode[model.User](a.api.Get(ctx, endpoint.Profile))
}

// UpdateProfile changes the fields set in upd.
func (a *Auth) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.Envelope[model.User], error) {
	env, err := decode[model.User](a.api.Patch(ctx, endpoint.Profile, upd))
	if err != nil {
		return nil, err
	}
	if env.Success {
		notifyInfo(ctx, a.notifier, "Profile updated")
	}
	return env, nil
}

// UploadAvatar replaces the profile picture.
func (a *Auth) UploadAvatar(ctx context.Context, file model.File) (*model.Envelope[model.UploadedImage], error) {
	env, err := decode[model.UploadedImage](a.api.Upload(ctx, endpoint.ProfileAvatar, file, nil))
	if err != nil {
		return nil, err
	}
	if env.Success {
		notifyInfo(ctx, a.notifier, "Avatar updated")
	}
	return env, nil
}

// Session describes the stored access token without calling the server.
func (a *Auth) Session(ctx context.Context) (model.Session, error) {
	creds, err := a.store.Get(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to read credentials: %w", err)
	}
	if creds.AccessToken == "" {
		return model.Session{}, model.ErrNotAuthenticated
	}

	session, err := a.inspector.Inspect(creds.AccessToken)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to inspect access token: %w", err)
	}
	return session, nil
}

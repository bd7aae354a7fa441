package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dtroode/tourdesk/internal/endpoint"
	"github.com/dtroode/tourdesk/internal/model"
)

const refreshKey = "refresh"

var errMalformedRefresh = errors.New("refresh response carries no access token")

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// renew returns an access token to retry with after stale was rejected.
// Concurrent callers share a single refresh. The refresh does not inherit the
// caller's cancellation so that one cancelled caller does not fail the others.
// A caller that joins a flight started before stale was issued may get stale
// back; it then starts one more flight of its own.
func (c *Client) renew(ctx context.Context, stale string) (string, error) {
	token, err := c.joinRefresh(ctx, stale)
	if err != nil || token != stale {
		return token, err
	}

	c.logger.Debug("joined refresh returned the rejected token, refreshing again")
	return c.joinRefresh(ctx, stale)
}

func (c *Client) joinRefresh(ctx context.Context, stale string) (string, error) {
	ch := c.refreshes.DoChan(refreshKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	creds, err := c.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}

	// Another call renewed the session after our request went out.
	if creds.AccessToken != "" && creds.AccessToken != stale {
		c.logger.Debug("access token already renewed, retrying with stored token")
		return creds.AccessToken, nil
	}

	if creds.RefreshToken == "" {
		return "", c.expire(ctx, &model.SessionError{Err: model.ErrNoRefreshToken})
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: creds.RefreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to marshal refresh request: %w", err)
	}

	r := &request{
		method:   http.MethodPost,
		endpoint: endpoint.AuthRefresh,
		body:     body,
		headers:  make(http.Header),
		id:       c.newID(),
	}

	// The refresh call authenticates with the refresh token only.
	resp, err := c.send(ctx, r, "")
	if err != nil {
		return "", c.expire(ctx, &model.SessionError{Err: err})
	}

	if !isSuccess(resp.status) {
		env, _ := normalize(resp)
		serr := &model.SessionError{Status: resp.status}
		if env != nil {
			serr.Message = env.Message
		}
		return "", c.expire(ctx, serr)
	}

	pair, err := parseTokenPair(resp)
	if err != nil {
		return "", c.expire(ctx, &model.SessionError{Status: resp.status, Err: err})
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = creds.RefreshToken
	}

	if err := c.store.Set(ctx, model.Credentials{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}); err != nil {
		return "", c.expire(ctx, &model.SessionError{Err: fmt.Errorf("failed to store credentials: %w", err)})
	}

	c.logger.Info("access token refreshed", "request_id", r.id)
	return pair.AccessToken, nil
}

// parseTokenPair accepts both an envelope with the pair under data and a bare pair.
func parseTokenPair(resp *response) (tokenPair, error) {
	env, err := normalize(resp)
	if err != nil {
		return tokenPair{}, err
	}
	if !env.Success {
		return tokenPair{}, errMalformedRefresh
	}

	var pair tokenPair
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &pair); err != nil {
			return tokenPair{}, fmt.Errorf("failed to decode refresh response: %w", err)
		}
	}
	if pair.AccessToken == "" {
		// Envelope without data: the pair may sit next to the success flag.
		if err := json.Unmarshal(resp.body, &pair); err != nil || pair.AccessToken == "" {
			return tokenPair{}, errMalformedRefresh
		}
	}
	return pair, nil
}

// expire clears the stored credentials and returns serr.
func (c *Client) expire(ctx context.Context, serr *model.SessionError) error {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Error("failed to clear credentials", "error", err.Error())
	}
	c.logger.Warn("session expired, credentials cleared", "reason", serr.Error())
	return serr
}

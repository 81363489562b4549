package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Login exchanges credentials for a bearer token and an optimistic identity.
// The identity in the response is what the session manager seeds before its
// reconciliation fetch confirms it.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", req, &out, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return nil, errors.New("api: login response missing token")
	}
	out.User.ApplyDefaults()
	return &out, nil
}

// Register creates an account. The backend decides whether registration
// implies login; callers must not assume a session exists afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Identity, error) {
	var out envelope[Identity]
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", req, &out, nil); err != nil {
		return nil, err
	}
	out.Data.ApplyDefaults()
	return &out.Data, nil
}

package api

import (
	"context"
	"errors"
	"net/http"
)

// GetProfile fetches the authoritative identity for the current token.
// A previously seen ETag can be passed to let the backend answer 304; both
// 304 and 401 are reported through [ProfileResult.Kind], never as errors,
// so callers are forced to handle all three outcomes.
func (c *Client) GetProfile(ctx context.Context, etag string) (ProfileResult, error) {
	var header http.Header
	if etag != "" {
		header = http.Header{"If-None-Match": []string{etag}}
	}

	var out envelope[Identity]
	respHeader, err := c.do(ctx, http.MethodGet, "/user/profile", nil, &out, header)
	switch {
	case errors.Is(err, ErrNotModified):
		return ProfileResult{Kind: ProfileNotModified, ETag: etag}, nil
	case errors.Is(err, ErrUnauthorized):
		return ProfileResult{Kind: ProfileUnauthorized}, nil
	case err != nil:
		return ProfileResult{}, err
	}

	out.Data.ApplyDefaults()
	return ProfileResult{
		Kind:     ProfileOK,
		Identity: &out.Data,
		ETag:     respHeader.Get("ETag"),
	}, nil
}

// UpdateProfile submits profile changes and returns the identity the backend
// actually persisted. Callers must adopt the response instead of assuming
// the submitted fields were stored verbatim.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Identity, error) {
	var out envelope[Identity]
	if _, err := c.do(ctx, http.MethodPut, "/user/profile", req, &out, nil); err != nil {
		return nil, err
	}
	out.Data.ApplyDefaults()
	return &out.Data, nil
}

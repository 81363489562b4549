package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultTimeout = 15 * time.Second

// Config wires a [Client]. BaseURL is the only required field.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Tokens supplies the bearer token attached to every request.
	// A nil source sends unauthenticated requests.
	Tokens TokenSource

	// HTTPClient overrides the underlying client; its transport is wrapped
	// by the interceptor. Leave nil for a default client.
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// Client talks to the tailoring backend. Safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api: base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("api: base URL must be http or https")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	} else {
		cp := *hc
		hc = &cp
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.Timeout
	}
	if hc.Timeout == 0 {
		hc.Timeout = defaultTimeout
	}

	inner := hc.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	hc.Transport = &authTransport{
		base:   inner,
		tokens: cfg.Tokens,
		log:    cfg.Logger,
	}

	return &Client{
		base: base,
		http: hc,
		log:  cfg.Logger,
	}, nil
}

// do issues a JSON request and decodes a JSON body into out (when non-nil).
// 401 maps to ErrUnauthorized, 304 to ErrNotModified, and any other non-2xx
// to *APIError. The response header set is returned for callers that need
// ETag or pagination metadata.
func (c *Client) do(ctx context.Context, method, path string, body, out any, header http.Header) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("api: invalid path %q: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return resp.Header, ErrNotModified
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.Header, ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return resp.Header, &APIError{
			Status:  resp.StatusCode,
			Path:    path,
			Message: readAPIMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
	}

	return resp.Header, nil
}

// readAPIMessage pulls the backend's `message` field out of an error body.
// Bodies that are not JSON objects are ignored.
func readAPIMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 8<<10)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

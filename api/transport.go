package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the current bearer token for outgoing requests.
// The session manager implements it over token storage; UI components never
// hand tokens to the client directly.
type TokenSource interface {
	Token() (string, bool)
}

// StaticToken is a fixed-token [TokenSource] for tools and tests.
type StaticToken string

// Token implements [TokenSource].
func (s StaticToken) Token() (string, bool) {
	return string(s), s != ""
}

// authTransport is the shared request interceptor. Every request leaving the
// client gets an Authorization header (when a token exists), an X-Request-ID,
// and a structured log line with method, path, status, and duration.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	log    zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Per net/http contract the request must not be mutated in place.
	out := req.Clone(req.Context())
	out.Header.Set("X-Request-ID", uuid.NewString())
	if t.tokens != nil {
		if token, ok := t.tokens.Token(); ok {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(out)
	elapsed := time.Since(start)

	event := t.log.Debug().
		Str("method", out.Method).
		Str("path", out.URL.Path).
		Dur("elapsed", elapsed)
	if err != nil {
		event.Err(err).Msg("request failed")
		return nil, err
	}
	event.Int("status", resp.StatusCode).Msg("request")

	return resp, nil
}

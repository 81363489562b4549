// Package api is the typed REST client for the tailoring backend.
//
// The backend owns every authoritative decision (pricing, payment capture,
// order state transitions, credential checks). This package only shapes
// requests and responses: it attaches the bearer token and a request ID to
// every outgoing call, applies field defaults at the deserialization
// boundary, and maps HTTP failures onto a small error taxonomy
// ([ErrUnauthorized], [ErrNotModified], [*APIError]).
//
// # What this package must NOT do
//
//   - Cache responses or throttle calls (the session manager owns that).
//   - Write token or profile storage (the session manager owns that too).
//   - Retry, since callers decide whether stale state is acceptable.
package api

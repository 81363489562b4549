// Package token reads the unsigned, client-visible claims out of a bearer
// token for UX decisions: expiry (so a dead session never renders a logged-in
// shell) and role (so inaccessible screens never flash).
//
// The client never verifies signatures; the backend is the only authority on
// token validity. Nothing in this package is a security boundary.
package token

package api

import "strings"

// Identity is the authenticated user's profile as the client knows it.
// Every field the UI reads has a named slot here; defaults are applied once
// at the deserialization boundary instead of at each consumer.
type Identity struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

// Roles the backend issues. The client never treats these as a security
// boundary; they only steer which screens are rendered.
const (
	RoleCustomer = "user"
	RoleTailor   = "tailor"
	RoleAdmin    = "admin"
)

// ApplyDefaults normalizes an identity decoded from a backend payload.
// Missing role defaults to customer; identifiers are trimmed.
func (id *Identity) ApplyDefaults() {
	id.ID = strings.TrimSpace(id.ID)
	id.Username = strings.TrimSpace(id.Username)
	id.Email = strings.TrimSpace(id.Email)
	id.Role = strings.TrimSpace(id.Role)
	if id.Role == "" {
		id.Role = RoleCustomer
	}
}

// Clone returns a copy so callers can hand identities across goroutines
// without sharing the original.
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

// envelope is the backend's standard `{ "data": ... }` response wrapper.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the optimistic identity the
// backend returns alongside it.
type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// UpdateProfileRequest is the payload for PUT /user/profile. The response,
// not this struct, is the new source of truth for the identity.
type UpdateProfileRequest struct {
	Username       string `json:"username,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// ProfileResultKind discriminates the three non-error outcomes of a profile
// fetch.
type ProfileResultKind uint8

const (
	// ProfileOK means a fresh identity was returned.
	ProfileOK ProfileResultKind = iota
	// ProfileNotModified means the cached identity is still current (HTTP 304).
	ProfileNotModified
	// ProfileUnauthorized means the session is invalid server-side (HTTP 401).
	ProfileUnauthorized
)

// ProfileResult is returned by [Client.GetProfile]. Identity is nil unless
// Kind is ProfileOK. ETag, when present, should be echoed on the next fetch.
type ProfileResult struct {
	Kind     ProfileResultKind
	Identity *Identity
	ETag     string
}

// Order is an opaque CRUD record; state transitions happen server-side.
type Order struct {
	ID           string  `json:"_id"`
	UserID       string  `json:"userId"`
	ServiceID    string  `json:"serviceId"`
	Status       string  `json:"status"`
	Measurements string  `json:"measurements,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	Price        float64 `json:"price"`
	CreatedAt    string  `json:"createdAt"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	ServiceID    string `json:"serviceId"`
	Measurements string `json:"measurements,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Service is a catalog entry for a tailoring service.
type Service struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

// CheckoutRequest starts a payment for an order. All payment logic is
// server-side; the client only forwards the order reference.
type CheckoutRequest struct {
	OrderID string `json:"orderId"`
}

// CheckoutResponse carries the redirect URL of the hosted payment page.
type CheckoutResponse struct {
	PaymentID string `json:"paymentId"`
	URL       string `json:"url"`
}

// Post is a blog entry.
type Post struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// UserSummary is the admin-facing listing row for GET /users.
type UserSummary struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

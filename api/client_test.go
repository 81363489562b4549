package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, tokens TokenSource, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL, Tokens: tokens})
	require.NoError(t, err)
	return client
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	cases := []string{"", "   ", "://broken", "ftp://example.com"}
	for _, baseURL := range cases {
		_, err := New(Config{BaseURL: baseURL})
		assert.Error(t, err, "base URL %q", baseURL)
	}
}

func TestTransportAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, StaticToken("tok-123"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(map[string]any{"data": Identity{ID: "u-1"}})
	}))

	_, err := client.GetProfile(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request carries an X-Request-ID")
}

func TestTransportOmitsBearerWithoutToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, StaticToken(""), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": Identity{}})
	}))

	_, err := client.GetProfile(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestGetProfileOK(t *testing.T) {
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v2"`)
		json.NewEncoder(w).Encode(map[string]any{"data": Identity{
			ID:       " u-1 ",
			Username: "ada",
			Email:    "ada@example.com",
		}})
	}))

	res, err := client.GetProfile(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, ProfileOK, res.Kind)
	require.NotNil(t, res.Identity)
	assert.Equal(t, "u-1", res.Identity.ID, "identifiers are trimmed at the boundary")
	assert.Equal(t, RoleCustomer, res.Identity.Role, "missing role defaults to customer")
	assert.Equal(t, `"v2"`, res.ETag)
}

func TestGetProfileNotModified(t *testing.T) {
	var gotIfNoneMatch string
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIfNoneMatch = r.Header.Get("If-None-Match")
		w.WriteHeader(http.StatusNotModified)
	}))

	res, err := client.GetProfile(context.Background(), `"v1"`)
	require.NoError(t, err, "304 is an outcome, not an error")

	assert.Equal(t, ProfileNotModified, res.Kind)
	assert.Nil(t, res.Identity)
	assert.Equal(t, `"v1"`, gotIfNoneMatch)
	assert.Equal(t, `"v1"`, res.ETag, "the known ETag stays valid")
}

func TestGetProfileUnauthorized(t *testing.T) {
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
	}))

	res, err := client.GetProfile(context.Background(), "")
	require.NoError(t, err, "401 is an outcome, not an error")
	assert.Equal(t, ProfileUnauthorized, res.Kind)
	assert.Nil(t, res.Identity)
}

func TestAPIErrorCarriesBackendMessage(t *testing.T) {
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"order not found"}`, http.StatusNotFound)
	}))

	_, err := client.ListOrders(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "/orders", apiErr.Path)
	assert.Contains(t, apiErr.Error(), "order not found")
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(&APIError{Status: 401}))
	assert.False(t, IsUnauthorized(&APIError{Status: 500}))
	assert.False(t, IsUnauthorized(nil))
}

func TestLoginRejectsMissingToken(t *testing.T) {
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token": "", "user": Identity{ID: "u-1"}})
	}))

	_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing token")
}

func TestLoginAppliesIdentityDefaults(t *testing.T) {
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  Identity{ID: "u-1", Username: "ada"},
		})
	}))

	res, err := client.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, RoleCustomer, res.User.Role)
}

func TestUpdateOrderStatusPath(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"data": Order{ID: "o-1", Status: "stitching"}})
	}))

	order, err := client.UpdateOrderStatus(context.Background(), "o-1", "stitching")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/orders/o-1/status", gotPath)
	assert.Equal(t, "stitching", order.Status)
}

func TestCreateCheckoutReturnsRedirectURL(t *testing.T) {
	client := newTestClient(t, nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CheckoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "o-1", req.OrderID)
		json.NewEncoder(w).Encode(map[string]any{"data": CheckoutResponse{
			PaymentID: "p-1",
			URL:       "https://pay.example.com/p-1",
		}})
	}))

	res, err := client.CreateCheckout(context.Background(), CheckoutRequest{OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/p-1", res.URL)
}

func TestIdentityClone(t *testing.T) {
	original := &Identity{ID: "u-1", Username: "ada"}
	clone := original.Clone()

	require.NotSame(t, original, clone)
	clone.Username = "changed"
	assert.Equal(t, "ada", original.Username)

	var nilIdentity *Identity
	assert.Nil(t, nilIdentity.Clone())
}

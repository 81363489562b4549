package api

import (
	"context"
	"net/http"
	"net/url"
)

// Storefront CRUD collaborators. These are deliberately thin: the session
// core only guarantees that requests carry the current bearer token, and
// the backend owns every rule about what the caller may actually do.

// ListServices returns the public tailoring catalog.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var out envelope[[]Service]
	if _, err := c.do(ctx, http.MethodGet, "/services", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListOrders returns the caller's orders; admins and tailors see the full
// back-office list, which the backend decides from the token.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var out envelope[[]Order]
	if _, err := c.do(ctx, http.MethodGet, "/orders", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateOrder places an order for a catalog service.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out envelope[Order]
	if _, err := c.do(ctx, http.MethodPost, "/orders", req, &out, nil); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateOrderStatus is the tailor/admin back-office transition request.
// The backend validates the transition; this call only forwards it.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) (*Order, error) {
	var out envelope[Order]
	path := "/orders/" + url.PathEscape(orderID) + "/status"
	body := map[string]string{"status": status}
	if _, err := c.do(ctx, http.MethodPatch, path, body, &out, nil); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// CreateCheckout starts a hosted payment flow for an order and returns the
// page to send the user to.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var out envelope[CheckoutResponse]
	if _, err := c.do(ctx, http.MethodPost, "/payments/checkout", req, &out, nil); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListPosts returns published blog posts.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var out envelope[[]Post]
	if _, err := c.do(ctx, http.MethodGet, "/blog", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetPost returns a single blog post.
func (c *Client) GetPost(ctx context.Context, postID string) (*Post, error) {
	var out envelope[Post]
	if _, err := c.do(ctx, http.MethodGet, "/blog/"+url.PathEscape(postID), nil, &out, nil); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListUsers is the admin user directory.
func (c *Client) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var out envelope[[]UserSummary]
	if _, err := c.do(ctx, http.MethodGet, "/users", nil, &out, nil); err != nil {
		return nil, err
	}
	return out.Data, nil
}

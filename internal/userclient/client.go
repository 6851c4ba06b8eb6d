// Package userclient wraps the user and authentication endpoints of the
// remote API.
package userclient

import (
	"context"
	"fmt"

	"bookreview/internal/api"
	"bookreview/pkg/domain"
)

// Client calls the user endpoints through the gateway.
type Client struct {
	api *api.Client
}

// New constructs a user client over the shared gateway.
func New(gw *api.Client) *Client {
	return &Client{api: gw}
}

// Login exchanges credentials for a bearer token and identity fields.
// The caller is responsible for handing the result to the session
// manager; this client holds no state.
func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var res domain.LoginResult
	if err := c.api.Post(ctx, "/users/login", payload, &res); err != nil {
		return domain.LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.User, error) {
	var user domain.User
	if err := c.api.Post(ctx, "/users/create", req, &user); err != nil {
		return domain.User{}, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.api.Get(ctx, "/users/me", &user); err != nil {
		return domain.User{}, fmt.Errorf("get current user: %w", err)
	}
	return user, nil
}

func (c *Client) Get(ctx context.Context, id int) (domain.User, error) {
	var user domain.User
	if err := c.api.Get(ctx, fmt.Sprintf("/users/%d", id), &user); err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (c *Client) Update(ctx context.Context, id int, upd domain.UserUpdate) (domain.User, error) {
	var user domain.User
	if err := c.api.Put(ctx, fmt.Sprintf("/users/%d", id), upd, &user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (c *Client) Stats(ctx context.Context, id int) (domain.UserStats, error) {
	var stats domain.UserStats
	if err := c.api.Get(ctx, fmt.Sprintf("/users/%d/stats", id), &stats); err != nil {
		return domain.UserStats{}, fmt.Errorf("get user stats: %w", err)
	}
	return stats, nil
}

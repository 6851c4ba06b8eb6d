// Package reviewclient wraps the review endpoints of the remote API.
package reviewclient

import (
	"context"
	"fmt"

	"bookreview/internal/api"
	"bookreview/pkg/domain"
)

// Client calls the review endpoints through the gateway.
type Client struct {
	api *api.Client
}

// New constructs a review client over the shared gateway.
func New(gw *api.Client) *Client {
	return &Client{api: gw}
}

func (c *Client) Get(ctx context.Context, id int) (domain.Review, error) {
	var review domain.Review
	if err := c.api.Get(ctx, fmt.Sprintf("/reviews/%d", id), &review); err != nil {
		return domain.Review{}, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (c *Client) ListByBook(ctx context.Context, bookID, skip, limit int) ([]domain.Review, error) {
	var reviews []domain.Review
	path := fmt.Sprintf("/reviews/book/%d?skip=%d&limit=%d", bookID, skip, limit)
	if err := c.api.Get(ctx, path, &reviews); err != nil {
		return nil, fmt.Errorf("list book reviews: %w", err)
	}
	return reviews, nil
}

// Create posts a new review for a book. The reviewer identity is the
// authenticated identity derived from the token; no user ID travels in
// the request.
func (c *Client) Create(ctx context.Context, bookID int, draft domain.ReviewDraft) (domain.Review, error) {
	var review domain.Review
	path := fmt.Sprintf("/reviews/create?book_id=%d", bookID)
	if err := c.api.Post(ctx, path, draft, &review); err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (c *Client) Update(ctx context.Context, id int, draft domain.ReviewDraft) (domain.Review, error) {
	var review domain.Review
	if err := c.api.Put(ctx, fmt.Sprintf("/reviews/%d", id), draft, &review); err != nil {
		return domain.Review{}, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/reviews/%d", id)); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// Mine lists the authenticated user's own reviews.
func (c *Client) Mine(ctx context.Context, skip, limit int) ([]domain.Review, error) {
	var reviews []domain.Review
	path := fmt.Sprintf("/reviews/user/my-reviews?skip=%d&limit=%d", skip, limit)
	if err := c.api.Get(ctx, path, &reviews); err != nil {
		return nil, fmt.Errorf("list my reviews: %w", err)
	}
	return reviews, nil
}

func (c *Client) ByUser(ctx context.Context, userID int) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.api.Get(ctx, fmt.Sprintf("/users/%d/reviews", userID), &reviews); err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	return reviews, nil
}

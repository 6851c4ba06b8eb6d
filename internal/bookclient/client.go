// Package bookclient wraps the book endpoints of the remote API. All
// calls go through the authenticated gateway; errors are annotated and
// rethrown, never swallowed.
package bookclient

import (
	"context"
	"fmt"

	"bookreview/internal/api"
	"bookreview/pkg/domain"
)

// Client calls the book endpoints through the gateway.
type Client struct {
	api *api.Client
}

// New constructs a book client over the shared gateway.
func New(gw *api.Client) *Client {
	return &Client{api: gw}
}

func (c *Client) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.api.Get(ctx, "/books", &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Get fetches one book including its nested reviews.
func (c *Client) Get(ctx context.Context, id int) (domain.Book, error) {
	var book domain.Book
	if err := c.api.Get(ctx, fmt.Sprintf("/books/%d", id), &book); err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

func (c *Client) Create(ctx context.Context, draft domain.BookDraft) (domain.Book, error) {
	var book domain.Book
	if err := c.api.Post(ctx, "/books/create", draft, &book); err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

func (c *Client) Update(ctx context.Context, id int, draft domain.BookDraft) (domain.Book, error) {
	var book domain.Book
	if err := c.api.Put(ctx, fmt.Sprintf("/books/%d", id), draft, &book); err != nil {
		return domain.Book{}, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	if err := c.api.Delete(ctx, fmt.Sprintf("/books/%d", id)); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	var genres []domain.Genre
	if err := c.api.Get(ctx, "/books/genres", &genres); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

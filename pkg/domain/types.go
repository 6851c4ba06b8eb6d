package domain

import "time"

// User is the identity record returned by the user endpoints. Bio is
// optional and only present on full profile reads.
type User struct {
	ID       int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Bio      string `json:"bio,omitempty"`
}

type Genre struct {
	ID   int    `json:"genre_id"`
	Name string `json:"genre"`
}

// Book is owned by the remote API; the client only holds the last
// fetched snapshot. Reviews is populated on detail reads.
type Book struct {
	ID            int      `json:"book_id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Description   string   `json:"description"`
	CoverURL      string   `json:"cover_url"`
	PublishedYear int      `json:"published_year"`
	GenreID       int      `json:"genre_id"`
	Genre         *Genre   `json:"genre,omitempty"`
	Reviews       []Review `json:"reviews,omitempty"`
}

type Review struct {
	ID        int       `json:"review_id"`
	BookID    int       `json:"book_id"`
	UserID    int       `json:"user_id"`
	User      *User     `json:"user,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserStats struct {
	ReviewsCount  int     `json:"reviewsCount"`
	AverageRating float64 `json:"averageRating"`
	BooksRead     int     `json:"booksRead"`
}

// LoginResult is the shape of a successful POST /users/login response.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

// ReviewDraft carries the writable review fields for create and update.
type ReviewDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// BookDraft carries the writable book fields for create and update.
type BookDraft struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Description   string `json:"description"`
	CoverURL      string `json:"cover_url"`
	PublishedYear int    `json:"published_year"`
	GenreID       int    `json:"genre_id"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate carries the writable profile fields for PUT /users/{id}.
// Zero-valued fields are omitted so partial updates stay partial.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

package bookclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookreview/internal/api"
	"bookreview/pkg/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	gw := api.New(api.Config{BaseURL: srv.URL})
	return New(gw), srv
}

func TestListAndGet(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		switch r.URL.Path {
		case "/books":
			_ = json.NewEncoder(w).Encode([]domain.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert", PublishedYear: 1965}})
		case "/books/1":
			_ = json.NewEncoder(w).Encode(domain.Book{
				ID: 1, Title: "Dune",
				Genre:   &domain.Genre{ID: 3, Name: "Science Fiction"},
				Reviews: []domain.Review{{ID: 9, BookID: 1, Rating: 5, Title: "Classic"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	books, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Fatalf("unexpected books: %+v", books)
	}

	book, err := client.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if book.Genre == nil || book.Genre.Name != "Science Fiction" {
		t.Fatalf("nested genre missing: %+v", book)
	}
	if len(book.Reviews) != 1 || book.Reviews[0].Rating != 5 {
		t.Fatalf("nested reviews missing: %+v", book.Reviews)
	}
}

func TestCreateUsesCreatePath(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/books/create" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var draft domain.BookDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Errorf("decode draft: %v", err)
		}
		_ = json.NewEncoder(w).Encode(domain.Book{ID: 5, Title: draft.Title, Author: draft.Author})
	}))
	defer srv.Close()

	book, err := client.Create(context.Background(), domain.BookDraft{Title: "Hyperion", Author: "Dan Simmons"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if book.ID != 5 || book.Title != "Hyperion" {
		t.Fatalf("unexpected book: %+v", book)
	}
}

func TestGenres(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books/genres" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]domain.Genre{{ID: 1, Name: "Fantasy"}, {ID: 2, Name: "Mystery"}})
	}))
	defer srv.Close()

	genres, err := client.Genres(context.Background())
	if err != nil {
		t.Fatalf("genres: %v", err)
	}
	if len(genres) != 2 || genres[1].Name != "Mystery" {
		t.Fatalf("unexpected genres: %+v", genres)
	}
}

func TestErrorsAnnotatedNotSwallowed(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "book not found"})
	}))
	defer srv.Close()

	_, err := client.Get(context.Background(), 42)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("remote status lost through wrapping: %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "book not found" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

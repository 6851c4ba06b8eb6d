package userclient

import (
	"context"
	"encoding/json"
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

func TestLoginParsesTokenResponse(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "a@x.com" || creds["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", creds)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "abc",
			"user_id":      1,
			"username":     "amy",
			"email":        "a@x.com",
		})
	}))
	defer srv.Close()

	res, err := client.Login(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken != "abc" || res.UserID != 1 || res.Username != "amy" || res.Email != "a@x.com" {
		t.Fatalf("unexpected login result: %+v", res)
	}
}

func TestRegisterUsesCreatePath(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/create" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(domain.User{ID: 2, Username: "bob", Email: "b@x.com"})
	}))
	defer srv.Close()

	user, err := client.Register(context.Background(), domain.RegisterRequest{Username: "bob", Email: "b@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != 2 || user.Username != "bob" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestMeUpdateAndStats(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/me":
			_ = json.NewEncoder(w).Encode(domain.User{ID: 1, Username: "amy", Email: "a@x.com"})
		case r.Method == http.MethodPut && r.URL.Path == "/users/1":
			var upd domain.UserUpdate
			_ = json.NewDecoder(r.Body).Decode(&upd)
			_ = json.NewEncoder(w).Encode(domain.User{ID: 1, Username: "amy", Email: "a@x.com", Bio: upd.Bio})
		case r.Method == http.MethodGet && r.URL.Path == "/users/1/stats":
			_ = json.NewEncoder(w).Encode(domain.UserStats{ReviewsCount: 12, AverageRating: 4.2, BooksRead: 30})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != 1 {
		t.Fatalf("unexpected me: %+v", me)
	}

	updated, err := client.Update(context.Background(), 1, domain.UserUpdate{Bio: "reader"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != "reader" {
		t.Fatalf("bio not applied: %+v", updated)
	}

	stats, err := client.Stats(context.Background(), 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ReviewsCount != 12 || stats.AverageRating != 4.2 || stats.BooksRead != 30 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

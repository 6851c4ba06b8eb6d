package listview

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"bookreview/internal/api"
	"bookreview/pkg/domain"
)

type fakeBookService struct {
	mu          sync.Mutex
	deleteCalls int
	deleteFn    func(id int) error
}

func (f *fakeBookService) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	f.deleteCalls++
	fn := f.deleteFn
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(id)
}

func seedBooks() []domain.Book {
	return []domain.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert"},
		{ID: 2, Title: "Hyperion", Author: "Dan Simmons"},
	}
}

func TestBookDeleteRequiresConfirmation(t *testing.T) {
	svc := &fakeBookService{}
	list := NewBookList(svc)
	list.Replace(seedBooks())

	if err := list.Delete(context.Background(), 1); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	svc.mu.Lock()
	calls := svc.deleteCalls
	svc.mu.Unlock()
	if calls != 0 {
		t.Fatalf("unconfirmed delete must not issue a network call, got %d", calls)
	}
}

func TestBookDeleteConfirmedRemoves(t *testing.T) {
	svc := &fakeBookService{}
	list := NewBookList(svc)
	list.Replace(seedBooks())

	if err := list.ConfirmDelete(2); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := list.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items := list.Items()
	if len(items) != 1 || items[0].Book.ID != 1 {
		t.Fatalf("unexpected remaining items: %+v", items)
	}
}

func TestBookDeleteFailureKeepsItem(t *testing.T) {
	svc := &fakeBookService{
		deleteFn: func(int) error {
			return &api.APIError{Status: http.StatusInternalServerError, Message: "boom"}
		},
	}
	list := NewBookList(svc)
	list.Replace(seedBooks())

	if err := list.ConfirmDelete(1); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := list.Delete(context.Background(), 1); err == nil {
		t.Fatal("delete should fail")
	}
	items := list.Items()
	if len(items) != 2 {
		t.Fatalf("failed delete must keep the item, got %+v", items)
	}
	if items[0].Phase != Viewing || items[0].Err == nil {
		t.Fatalf("expected Viewing with surfaced error, got %+v", items[0])
	}
}

func TestBookLateDeleteAfterReplaceIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	svc := &fakeBookService{
		deleteFn: func(int) error {
			<-release
			return nil
		},
	}
	list := NewBookList(svc)
	list.Replace(seedBooks())

	if err := list.ConfirmDelete(1); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- list.Delete(context.Background(), 1) }()

	for {
		items := list.Items()
		if len(items) > 0 && items[0].Phase == Deleting {
			break
		}
	}
	list.Replace(seedBooks())
	close(release)

	if err := <-done; err != nil {
		t.Fatalf("late delete must be discarded silently, got %v", err)
	}
	if items := list.Items(); len(items) != 2 {
		t.Fatalf("refreshed list must win over the late delete, got %+v", items)
	}
}

package listview

import (
	"context"
	"sync"

	"bookreview/pkg/domain"
)

// BookService is the slice of the book client the list needs. Book
// create and edit run through a form and are not optimistic, so only
// delete appears here.
type BookService interface {
	Delete(ctx context.Context, id int) error
}

// BookItem is a snapshot of one book's list state.
type BookItem struct {
	Book  domain.Book
	Phase Phase
	Err   error

	confirmed bool
}

// BookList drives confirmed deletion over the books list view. Refresh
// is wholesale: Replace discards local state and late completions.
type BookList struct {
	svc BookService

	mu    sync.Mutex
	gen   uint64
	items []*BookItem
}

// NewBookList builds an empty list over svc.
func NewBookList(svc BookService) *BookList {
	return &BookList{svc: svc}
}

// Replace swaps in a freshly fetched collection and bumps the generation.
func (l *BookList) Replace(books []domain.Book) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.items = make([]*BookItem, 0, len(books))
	for _, b := range books {
		l.items = append(l.items, &BookItem{Book: b})
	}
}

// Items returns a snapshot of the list.
func (l *BookList) Items() []BookItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]BookItem, 0, len(l.items))
	for _, it := range l.items {
		out = append(out, *it)
	}
	return out
}

// ConfirmDelete records the explicit confirmation Delete requires.
func (l *BookList) ConfirmDelete(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	it := l.find(id)
	if it == nil {
		return ErrItemNotFound
	}
	if it.Phase != Viewing {
		return ErrBusy
	}
	it.confirmed = true
	return nil
}

// Delete removes the book on the server, then from the list, with the
// same confirmation and late-result rules as review deletion.
func (l *BookList) Delete(ctx context.Context, id int) error {
	l.mu.Lock()
	it := l.find(id)
	if it == nil {
		l.mu.Unlock()
		return ErrItemNotFound
	}
	if it.Phase != Viewing {
		l.mu.Unlock()
		return ErrBusy
	}
	if !it.confirmed {
		l.mu.Unlock()
		return ErrNotConfirmed
	}
	it.Phase = Deleting
	it.confirmed = false
	gen := l.gen
	l.mu.Unlock()

	err := l.svc.Delete(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return nil
	}
	it = l.find(id)
	if it == nil {
		return nil
	}
	if err != nil {
		it.Phase = Viewing
		it.Err = err
		return err
	}
	l.remove(id)
	return nil
}

func (l *BookList) find(id int) *BookItem {
	for _, it := range l.items {
		if it.Book.ID == id {
			return it
		}
	}
	return nil
}

func (l *BookList) remove(id int) {
	for i, it := range l.items {
		if it.Book.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

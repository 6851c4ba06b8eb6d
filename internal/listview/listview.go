// Package listview holds the page-level state machines for list views
// over server-owned collections. Edits and deletes are optimistic
// against an already-confirmed item; creation is not optimistic and
// lives with the resource clients. Each item moves through a tagged
// phase so illegal transitions (delete while saving, edit while
// deleting) are unrepresentable.
package listview

import (
	"context"
	"errors"
	"sync"

	"bookreview/internal/api"
	"bookreview/pkg/domain"
)

// Phase is the state of one list item.
type Phase int

const (
	Viewing Phase = iota
	Editing
	Saving
	Deleting
)

func (p Phase) String() string {
	switch p {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Deleting:
		return "deleting"
	}
	return "unknown"
}

var (
	// ErrItemNotFound means the item is no longer in the list.
	ErrItemNotFound = errors.New("listview: item not in list")
	// ErrBusy means a mutation for the item is already in flight; the
	// triggering control must stay disabled until it completes.
	ErrBusy = errors.New("listview: mutation in flight")
	// ErrNotEditing means the item has no open edit buffer.
	ErrNotEditing = errors.New("listview: item not in edit mode")
	// ErrNotConfirmed means delete was invoked without the explicit
	// confirmation step; no network call is made.
	ErrNotConfirmed = errors.New("listview: delete not confirmed")
)

// ReviewService is the slice of the review client the list needs.
type ReviewService interface {
	Update(ctx context.Context, id int, draft domain.ReviewDraft) (domain.Review, error)
	Delete(ctx context.Context, id int) error
}

// ReviewItem is a snapshot of one review's list state.
type ReviewItem struct {
	Review domain.Review
	Phase  Phase
	// Draft is the edit buffer; meaningful while Phase is Editing or
	// Saving. A failed save keeps it intact so no input is lost.
	Draft domain.ReviewDraft
	// Err is the last surfaced failure for this item, cleared by the
	// next successful transition.
	Err error

	confirmed bool
}

// ReviewList drives the inline edit machine for a list of reviews.
// Different items mutate independently; within one item at most one
// mutation is in flight. A wholesale Replace bumps the generation so
// any mutation that completes afterwards is silently discarded.
type ReviewList struct {
	svc ReviewService

	mu    sync.Mutex
	gen   uint64
	items []*ReviewItem
}

// NewReviewList builds an empty list over svc.
func NewReviewList(svc ReviewService) *ReviewList {
	return &ReviewList{svc: svc}
}

// Replace swaps in a freshly fetched collection. It does not merge with
// in-flight local mutations: the last network response wins.
func (l *ReviewList) Replace(reviews []domain.Review) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.items = make([]*ReviewItem, 0, len(reviews))
	for _, r := range reviews {
		l.items = append(l.items, &ReviewItem{Review: r})
	}
}

// Items returns a snapshot of the list.
func (l *ReviewList) Items() []ReviewItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ReviewItem, 0, len(l.items))
	for _, it := range l.items {
		out = append(out, *it)
	}
	return out
}

// Item returns a snapshot of one review's state.
func (l *ReviewList) Item(id int) (ReviewItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if it := l.find(id); it != nil {
		return *it, true
	}
	return ReviewItem{}, false
}

// BeginEdit loads the item's current fields into the edit buffer. No
// network call is made.
func (l *ReviewList) BeginEdit(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	it := l.find(id)
	if it == nil {
		return ErrItemNotFound
	}
	if it.Phase != Viewing {
		return ErrBusy
	}
	it.Phase = Editing
	it.Draft = domain.ReviewDraft{
		Title:   it.Review.Title,
		Content: it.Review.Content,
		Rating:  it.Review.Rating,
	}
	it.Err = nil
	return nil
}

// UpdateDraft overwrites the edit buffer with the user's input.
func (l *ReviewList) UpdateDraft(id int, draft domain.ReviewDraft) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	it := l.find(id)
	if it == nil {
		return ErrItemNotFound
	}
	if it.Phase != Editing {
		return ErrNotEditing
	}
	it.Draft = draft
	return nil
}

// CancelEdit discards the edit buffer and returns to Viewing.
func (l *ReviewList) CancelEdit(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	it := l.find(id)
	if it == nil {
		return ErrItemNotFound
	}
	if it.Phase != Editing {
		return ErrNotEditing
	}
	it.Phase = Viewing
	it.Draft = domain.ReviewDraft{}
	return nil
}

// Submit sends the edit buffer to the server. On success the returned
// fields are merged and the item returns to Viewing. On failure the
// item returns to Editing with the buffer intact, except when the
// session itself was rejected, in which case the item reverts to
// Viewing. A result arriving after the list was replaced is discarded.
func (l *ReviewList) Submit(ctx context.Context, id int) error {
	l.mu.Lock()
	it := l.find(id)
	if it == nil {
		l.mu.Unlock()
		return ErrItemNotFound
	}
	if it.Phase != Editing {
		l.mu.Unlock()
		return ErrNotEditing
	}
	it.Phase = Saving
	draft := it.Draft
	gen := l.gen
	l.mu.Unlock()

	updated, err := l.svc.Update(ctx, id, draft)

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
		if api.IsAuthRequired(err) {
			it.Phase = Viewing
			it.Draft = domain.ReviewDraft{}
		} else {
			it.Phase = Editing
		}
		it.Err = err
		return err
	}
	it.Review = updated
	it.Phase = Viewing
	it.Draft = domain.ReviewDraft{}
	it.Err = nil
	return nil
}

// ConfirmDelete records the explicit confirmation Delete requires.
func (l *ReviewList) ConfirmDelete(id int) error {
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

// Delete removes the item on the server, then from the list. Without a
// prior ConfirmDelete it refuses before any network call. On failure
// the item stays in the list in Viewing and must be confirmed again.
func (l *ReviewList) Delete(ctx context.Context, id int) error {
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

func (l *ReviewList) find(id int) *ReviewItem {
	for _, it := range l.items {
		if it.Review.ID == id {
			return it
		}
	}
	return nil
}

func (l *ReviewList) remove(id int) {
	for i, it := range l.items {
		if it.Review.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

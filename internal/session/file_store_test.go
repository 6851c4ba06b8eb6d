package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bookreview/pkg/domain"
)

func TestFileStoreSaveLoadClear(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load on empty store expected ErrNotFound, got %v", err)
	}
	if _, err := store.Token(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("token on empty store expected ErrNotFound, got %v", err)
	}

	rec := Session{
		User:  &domain.User{ID: 1, Username: "amy", Email: "a@x.com"},
		Token: "abc",
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Token != "abc" || got.User == nil || got.User.Username != "amy" {
		t.Fatalf("load returned %+v", got)
	}

	tok, err := store.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok != "abc" {
		t.Fatalf("token copy expected abc, got %q", tok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load after clear expected ErrNotFound, got %v", err)
	}
	if _, err := store.Token(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("token after clear expected ErrNotFound, got %v", err)
	}

	// Clearing an already-empty store is not an error.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStoreClearRemovesBothFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := store.Save(Session{Token: "tok"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, name := range []string{recordFile, tokenFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should be removed after clear", name)
		}
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, recordFile), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write corrupt record: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("load of corrupt record should fail")
	}
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	recordFile = "session.json"
	tokenFile  = "token"
)

// FileStore keeps the session record in a state directory on disk:
// session.json holds the combined {user, token} record and a sibling
// token file holds the raw credential for fallback reads. Writes go
// through a temp file and rename so a crash never leaves a torn record.
type FileStore struct {
	dir string
}

// NewFileStore builds a file-backed credential store rooted at dir,
// creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("session: state dir required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads the combined record. A missing file yields ErrNotFound.
func (s *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, recordFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session record: %w", err)
	}
	var rec Session
	if err := json.Unmarshal(data, &rec); err != nil {
		return Session{}, fmt.Errorf("parse session record: %w", err)
	}
	return rec, nil
}

// Save writes the record and the raw token copy. The record lands first;
// the token copy is best-effort redundancy and never newer than the record.
func (s *FileStore) Save(rec Session) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := s.writeAtomic(recordFile, data); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	if err := s.writeAtomic(tokenFile, []byte(rec.Token)); err != nil {
		return fmt.Errorf("write token copy: %w", err)
	}
	return nil
}

// Clear removes both files. Already-absent files are not an error.
func (s *FileStore) Clear() error {
	for _, name := range []string{recordFile, tokenFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// Token reads the raw fallback credential.
func (s *FileStore) Token() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token copy: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrNotFound
	}
	return tok, nil
}

func (s *FileStore) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(s.dir, name))
}

package xero

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TokenStore persists the single-slot token record.
type TokenStore interface {
	// Load returns the stored token, or (nil, nil) when none exists yet.
	Load() (*TokenSet, error)
	// Save replaces the stored token wholesale.
	Save(token *TokenSet) error
}

// FileTokenStore keeps the token record in one JSON file. Every save
// replaces the full file contents; the write goes through a temp file and
// rename so a crash never leaves a partial record behind.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore builds a store for the given path.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		return nil, errors.New("xero: token file path is required")
	}
	return &FileTokenStore{path: path}, nil
}

// Load reads the persisted token record.
func (s *FileTokenStore) Load() (*TokenSet, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("xero: read token file: %w", err)
	}

	token := &TokenSet{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("xero: decode token file: %w", err)
	}
	return token, nil
}

// Save writes the full token record, overwriting the prior file.
func (s *FileTokenStore) Save(token *TokenSet) error {
	if token == nil {
		return errors.New("xero: token is required")
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("xero: encode token: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "token-*.json")
	if err != nil {
		return fmt.Errorf("xero: create temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("xero: write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("xero: close token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("xero: replace token file: %w", err)
	}
	return nil
}

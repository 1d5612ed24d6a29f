package xero

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTokenStoreMissingFile(t *testing.T) {
	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != nil {
		t.Fatalf("expected nil token for missing file, got %#v", token)
	}
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileTokenStore(path)
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}

	if err := store.Save(NewTokenSet(map[string]any{
		"access_token":  "a",
		"refresh_token": "r",
		"id_token":      "keep",
	})); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected stored token")
	}
	if loaded.AccessToken() != "a" || loaded.RefreshToken() != "r" {
		t.Fatalf("round trip lost fields: %#v", loaded)
	}
}

func TestFileTokenStoreSaveReplacesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store, err := NewFileTokenStore(path)
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}

	if err := store.Save(NewTokenSet(map[string]any{"refresh_token": "first"})); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := store.Save(NewTokenSet(map[string]any{"refresh_token": "second"})); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.RefreshToken() != "second" {
		t.Fatalf("expected latest record, got %q", loaded.RefreshToken())
	}

	// The temp-and-rename dance must not leave stray files behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the token file, found %d entries", len(entries))
	}
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store, err := NewFileTokenStore(path)
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatal("expected decode error for corrupt file")
	}
}

func TestNewFileTokenStoreRequiresPath(t *testing.T) {
	if _, err := NewFileTokenStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

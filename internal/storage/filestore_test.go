package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	// Missing file reads as empty, not as an error.
	if _, ok, err := store.Get(ctx, KeyAccessToken); err != nil || ok {
		t.Fatalf("Get on missing file = (%v, %v)", ok, err)
	}

	if err := store.Set(ctx, KeyAccessToken, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, KeyUser, `{"id":"9"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := store.Get(ctx, KeyAccessToken)
	if err != nil || !ok || value != "tok" {
		t.Fatalf("Get = (%q, %v, %v)", value, ok, err)
	}

	// A second store on the same path sees the persisted values.
	reopened := NewFileStore(path)
	value, ok, err = reopened.Get(ctx, KeyUser)
	if err != nil || !ok || value != `{"id":"9"}` {
		t.Fatalf("reopened Get = (%q, %v, %v)", value, ok, err)
	}
}

func TestFileStoreDeleteMany(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	for key, value := range map[string]string{
		KeyAccessToken:  "a",
		KeyRefreshToken: "r",
		KeyUser:         "u",
	} {
		if err := store.Set(ctx, key, value); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if err := store.Delete(ctx, KeyAccessToken, KeyRefreshToken, KeyUser); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if _, ok, _ := store.Get(ctx, key); ok {
			t.Errorf("key %q survived delete", key)
		}
	}

	// Deleting absent keys is not an error.
	if err := store.Delete(ctx, KeyAccessToken); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestFileStoreCorruptFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path)
	if _, ok, err := store.Get(ctx, KeyUser); err != nil || ok {
		t.Fatalf("Get on corrupt file = (%v, %v), want empty read", ok, err)
	}

	// The next write replaces the corrupt content.
	if err := store.Set(ctx, KeyUser, "u"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	value, ok, err := store.Get(ctx, KeyUser)
	if err != nil || !ok || value != "u" {
		t.Fatalf("Get after rewrite = (%q, %v, %v)", value, ok, err)
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.json")
	store := NewFileStore(path)

	if err := store.Set(ctx, KeyAccessToken, "tok"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("state file not created: %v", err)
	}
}

package flags

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, Entry{
		Input:     `apple\d{1,3}\b`,
		Direction: "regex-to-english",
		Model:     "gpt-3.5-turbo-0125",
		Output:    "Matches apple followed by up to three digits.",
		Reason:    "too vague",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("Expected ID and timestamp to be assigned, got %+v", saved)
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != saved.ID || got.Input != saved.Input || got.Direction != saved.Direction ||
		got.Model != saved.Model || got.Output != saved.Output || got.Reason != saved.Reason {
		t.Errorf("Expected %+v, got %+v", saved, got)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("Expected created_at %v, got %v", saved.CreatedAt, got.CreatedAt)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for _, input := range []string{"first", "second", "third"} {
		e, err := store.Save(ctx, Entry{Input: input, Direction: "english-to-regex", Model: "fast", Output: "x"})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		ids = append(ids, e.ID)
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != ids[2] || entries[1].ID != ids[1] {
		t.Errorf("Expected newest first, got %s, %s", entries[0].Input, entries[1].Input)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected default limit to return all 3 entries, got %d", len(all))
	}
}

func TestStore_SaveRequiresDirection(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Save(context.Background(), Entry{Input: "x"}); err == nil {
		t.Error("Expected error for entry without direction")
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "flags.db")
	store, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.Save(context.Background(), Entry{Input: "x", Direction: "english-to-regex"}); err != nil {
		t.Errorf("Save failed: %v", err)
	}
}

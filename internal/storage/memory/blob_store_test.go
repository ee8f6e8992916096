package memory

import (
	"context"
	"testing"
)

func TestStoreSaveCopiesData(t *testing.T) {
	t.Parallel()

	store := New()
	payload := []byte("content")
	if err := store.Save(context.Background(), "web/page.html", payload); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	payload[0] = 'C'
	stored, ok := store.Get("web/page.html")
	if !ok {
		t.Fatal("expected object to exist")
	}
	if string(stored) != "content" {
		t.Fatalf("expected stored copy to be immutable, got %q", stored)
	}
}

func TestStoreOverwriteAndLen(t *testing.T) {
	t.Parallel()

	store := New()
	if err := store.Save(context.Background(), "web/page.html", []byte("old")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(context.Background(), "web/page.html", []byte("new")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", store.Len())
	}
	got, _ := store.Get("web/page.html")
	if string(got) != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestStoreObjectsSnapshot(t *testing.T) {
	t.Parallel()

	store := New()
	if err := store.Save(context.Background(), "a", []byte("1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	snapshot := store.Objects()
	snapshot["a"][0] = 'X'
	got, _ := store.Get("a")
	if string(got) != "1" {
		t.Fatalf("expected snapshot to be detached, got %q", got)
	}
}

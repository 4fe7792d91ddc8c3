package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shoplore/shoplore/internal/models"
)

func TestSQLiteStorage_CRUD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	verifiedAt := time.Now().Add(-24 * time.Hour)
	listing := &models.Listing{
		ID:          "l1",
		Name:        "Pencil Store",
		Description: "Stationery and art supplies",
		Category:    "retail",
		Health:      90,
		Rating:      4.5,
		IsVerified:  true,
		VerifiedAt:  &verifiedAt,
		IsFeatured:  true,
	}
	if err := store.CreateListing(ctx, listing); err != nil {
		t.Fatal(err)
	}
	if listing.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetListing(ctx, "l1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Pencil Store" || got.Health != 90 || !got.IsVerified {
		t.Errorf("got %+v", got)
	}
	if got.VerifiedAt == nil {
		t.Error("expected VerifiedAt to round-trip")
	}

	listing.Name = "Pencil Store Downtown"
	if err := store.UpdateListing(ctx, listing); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetListing(ctx, "l1")
	if got.Name != "Pencil Store Downtown" {
		t.Errorf("expected updated name, got %s", got.Name)
	}

	list, err := store.ListListings(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 listing, got %d", len(list))
	}

	count, err := store.CountListings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	if err := store.DeleteListing(ctx, "l1"); err != nil {
		t.Fatal(err)
	}
	_, err = store.GetListing(ctx, "l1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteStorage_GetListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.CreateListing(ctx, &models.Listing{ID: id, Name: "Store " + id}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.GetListings(ctx, []string{"a", "c", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 listings, got %d", len(got))
	}
	if got["a"] == nil || got["c"] == nil {
		t.Errorf("missing expected listings: %v", got)
	}
	if _, ok := got["missing"]; ok {
		t.Error("unknown id should be absent, not an error")
	}

	empty, err := store.GetListings(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map, got %v", empty)
	}
}

func TestSQLiteStorage_UpdateMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.db")
	store, err := NewSQLiteStorage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	err = store.UpdateListing(context.Background(), &models.Listing{ID: "nope", Name: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shoplore/shoplore/internal/keyword"
	"github.com/shoplore/shoplore/internal/models"
	"github.com/shoplore/shoplore/internal/storage"
)

type memStorage struct {
	listings map[string]*models.Listing
}

func newMemStorage() *memStorage {
	return &memStorage{listings: make(map[string]*models.Listing)}
}

func (m *memStorage) CreateListing(_ context.Context, l *models.Listing) error {
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memStorage) GetListing(_ context.Context, id string) (*models.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memStorage) GetListings(_ context.Context, ids []string) (map[string]*models.Listing, error) {
	out := make(map[string]*models.Listing)
	for _, id := range ids {
		if l, ok := m.listings[id]; ok {
			cp := *l
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *memStorage) UpdateListing(_ context.Context, l *models.Listing) error {
	if _, ok := m.listings[l.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *l
	m.listings[l.ID] = &cp
	return nil
}

func (m *memStorage) DeleteListing(_ context.Context, id string) error {
	delete(m.listings, id)
	return nil
}

func (m *memStorage) ListListings(_ context.Context, offset, limit int) ([]*models.Listing, error) {
	all := make([]*models.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		all = append(all, l)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memStorage) CountListings(_ context.Context) (int64, error) {
	return int64(len(m.listings)), nil
}

func (m *memStorage) Close() error { return nil }

// recordingIndex records Index/Delete calls.
type recordingIndex struct {
	indexed map[string]int
	deleted []string
	failOn  string
}

func newRecordingIndex() *recordingIndex {
	return &recordingIndex{indexed: make(map[string]int)}
}

func (r *recordingIndex) Index(_ context.Context, l *models.Listing) error {
	if r.failOn != "" && l.ID == r.failOn {
		return errors.New("index write failed")
	}
	r.indexed[l.ID]++
	return nil
}

func (r *recordingIndex) Search(_ context.Context, _ string, _ int, _ *keyword.SearchOptions) ([]*keyword.KeywordHit, error) {
	return nil, nil
}

func (r *recordingIndex) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *recordingIndex) Close() error              { return nil }
func (r *recordingIndex) DocCount() (uint64, error) { return uint64(len(r.indexed)), nil }

func TestIndexListing(t *testing.T) {
	store := newMemStorage()
	kwIdx := newRecordingIndex()
	idx := NewIndexer(store, kwIdx)

	listing, err := idx.IndexListing(context.Background(), &models.ListingInput{
		Name:       "  Pencil Store  ",
		Category:   "Stationery",
		Health:     90,
		Rating:     4.5,
		IsVerified: true,
	})
	if err != nil {
		t.Fatalf("IndexListing() error = %v", err)
	}

	if listing.ID == "" {
		t.Error("ID not assigned")
	}
	if listing.Name != "Pencil Store" {
		t.Errorf("Name = %q, want trimmed", listing.Name)
	}
	if listing.Category != "stationery" {
		t.Errorf("Category = %q, want lower-cased", listing.Category)
	}
	if listing.VerifiedAt == nil {
		t.Error("VerifiedAt not set for verified listing")
	}

	stored, err := store.GetListing(context.Background(), listing.ID)
	if err != nil {
		t.Fatalf("stored listing missing: %v", err)
	}
	if stored.Name != "Pencil Store" {
		t.Errorf("stored Name = %q", stored.Name)
	}
	if kwIdx.indexed[listing.ID] != 1 {
		t.Errorf("keyword index writes = %d, want 1", kwIdx.indexed[listing.ID])
	}
}

func TestIndexListingUpdatePreservesTimestamps(t *testing.T) {
	store := newMemStorage()
	idx := NewIndexer(store, newRecordingIndex())
	ctx := context.Background()

	created := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	idx.now = func() time.Time { return created }

	first, err := idx.IndexListing(ctx, &models.ListingInput{Name: "Pen Palace", IsVerified: true})
	if err != nil {
		t.Fatalf("IndexListing() error = %v", err)
	}

	later := created.Add(48 * time.Hour)
	idx.now = func() time.Time { return later }

	second, err := idx.IndexListing(ctx, &models.ListingInput{
		ID:         first.ID,
		Name:       "Pen Palace Deluxe",
		IsVerified: true,
	})
	if err != nil {
		t.Fatalf("IndexListing() update error = %v", err)
	}

	if !second.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want original %v", second.CreatedAt, created)
	}
	if !second.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", second.UpdatedAt, later)
	}
	if second.VerifiedAt == nil || !second.VerifiedAt.Equal(created) {
		t.Errorf("VerifiedAt = %v, want original verification time", second.VerifiedAt)
	}
	if second.Name != "Pen Palace Deluxe" {
		t.Errorf("Name = %q, want updated", second.Name)
	}
}

func TestIndexListingValidation(t *testing.T) {
	idx := NewIndexer(newMemStorage(), newRecordingIndex())
	ctx := context.Background()

	tests := []struct {
		name  string
		input *models.ListingInput
	}{
		{"nil input", nil},
		{"blank name", &models.ListingInput{Name: "   "}},
		{"health too high", &models.ListingInput{Name: "x", Health: 150}},
		{"negative health", &models.ListingInput{Name: "x", Health: -1}},
		{"rating too high", &models.ListingInput{Name: "x", Rating: 5.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := idx.IndexListing(ctx, tt.input); err == nil {
				t.Error("IndexListing() error = nil, want validation error")
			}
		})
	}
}

func TestDeleteListing(t *testing.T) {
	store := newMemStorage()
	kwIdx := newRecordingIndex()
	idx := NewIndexer(store, kwIdx)
	ctx := context.Background()

	listing, err := idx.IndexListing(ctx, &models.ListingInput{Name: "Coffee Corner"})
	if err != nil {
		t.Fatalf("IndexListing() error = %v", err)
	}

	if err := idx.DeleteListing(ctx, listing.ID); err != nil {
		t.Fatalf("DeleteListing() error = %v", err)
	}

	if _, err := store.GetListing(ctx, listing.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetListing() after delete error = %v, want ErrNotFound", err)
	}
	if len(kwIdx.deleted) != 1 || kwIdx.deleted[0] != listing.ID {
		t.Errorf("index deletions = %v, want [%s]", kwIdx.deleted, listing.ID)
	}
}

func TestReindex(t *testing.T) {
	store := newMemStorage()
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		if err := store.CreateListing(ctx, &models.Listing{ID: name, Name: name}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	kwIdx := newRecordingIndex()
	idx := NewIndexer(store, kwIdx)

	n, err := idx.Reindex(ctx)
	if err != nil {
		t.Fatalf("Reindex() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Reindex() = %d, want 3", n)
	}
	for _, id := range []string{"A", "B", "C"} {
		if kwIdx.indexed[id] != 1 {
			t.Errorf("listing %s indexed %d times, want 1", id, kwIdx.indexed[id])
		}
	}
}

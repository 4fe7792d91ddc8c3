package keyword

import (
	"context"
	"testing"

	"github.com/shoplore/shoplore/internal/models"
)

func testListings() []*models.Listing {
	return []*models.Listing{
		{ID: "l1", Name: "Pencil Store", Description: "Pencils, erasers and sharpeners", Category: "stationery"},
		{ID: "l2", Name: "Pen Palace", Description: "Fountain pens and ink", Category: "stationery"},
		{ID: "l3", Name: "Garden Supplies", Description: "Seeds, soil and pencil cactus plants", Category: "garden"},
		{ID: "l4", Name: "Coffee Corner", Description: "Espresso and filter coffee", Category: "food"},
	}
}

func newTestIndex(t *testing.T) *BleveIndex {
	t.Helper()

	idx, err := NewMemoryBleveIndex()
	if err != nil {
		t.Fatalf("NewMemoryBleveIndex() error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	ctx := context.Background()
	for _, l := range testListings() {
		if err := idx.Index(ctx, l); err != nil {
			t.Fatalf("Index(%s) error = %v", l.ID, err)
		}
	}
	return idx
}

func TestBleveIndexSearch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	t.Run("matches name and description", func(t *testing.T) {
		hits, err := idx.Search(ctx, "pencil", 10, nil)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != 2 {
			t.Fatalf("Search() returned %d hits, want 2", len(hits))
		}
		found := map[string]bool{}
		for _, h := range hits {
			found[h.ID] = true
			if h.Score <= 0 {
				t.Errorf("hit %s has non-positive score %v", h.ID, h.Score)
			}
		}
		if !found["l1"] || !found["l3"] {
			t.Errorf("Search() hit ids = %v, want l1 and l3", found)
		}
	})

	t.Run("no match", func(t *testing.T) {
		hits, err := idx.Search(ctx, "bicycle", 10, nil)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("Search() returned %d hits, want 0", len(hits))
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		hits, err := idx.Search(ctx, "pencil", 1, nil)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(hits) != 1 {
			t.Errorf("Search() returned %d hits, want 1", len(hits))
		}
	})
}

func TestBleveIndexNameBoost(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	hits, err := idx.Search(ctx, "pencil", 10, &SearchOptions{NameBoost: 3.0})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Search() returned %d hits, want 2", len(hits))
	}
	// "pencil" appears in l1's name but only in l3's description; the
	// boosted name match must rank first.
	if hits[0].ID != "l1" {
		t.Errorf("top hit = %s, want l1", hits[0].ID)
	}
	if hits[0].Score <= hits[1].Score {
		t.Errorf("boosted score %v not above %v", hits[0].Score, hits[1].Score)
	}
}

func TestBleveIndexCategoryFilter(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	hits, err := idx.Search(ctx, "pencil", 10, &SearchOptions{Category: "stationery"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "l1" {
		t.Errorf("Search() with category filter = %v, want only l1", hits)
	}
}

func TestBleveIndexDelete(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	if err := idx.Delete(ctx, "l1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	hits, err := idx.Search(ctx, "pencil", 10, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, h := range hits {
		if h.ID == "l1" {
			t.Errorf("deleted listing l1 still returned")
		}
	}

	count, err := idx.DocCount()
	if err != nil {
		t.Fatalf("DocCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("DocCount() = %d, want 3", count)
	}
}

func TestBleveIndexTermDictionary(t *testing.T) {
	idx := newTestIndex(t)

	t.Run("contains indexed term", func(t *testing.T) {
		ok, err := idx.ContainsTerm("pencil")
		if err != nil {
			t.Fatalf("ContainsTerm() error = %v", err)
		}
		if !ok {
			t.Errorf("ContainsTerm(pencil) = false, want true")
		}
	})

	t.Run("missing term", func(t *testing.T) {
		ok, err := idx.ContainsTerm("bicycle")
		if err != nil {
			t.Fatalf("ContainsTerm() error = %v", err)
		}
		if ok {
			t.Errorf("ContainsTerm(bicycle) = true, want false")
		}
	})

	t.Run("frequency counts documents", func(t *testing.T) {
		freq, err := idx.GetTermFrequency("pencil")
		if err != nil {
			t.Fatalf("GetTermFrequency() error = %v", err)
		}
		if freq < 2 {
			t.Errorf("GetTermFrequency(pencil) = %d, want >= 2", freq)
		}
	})

	t.Run("all terms include both fields", func(t *testing.T) {
		terms, err := idx.GetAllTerms()
		if err != nil {
			t.Fatalf("GetAllTerms() error = %v", err)
		}
		seen := map[string]bool{}
		for _, term := range terms {
			seen[term] = true
		}
		for _, want := range []string{"pencil", "espresso", "garden"} {
			if !seen[want] {
				t.Errorf("GetAllTerms() missing %q", want)
			}
		}
	})
}

// Package indexer provides listing ingestion into storage and the keyword index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoplore/shoplore/internal/keyword"
	"github.com/shoplore/shoplore/internal/models"
	"github.com/shoplore/shoplore/internal/storage"
)

// Indexer writes listings into storage and the keyword index, keeping the
// two in step. Storage is the source of truth; the keyword index is rebuilt
// from it on demand.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	logger       *zap.Logger
	now          func() time.Time
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(store storage.Storage, keywordIndex keyword.KeywordIndex, opts ...IndexerOption) *Indexer {
	idx := &Indexer{
		storage:      store,
		keywordIndex: keywordIndex,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IndexListing validates the input, assigns an ID when missing, and writes
// the listing to storage and the keyword index. An existing ID updates the
// stored listing in place.
func (idx *Indexer) IndexListing(ctx context.Context, input *models.ListingInput) (*models.Listing, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := idx.now()
	listing := &models.Listing{
		ID:          input.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Health:      input.Health,
		Rating:      input.Rating,
		IsVerified:  input.IsVerified,
		IsFeatured:  input.IsFeatured,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if listing.IsVerified {
		verifiedAt := now
		listing.VerifiedAt = &verifiedAt
	}

	if listing.ID == "" {
		listing.ID = uuid.New().String()
		if err := idx.storage.CreateListing(ctx, listing); err != nil {
			return nil, fmt.Errorf("failed to store listing: %w", err)
		}
	} else if err := idx.upsert(ctx, listing); err != nil {
		return nil, err
	}

	if err := idx.keywordIndex.Index(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to index listing: %w", err)
	}

	idx.logger.Debug("listing indexed",
		zap.String("id", listing.ID),
		zap.String("name", listing.Name))
	return listing, nil
}

// upsert updates an existing listing, preserving its creation and
// verification timestamps, or creates it when absent.
func (idx *Indexer) upsert(ctx context.Context, listing *models.Listing) error {
	existing, err := idx.storage.GetListing(ctx, listing.ID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := idx.storage.CreateListing(ctx, listing); err != nil {
			return fmt.Errorf("failed to store listing: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	listing.CreatedAt = existing.CreatedAt
	if listing.IsVerified && existing.VerifiedAt != nil {
		listing.VerifiedAt = existing.VerifiedAt
	}
	if err := idx.storage.UpdateListing(ctx, listing); err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// DeleteListing removes a listing from storage and the keyword index.
func (idx *Indexer) DeleteListing(ctx context.Context, id string) error {
	if err := idx.storage.DeleteListing(ctx, id); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to remove listing from index: %w", err)
	}
	idx.logger.Debug("listing deleted", zap.String("id", id))
	return nil
}

// Reindex rebuilds the keyword index from storage in batches. Returns the
// number of listings indexed.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	const batchSize = 500

	total := 0
	for offset := 0; ; offset += batchSize {
		listings, err := idx.storage.ListListings(ctx, offset, batchSize)
		if err != nil {
			return total, fmt.Errorf("failed to list listings: %w", err)
		}
		if len(listings) == 0 {
			break
		}
		for _, listing := range listings {
			if err := idx.keywordIndex.Index(ctx, listing); err != nil {
				return total, fmt.Errorf("failed to index listing %s: %w", listing.ID, err)
			}
			total++
		}
	}

	idx.logger.Info("reindex complete", zap.Int("listings", total))
	return total, nil
}

func validateInput(input *models.ListingInput) error {
	if input == nil {
		return errors.New("listing input is nil")
	}
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("listing name is required")
	}
	if input.Health < 0 || input.Health > 100 {
		return fmt.Errorf("health %v out of range [0, 100]", input.Health)
	}
	if input.Rating < 0 || input.Rating > 5 {
		return fmt.Errorf("rating %v out of range [0, 5]", input.Rating)
	}
	return nil
}

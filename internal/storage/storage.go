// Package storage defines the persistence interface for business listings.
package storage

import (
	"context"
	"errors"

	"github.com/shoplore/shoplore/internal/models"
)

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("listing not found")

// Storage defines listing persistence operations.
type Storage interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	// GetListings returns the listings for ids, keyed by id. Missing ids are
	// simply absent from the map.
	GetListings(ctx context.Context, ids []string) (map[string]*models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) error
	DeleteListing(ctx context.Context, id string) error
	ListListings(ctx context.Context, offset, limit int) ([]*models.Listing, error)

	CountListings(ctx context.Context) (int64, error)

	Close() error
}

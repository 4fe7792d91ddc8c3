package search

import (
	"github.com/shoplore/shoplore/internal/models"
)

// AdaptHit builds a ranking-ready hit from a stored listing and its lexical
// score. The ListingSource is populated here, once, at the storage boundary;
// downstream scoring reads typed fields only.
func AdaptHit(listing *models.Listing, score float64) *models.SearchHit {
	if listing == nil {
		return nil
	}
	return &models.SearchHit{
		ID:      listing.ID,
		Score:   score,
		Listing: listing,
		Source: &models.ListingSource{
			Name:       listing.Name,
			Health:     listing.Health,
			Rating:     listing.Rating,
			IsVerified: listing.IsVerified,
			VerifiedAt: listing.VerifiedAt,
			IsFeatured: listing.IsFeatured,
			UpdatedAt:  listing.UpdatedAt,
			CreatedAt:  listing.CreatedAt,
		},
	}
}

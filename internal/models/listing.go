// Package models defines core data structures for listings, queries, and search results.
package models

import "time"

// Listing represents a stored business listing with its ranking-relevant attributes.
type Listing struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Category    string     `json:"category,omitempty" db:"category"`
	Health      float64    `json:"health" db:"health"`
	Rating      float64    `json:"rating" db:"rating"`
	IsVerified  bool       `json:"is_verified" db:"is_verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty" db:"verified_at"`
	IsFeatured  bool       `json:"is_featured" db:"is_featured"`
	Latitude    *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64   `json:"longitude,omitempty" db:"longitude"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ListingInput is the input for creating or updating a listing.
type ListingInput struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Health      float64  `json:"health,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	IsVerified  bool     `json:"is_verified,omitempty"`
	IsFeatured  bool     `json:"is_featured,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// ListingSource carries the ranking-relevant fields of a listing in typed form.
// It is populated once by the search engine's adapter at the storage boundary,
// so scoring code never inspects raw documents or alternate field spellings.
type ListingSource struct {
	Name       string     `json:"name"`
	Health     float64    `json:"health"`
	Rating     float64    `json:"rating"`
	IsVerified bool       `json:"is_verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	IsFeatured bool       `json:"is_featured"`
	UpdatedAt  time.Time  `json:"updated_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Confirmed reports whether the listing passed verification, signaled either
// by the boolean flag or by the presence of a verification timestamp.
func (s *ListingSource) Confirmed() bool {
	if s == nil {
		return false
	}
	return s.IsVerified || s.VerifiedAt != nil
}

// FreshnessTime returns the timestamp to use for freshness scoring:
// UpdatedAt when set, else CreatedAt, else the zero time.
func (s *ListingSource) FreshnessTime() time.Time {
	if s == nil {
		return time.Time{}
	}
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

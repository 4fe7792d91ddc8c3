// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shoplore/shoplore/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		category TEXT,
		health REAL DEFAULT 0,
		rating REAL DEFAULT 0,
		is_verified INTEGER DEFAULT 0,
		verified_at TIMESTAMP,
		is_featured INTEGER DEFAULT 0,
		latitude REAL,
		longitude REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);
	CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateListing inserts a listing.
func (s *SQLiteStorage) CreateListing(ctx context.Context, listing *models.Listing) error {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO listings (id, name, description, category, health, rating,
		 is_verified, verified_at, is_featured, latitude, longitude, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.ID, listing.Name, listing.Description, listing.Category,
		listing.Health, listing.Rating, listing.IsVerified, listing.VerifiedAt,
		listing.IsFeatured, listing.Latitude, listing.Longitude,
		listing.CreatedAt, listing.UpdatedAt,
	)
	return err
}

const listingColumns = `id, name, description, category, health, rating,
	is_verified, verified_at, is_featured, latitude, longitude, created_at, updated_at`

func scanListing(row interface{ Scan(...any) error }) (*models.Listing, error) {
	var l models.Listing
	var description, category sql.NullString
	var verifiedAt sql.NullTime
	var lat, lng sql.NullFloat64
	if err := row.Scan(
		&l.ID, &l.Name, &description, &category, &l.Health, &l.Rating,
		&l.IsVerified, &verifiedAt, &l.IsFeatured, &lat, &lng,
		&l.CreatedAt, &l.UpdatedAt,
	); err != nil {
		return nil, err
	}
	l.Description = description.String
	l.Category = category.String
	if verifiedAt.Valid {
		t := verifiedAt.Time
		l.VerifiedAt = &t
	}
	if lat.Valid {
		v := lat.Float64
		l.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		l.Longitude = &v
	}
	return &l, nil
}

// GetListing returns a listing by ID.
func (s *SQLiteStorage) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id,
	)
	listing, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListings returns listings for the given ids, keyed by id.
func (s *SQLiteStorage) GetListings(ctx context.Context, ids []string) (map[string]*models.Listing, error) {
	if len(ids) == 0 {
		return map[string]*models.Listing{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*models.Listing, len(ids))
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out[listing.ID] = listing
	}
	return out, rows.Err()
}

// UpdateListing updates an existing listing.
func (s *SQLiteStorage) UpdateListing(ctx context.Context, listing *models.Listing) error {
	listing.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE listings SET name = ?, description = ?, category = ?, health = ?,
		 rating = ?, is_verified = ?, verified_at = ?, is_featured = ?,
		 latitude = ?, longitude = ?, updated_at = ?
		 WHERE id = ?`,
		listing.Name, listing.Description, listing.Category, listing.Health,
		listing.Rating, listing.IsVerified, listing.VerifiedAt, listing.IsFeatured,
		listing.Latitude, listing.Longitude, listing.UpdatedAt, listing.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, listing.ID)
	}
	return nil
}

// DeleteListing removes a listing by ID.
func (s *SQLiteStorage) DeleteListing(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	return err
}

// ListListings returns listings with offset and limit.
func (s *SQLiteStorage) ListListings(ctx context.Context, offset, limit int) ([]*models.Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listingColumns+` FROM listings ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// CountListings returns the total number of listings.
func (s *SQLiteStorage) CountListings(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

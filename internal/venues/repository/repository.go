// Package repository persists deduplicated venue candidates, keyed by their
// provider provenance so repeated seeding runs stay idempotent.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cookiespots_backend/internal/venues"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert inserts a candidate or refreshes the stored row when the same
// (source, source_id) pair was seen before.
func (r *Repository) Upsert(ctx context.Context, c venues.Candidate) error {
	hours, err := marshalHours(c.HoursOfOperation)
	if err != nil {
		return fmt.Errorf("marshal hours: %w", err)
	}

	lat, lng := latLngOf(c.Location)

	query := `
		INSERT INTO venues (
			name, address, city, state_province, country, postal_code,
			latitude, longitude, phone, website, hours_of_operation, price_range,
			source, source_id, has_dine_in, has_takeout, has_delivery,
			is_wheelchair_accessible, accepts_credit_cards, features,
			average_rating, review_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, now(), now())
		ON CONFLICT (source, source_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state_province = EXCLUDED.state_province,
			country = EXCLUDED.country,
			postal_code = EXCLUDED.postal_code,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			hours_of_operation = EXCLUDED.hours_of_operation,
			price_range = EXCLUDED.price_range,
			has_dine_in = EXCLUDED.has_dine_in,
			has_takeout = EXCLUDED.has_takeout,
			has_delivery = EXCLUDED.has_delivery,
			is_wheelchair_accessible = EXCLUDED.is_wheelchair_accessible,
			accepts_credit_cards = EXCLUDED.accepts_credit_cards,
			features = EXCLUDED.features,
			average_rating = EXCLUDED.average_rating,
			review_count = EXCLUDED.review_count,
			updated_at = now()`

	_, err = r.pool.Exec(ctx, query,
		c.Name, c.Address, c.City, c.StateProvince, c.Country, c.PostalCode,
		lat, lng, c.Phone, c.Website, hours, c.PriceRange,
		string(c.Source), c.SourceID, c.HasDineIn, c.HasTakeout, c.HasDelivery,
		c.IsWheelchairAccessible, c.AcceptsCreditCards, c.Features,
		c.AverageRating, c.ReviewCount,
	)
	if err != nil {
		return fmt.Errorf("upsert venue: %w", err)
	}
	return nil
}

// UpsertAll persists a batch of candidates. The first failure aborts the
// batch and reports how many rows were written before it.
func (r *Repository) UpsertAll(ctx context.Context, candidates []venues.Candidate) (int, error) {
	for i, c := range candidates {
		if err := r.Upsert(ctx, c); err != nil {
			return i, err
		}
	}
	return len(candidates), nil
}

// ListByPostalCode returns the stored venues for one postal code.
func (r *Repository) ListByPostalCode(ctx context.Context, postalCode string) ([]venues.Candidate, error) {
	query := `
		SELECT name, address, city, state_province, country, postal_code,
			latitude, longitude, phone, website, hours_of_operation, price_range,
			source, source_id, has_dine_in, has_takeout, has_delivery,
			is_wheelchair_accessible, accepts_credit_cards, features,
			average_rating, review_count
		FROM venues
		WHERE postal_code = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, postalCode)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var results []venues.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return results, nil
}

// GetBySourceID returns one venue by its provider provenance, or nil when
// no such row exists.
func (r *Repository) GetBySourceID(ctx context.Context, source venues.Source, sourceID string) (*venues.Candidate, error) {
	query := `
		SELECT name, address, city, state_province, country, postal_code,
			latitude, longitude, phone, website, hours_of_operation, price_range,
			source, source_id, has_dine_in, has_takeout, has_delivery,
			is_wheelchair_accessible, accepts_credit_cards, features,
			average_rating, review_count
		FROM venues
		WHERE source = $1 AND source_id = $2`

	row := r.pool.QueryRow(ctx, query, string(source), sourceID)
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row scanner) (venues.Candidate, error) {
	var (
		c        venues.Candidate
		lat, lng float64
		hours    []byte
		source   string
	)

	err := row.Scan(
		&c.Name, &c.Address, &c.City, &c.StateProvince, &c.Country, &c.PostalCode,
		&lat, &lng, &c.Phone, &c.Website, &hours, &c.PriceRange,
		&source, &c.SourceID, &c.HasDineIn, &c.HasTakeout, &c.HasDelivery,
		&c.IsWheelchairAccessible, &c.AcceptsCreditCards, &c.Features,
		&c.AverageRating, &c.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return venues.Candidate{}, err
		}
		return venues.Candidate{}, fmt.Errorf("scan venue: %w", err)
	}

	c.Source = venues.Source(source)
	c.Location = venues.NewGeoPoint(lat, lng)
	if len(hours) > 0 {
		if err := json.Unmarshal(hours, &c.HoursOfOperation); err != nil {
			return venues.Candidate{}, fmt.Errorf("unmarshal hours: %w", err)
		}
	}
	return c, nil
}

func marshalHours(hours map[string]string) ([]byte, error) {
	if len(hours) == 0 {
		return nil, nil
	}
	return json.Marshal(hours)
}

func latLngOf(point venues.GeoPoint) (float64, float64) {
	if len(point.Coordinates) != 2 {
		return 0, 0
	}
	return point.Coordinates[1], point.Coordinates[0]
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"pricewatch/models"
)

// Postgres stores observations in the observations table, one row per
// retailer. The schema is created by database.CreateSchema.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the stored observation, or nil when none exists.
func (p *Postgres) Get(ctx context.Context, name string) (*models.Observation, error) {
	query := `
		SELECT retailer_name, last_price, last_alerted_price, last_checked_at
		FROM observations
		WHERE retailer_name = $1
	`

	var obs models.Observation
	err := p.db.QueryRowContext(ctx, query, name).Scan(
		&obs.RetailerName, &obs.LastPrice, &obs.LastAlertedPrice, &obs.LastCheckedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if ctx.Err() != nil || p.db.PingContext(ctx) != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &obs, nil
}

// Put upserts the observation for a retailer.
func (p *Postgres) Put(ctx context.Context, name string, obs models.Observation) error {
	query := `
		INSERT INTO observations (retailer_name, last_price, last_alerted_price, last_checked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (retailer_name) DO UPDATE
		SET last_price = $2, last_alerted_price = $3, last_checked_at = $4
	`

	_, err := p.db.ExecContext(ctx, query, name, obs.LastPrice, obs.LastAlertedPrice, obs.LastCheckedAt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

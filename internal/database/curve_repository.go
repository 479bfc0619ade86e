package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gridstor/curvecast/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	// Begin starts a transaction.
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CurveRepository handles database operations for curve definitions.
type CurveRepository struct {
	pool DatabasePool
}

// NewCurveRepository creates a new curve definition repository.
func NewCurveRepository(pool DatabasePool) *CurveRepository {
	return &CurveRepository{
		pool: pool,
	}
}

const definitionColumns = `id, market, location, product, commodity, battery_duration, units, granularity, is_active, created_at`

// ListDefinitions returns curve definitions, optionally filtered by market
// and location. Inactive definitions are excluded unless includeInactive is
// set.
func (r *CurveRepository) ListDefinitions(ctx context.Context, market, location string, includeInactive bool) ([]models.CurveDefinition, error) {
	query := `
		SELECT ` + definitionColumns + `
		FROM curve_definitions
		WHERE ($1 = '' OR market = $1)
		AND ($2 = '' OR location = $2)
		AND ($3 OR is_active)
		ORDER BY market, location, product
	`

	rows, err := r.pool.Query(ctx, query, market, location, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list curve definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.CurveDefinition
	for rows.Next() {
		var def models.CurveDefinition
		err := rows.Scan(
			&def.ID,
			&def.Market,
			&def.Location,
			&def.Product,
			&def.Commodity,
			&def.BatteryDuration,
			&def.Units,
			&def.Granularity,
			&def.IsActive,
			&def.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan curve definition: %w", err)
		}
		defs = append(defs, def)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating curve definitions: %w", err)
	}

	return defs, nil
}

// GetDefinition returns one curve definition by id.
func (r *CurveRepository) GetDefinition(ctx context.Context, id string) (*models.CurveDefinition, error) {
	query := `
		SELECT ` + definitionColumns + `
		FROM curve_definitions
		WHERE id = $1
	`

	var def models.CurveDefinition
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&def.ID,
		&def.Market,
		&def.Location,
		&def.Product,
		&def.Commodity,
		&def.BatteryDuration,
		&def.Units,
		&def.Granularity,
		&def.IsActive,
		&def.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get curve definition: %w", err)
	}

	return &def, nil
}

// CreateDefinition inserts a new curve definition.
func (r *CurveRepository) CreateDefinition(ctx context.Context, def *models.CurveDefinition) error {
	query := `
		INSERT INTO curve_definitions (id, market, location, product, commodity, battery_duration, units, granularity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		def.ID, def.Market, def.Location, def.Product, def.Commodity,
		def.BatteryDuration, def.Units, def.Granularity, def.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create curve definition: %w", err)
	}

	return nil
}

// DeactivateDefinition flags a definition as inactive so it disappears from
// catalog listings.
func (r *CurveRepository) DeactivateDefinition(ctx context.Context, id string) error {
	query := `
		UPDATE curve_definitions
		SET is_active = false
		WHERE id = $1 AND is_active
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate curve definition: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("curve definition %s not found or already inactive", id)
	}

	return nil
}

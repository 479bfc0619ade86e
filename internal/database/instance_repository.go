package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/gridstor/curvecast/internal/models"
)

// InstanceRepository handles database operations for curve instances and
// their data points.
type InstanceRepository struct {
	pool DatabasePool
}

// NewInstanceRepository creates a new instance repository.
func NewInstanceRepository(pool DatabasePool) *InstanceRepository {
	return &InstanceRepository{
		pool: pool,
	}
}

const instanceColumns = `id, definition_id, instance_version, status, created_at, created_by, provenance, curve_types, commodities, scenarios, granularity, degradation_type`

func scanInstance(row pgx.Row, ci *models.CurveInstance) error {
	return row.Scan(
		&ci.ID,
		&ci.DefinitionID,
		&ci.InstanceVersion,
		&ci.Status,
		&ci.CreatedAt,
		&ci.CreatedBy,
		&ci.Provenance,
		&ci.CurveTypes,
		&ci.Commodities,
		&ci.Scenarios,
		&ci.Granularity,
		&ci.DegradationType,
	)
}

// ListActiveInstances returns the ACTIVE instances for a definition, newest
// first. ARCHIVED and DRAFT instances are excluded — selection only ever sees
// this list.
func (r *InstanceRepository) ListActiveInstances(ctx context.Context, definitionID string) ([]models.CurveInstance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM curve_instances
		WHERE definition_id = $1 AND status = 'ACTIVE'
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active instances: %w", err)
	}
	defer rows.Close()

	var instances []models.CurveInstance
	for rows.Next() {
		var ci models.CurveInstance
		if err := scanInstance(rows, &ci); err != nil {
			return nil, fmt.Errorf("failed to scan curve instance: %w", err)
		}
		instances = append(instances, ci)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating curve instances: %w", err)
	}

	return instances, nil
}

// ListCohortInstances returns all non-archived instances across a
// market/location, used for vintage tagging.
func (r *InstanceRepository) ListCohortInstances(ctx context.Context, market, location string) ([]models.CurveInstance, error) {
	query := `
		SELECT ci.id, ci.definition_id, ci.instance_version, ci.status, ci.created_at, ci.created_by, ci.provenance, ci.curve_types, ci.commodities, ci.scenarios, ci.granularity, ci.degradation_type
		FROM curve_instances ci
		JOIN curve_definitions cd ON cd.id = ci.definition_id
		WHERE cd.market = $1 AND cd.location = $2 AND ci.status != 'ARCHIVED'
		ORDER BY ci.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, market, location)
	if err != nil {
		return nil, fmt.Errorf("failed to list cohort instances: %w", err)
	}
	defer rows.Close()

	var instances []models.CurveInstance
	for rows.Next() {
		var ci models.CurveInstance
		if err := scanInstance(rows, &ci); err != nil {
			return nil, fmt.Errorf("failed to scan cohort instance: %w", err)
		}
		instances = append(instances, ci)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cohort instances: %w", err)
	}

	return instances, nil
}

// GetInstance returns one instance by id, or nil when it does not exist.
func (r *InstanceRepository) GetInstance(ctx context.Context, id string) (*models.CurveInstance, error) {
	query := `
		SELECT ` + instanceColumns + `
		FROM curve_instances
		WHERE id = $1
	`

	var ci models.CurveInstance
	if err := scanInstance(r.pool.QueryRow(ctx, query, id), &ci); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get curve instance: %w", err)
	}

	return &ci, nil
}

// UpdateInstanceStatus moves an instance through its lifecycle
// (DRAFT -> ACTIVE -> ARCHIVED).
func (r *InstanceRepository) UpdateInstanceStatus(ctx context.Context, id string, status models.InstanceStatus) error {
	query := `
		UPDATE curve_instances
		SET status = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update instance status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("curve instance %s not found", id)
	}

	return nil
}

// ListMarkDates returns the created_at dates of all instances for a
// definition, oldest first. These are the update marks the freshness tracker
// runs on.
func (r *InstanceRepository) ListMarkDates(ctx context.Context, definitionID string) ([]time.Time, error) {
	query := `
		SELECT created_at
		FROM curve_instances
		WHERE definition_id = $1 AND status != 'ARCHIVED'
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list mark dates: %w", err)
	}
	defer rows.Close()

	var marks []time.Time
	for rows.Next() {
		var mark time.Time
		if err := rows.Scan(&mark); err != nil {
			return nil, fmt.Errorf("failed to scan mark date: %w", err)
		}
		marks = append(marks, mark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mark dates: %w", err)
	}

	return marks, nil
}

// CreateInstanceWithPoints persists an instance and all of its data points in
// one transaction. Either everything lands or nothing does: no orphaned
// instance without data, no data without a parent instance.
func (r *InstanceRepository) CreateInstanceWithPoints(ctx context.Context, instance *models.CurveInstance, points []models.CurveDataPoint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin upload transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	instanceQuery := `
		INSERT INTO curve_instances (id, definition_id, instance_version, status, created_at, created_by, provenance, curve_types, commodities, scenarios, granularity, degradation_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = tx.Exec(ctx, instanceQuery,
		instance.ID, instance.DefinitionID, instance.InstanceVersion, instance.Status,
		instance.CreatedAt, instance.CreatedBy, instance.Provenance,
		instance.CurveTypes, instance.Commodities, instance.Scenarios,
		instance.Granularity, instance.DegradationType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert curve instance: %w", err)
	}

	pointQuery := `
		INSERT INTO curve_data_points (id, instance_id, timestamp, value, curve_type, commodity, scenario, units)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, p := range points {
		_, err = tx.Exec(ctx, pointQuery,
			p.ID, p.InstanceID, p.Timestamp, p.Value, p.CurveType, p.Commodity, p.Scenario, p.Units,
		)
		if err != nil {
			return fmt.Errorf("failed to insert data point: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit upload transaction: %w", err)
	}

	return nil
}

// ListDataPoints returns the tall data rows for a set of instances, ordered
// by timestamp.
func (r *InstanceRepository) ListDataPoints(ctx context.Context, instanceIDs []string) ([]models.CurveDataPoint, error) {
	query := `
		SELECT id, instance_id, timestamp, value, curve_type, commodity, scenario, units
		FROM curve_data_points
		WHERE instance_id = ANY($1)
		ORDER BY instance_id, timestamp, curve_type, scenario
	`

	rows, err := r.pool.Query(ctx, query, instanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list data points: %w", err)
	}
	defer rows.Close()

	var points []models.CurveDataPoint
	for rows.Next() {
		var p models.CurveDataPoint
		var value decimal.NullDecimal
		err := rows.Scan(
			&p.ID,
			&p.InstanceID,
			&p.Timestamp,
			&value,
			&p.CurveType,
			&p.Commodity,
			&p.Scenario,
			&p.Units,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan data point: %w", err)
		}
		if value.Valid {
			p.Value = &value.Decimal
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating data points: %w", err)
	}

	return points, nil
}

// UpdatePointValue overwrites a single data point's value. Last writer wins;
// there is no version check on point edits.
func (r *InstanceRepository) UpdatePointValue(ctx context.Context, pointID string, value decimal.Decimal) error {
	query := `
		UPDATE curve_data_points
		SET value = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, pointID, value)
	if err != nil {
		return fmt.Errorf("failed to update data point: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("data point %s not found", pointID)
	}

	return nil
}

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridstor/curvecast/internal/models"
)

// MockPoolAdapter wraps pgxmock.PgxPoolIface to implement DatabasePool
type MockPoolAdapter struct {
	mock pgxmock.PgxPoolIface
}

func NewMockPoolAdapter(mock pgxmock.PgxPoolIface) DatabasePool {
	return &MockPoolAdapter{mock: mock}
}

func (m *MockPoolAdapter) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return m.mock.QueryRow(ctx, sql, args...)
}

func (m *MockPoolAdapter) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	result, err := m.mock.Exec(ctx, sql, args...)
	if err == nil {
		rows := result.RowsAffected()
		return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", rows)), nil
	}
	return pgconn.CommandTag{}, err
}

func (m *MockPoolAdapter) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return m.mock.Query(ctx, sql, args...)
}

func (m *MockPoolAdapter) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.mock.Begin(ctx)
}

func definitionRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "market", "location", "product", "commodity",
		"battery_duration", "units", "granularity", "is_active", "created_at",
	})
}

func TestCurveRepository_ListDefinitions(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCurveRepository(NewMockPoolAdapter(mockPool))
	ctx := context.Background()
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(`FROM curve_definitions`).
		WithArgs("ERCOT", "Houston", false).
		WillReturnRows(definitionRows().
			AddRow("def-1", "ERCOT", "Houston", "2hr Battery", (*string)(nil),
				(*string)(nil), "$/kW-mo", models.GranularityMonthly, true, createdAt).
			AddRow("def-2", "ERCOT", "Houston", "4hr Battery", (*string)(nil),
				(*string)(nil), "$/kW-mo", models.GranularityMonthly, true, createdAt))

	defs, err := repo.ListDefinitions(ctx, "ERCOT", "Houston", false)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "def-1", defs[0].ID)
	assert.Equal(t, "2hr Battery", defs[0].Product)
	assert.Equal(t, models.GranularityMonthly, defs[0].Granularity)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCurveRepository_ListDefinitions_QueryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCurveRepository(NewMockPoolAdapter(mockPool))

	mockPool.ExpectQuery(`FROM curve_definitions`).
		WithArgs("", "", true).
		WillReturnError(fmt.Errorf("connection refused"))

	defs, err := repo.ListDefinitions(context.Background(), "", "", true)
	assert.Error(t, err)
	assert.Nil(t, defs)
	assert.Contains(t, err.Error(), "failed to list curve definitions")

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCurveRepository_GetDefinition(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCurveRepository(NewMockPoolAdapter(mockPool))
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(`FROM curve_definitions`).
		WithArgs("def-1").
		WillReturnRows(definitionRows().
			AddRow("def-1", "CAISO", "SP15", "4hr Battery", (*string)(nil),
				(*string)(nil), "$/kW-mo", models.GranularityMonthly, true, createdAt))

	def, err := repo.GetDefinition(context.Background(), "def-1")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "CAISO", def.Market)
	assert.Equal(t, "SP15", def.Location)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCurveRepository_GetDefinition_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCurveRepository(NewMockPoolAdapter(mockPool))

	mockPool.ExpectQuery(`FROM curve_definitions`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	def, err := repo.GetDefinition(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, def)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCurveRepository_CreateDefinition(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCurveRepository(NewMockPoolAdapter(mockPool))
	def := &models.CurveDefinition{
		ID:          "def-1",
		Market:      "ERCOT",
		Location:    "Houston",
		Product:     "2hr Battery",
		Units:       "$/kW-mo",
		Granularity: models.GranularityMonthly,
		IsActive:    true,
	}

	mockPool.ExpectExec(`INSERT INTO curve_definitions`).
		WithArgs(def.ID, def.Market, def.Location, def.Product, def.Commodity,
			def.BatteryDuration, def.Units, def.Granularity, def.IsActive).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.CreateDefinition(context.Background(), def))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCurveRepository_DeactivateDefinition_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewCurveRepository(NewMockPoolAdapter(mockPool))

	mockPool.ExpectExec(`UPDATE curve_definitions`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.DeactivateDefinition(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found or already inactive")

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

package sql

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prawn-cake/pg-requests/dialect"
)

func mockStatsDriver(t *testing.T, opts ...StatsOption) (*StatsDriver, sqlmock.Sqlmock) {
	t.Helper()
	drv, mock := mockDriver(t)
	return NewStatsDriver(drv, opts...), mock
}

func TestStatsDriverCounts(t *testing.T) {
	drv, mock := mockStatsDriver(t)
	mock.ExpectQuery("SELECT * FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE users SET visits = $1").
		WithArgs(0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	var rows Rows
	require.NoError(t, QueryStatement(ctx, drv, Select("users"), &rows))
	rows.Close()
	require.NoError(t, ExecStatement(ctx, drv, Update("users").Set("visits", 0), nil))

	snap := drv.Stats().Snapshot()
	assert.Equal(t, int64(1), snap.TotalQueries)
	assert.Equal(t, int64(1), snap.TotalExecs)
	assert.Equal(t, int64(0), snap.Errors)
	assert.Greater(t, snap.TotalDuration, time.Duration(0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriverErrors(t *testing.T) {
	drv, mock := mockStatsDriver(t)
	mock.ExpectExec("UPDATE users SET visits = $1").
		WithArgs(0).
		WillReturnError(assert.AnError)

	err := ExecStatement(context.Background(), drv, Update("users").Set("visits", 0), nil)
	require.Error(t, err)
	assert.Equal(t, int64(1), drv.Stats().Snapshot().Errors)
}

func TestStatsDriverSlowHook(t *testing.T) {
	var slow []string
	drv, mock := mockStatsDriver(t,
		WithSlowThreshold(0),
		WithSlowStatementHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			slow = append(slow, query)
		}),
	)
	mock.ExpectExec("UPDATE users SET visits = $1").
		WithArgs(0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ExecStatement(context.Background(), drv, Update("users").Set("visits", 0), nil))
	require.Len(t, slow, 1)
	assert.Equal(t, "UPDATE users SET visits = $1", slow[0])
	assert.Equal(t, int64(1), drv.Stats().Snapshot().SlowStatements)
}

func TestStatsDriverTx(t *testing.T) {
	drv, mock := mockStatsDriver(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET active = $1").
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, ExecStatement(ctx, tx, Update("users").Set("active", false), nil))
	require.NoError(t, tx.Commit())
	assert.Equal(t, int64(1), drv.Stats().Snapshot().TotalExecs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsReset(t *testing.T) {
	var stats StatementStats
	stats.TotalQueries.Store(5)
	stats.Errors.Store(2)
	stats.Reset()
	snap := stats.Snapshot()
	assert.Zero(t, snap.TotalQueries)
	assert.Zero(t, snap.Errors)
	assert.Zero(t, snap.AvgDuration())
}

func TestStatsDriverKeepsDialect(t *testing.T) {
	drv, _ := mockStatsDriver(t)
	assert.Equal(t, dialect.Postgres, drv.Dialect())
}

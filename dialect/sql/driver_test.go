package sql

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgrequests "github.com/prawn-cake/pg-requests"
	"github.com/prawn-cake/pg-requests/dialect"
)

func mockDriver(t *testing.T) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return OpenDB(dialect.Postgres, db), mock
}

func TestQueryStatement(t *testing.T) {
	drv, mock := mockDriver(t)
	mock.ExpectQuery("SELECT id, name FROM users WHERE ( visits >= $1 ) LIMIT 10").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Mr.Robot").
			AddRow(2, "anonymous"))

	st := Select("users").Fields("id", "name").Filter("visits__gte", 5).Limit(10)
	var rows Rows
	require.NoError(t, QueryStatement(context.Background(), drv, st, &rows))
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			id   int
			name string
		)
		require.NoError(t, rows.Scan(&id, &name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Mr.Robot", "anonymous"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatement(t *testing.T) {
	drv, mock := mockDriver(t)
	mock.ExpectExec("UPDATE users SET visits = $1 WHERE ( id = $2 )").
		WithArgs(0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	st := Update("users").Set("visits", 0).Filter("id", 1)
	var res Result
	require.NoError(t, ExecStatement(context.Background(), drv, st, &res))
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatementNilResult(t *testing.T) {
	drv, mock := mockDriver(t)
	mock.ExpectExec("INSERT INTO users (name) VALUES ($1)").
		WithArgs("Mr.Robot").
		WillReturnResult(sqlmock.NewResult(1, 1))

	st := Insert("users").Set("name", "Mr.Robot")
	require.NoError(t, ExecStatement(context.Background(), drv, st, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecStatementBadStatement(t *testing.T) {
	// Declaration errors surface before anything reaches the database.
	drv, mock := mockDriver(t)
	st := Update("users").Filter("id__in", []int{})
	err := ExecStatement(context.Background(), drv, st, nil)
	require.Error(t, err)
	assert.True(t, pgrequests.IsInvalidPredicate(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverTx(t *testing.T) {
	drv, mock := mockDriver(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET active = $1").
		WithArgs(false).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)

	st := Update("users").Set("active", false)
	require.NoError(t, ExecStatement(ctx, tx, st, nil))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverTxRollback(t *testing.T) {
	drv, mock := mockDriver(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := drv.Tx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnExecInvalidArgs(t *testing.T) {
	drv, _ := mockDriver(t)
	err := drv.Exec(context.Background(), "UPDATE users SET active = $1", "not-a-slice", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect []any")
}

func TestDriverDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, dialect.Postgres, OpenDB("postgres", db).Dialect())
}

// Package dialect defines the database dialects known to pg-requests and
// the contract of the external driver that executes compiled statements.
//
// The query compiler itself performs no I/O. It produces a (sql, args) pair
// and hands it to an ExecQuerier; everything past that point belongs to the
// driver.
package dialect

import (
	"context"
	"fmt"
	"log/slog"
)

// Supported dialect names. The dialect decides the positional-placeholder
// style: Postgres statements use $1..$n, MySQL and SQLite use ?.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the basic Exec and Query methods.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. For args, the
	// ordered bind parameters of the compiled statement are expected.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx is the interface returned by Driver.Tx. It extends ExecQuerier
// with transaction control.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

type nopTx struct {
	Driver
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// NopTx returns a Tx with a no-op Commit and Rollback on top of the given
// driver. Useful for drivers without transaction support.
func NopTx(d Driver) Tx {
	return nopTx{d}
}

// DebugDriver is a driver that logs all driver operations with slog.
type DebugDriver struct {
	Driver              // underlying driver.
	log    *slog.Logger // log function. defaults to slog.Default().
}

// Debug gets a driver and an optional logger and returns a new debugged
// driver that prints all outgoing operations.
func Debug(d Driver, logger ...*slog.Logger) Driver {
	drv := &DebugDriver{Driver: d, log: slog.Default()}
	if len(logger) == 1 {
		drv.log = logger[0]
	}
	return drv
}

// Exec logs its compiled statement and calls the underlying driver Exec method.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log.InfoContext(ctx, "driver.Exec", "query", query, "args", fmt.Sprintf("%v", args))
	return d.Driver.Exec(ctx, query, args, v)
}

// Query logs its compiled statement and calls the underlying driver Query method.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log.InfoContext(ctx, "driver.Query", "query", query, "args", fmt.Sprintf("%v", args))
	return d.Driver.Query(ctx, query, args, v)
}

// Tx adds a log-id for the transaction and calls the underlying driver Tx command.
func (d *DebugDriver) Tx(ctx context.Context) (Tx, error) {
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	d.log.InfoContext(ctx, "driver.Tx started")
	return &DebugTx{tx, d.log, ctx}, nil
}

// DebugTx is a transaction implementation that logs all transaction operations.
type DebugTx struct {
	Tx               // underlying transaction.
	log *slog.Logger // log function.
	ctx context.Context
}

// Exec logs its compiled statement and calls the underlying transaction Exec method.
func (d *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	d.log.InfoContext(ctx, "tx.Exec", "query", query, "args", fmt.Sprintf("%v", args))
	return d.Tx.Exec(ctx, query, args, v)
}

// Query logs its compiled statement and calls the underlying transaction Query method.
func (d *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	d.log.InfoContext(ctx, "tx.Query", "query", query, "args", fmt.Sprintf("%v", args))
	return d.Tx.Query(ctx, query, args, v)
}

// Commit logs the commit and calls the underlying transaction Commit method.
func (d *DebugTx) Commit() error {
	d.log.InfoContext(d.ctx, "tx.Commit")
	return d.Tx.Commit()
}

// Rollback logs the rollback and calls the underlying transaction Rollback method.
func (d *DebugTx) Rollback() error {
	d.log.InfoContext(d.ctx, "tx.Rollback")
	return d.Tx.Rollback()
}

package sql

import (
	"strings"

	pgrequests "github.com/prawn-cake/pg-requests"
)

// InsertBuilder accumulates the declarations of an INSERT statement.
// Clause order is fixed: table, column/value list (or DEFAULT VALUES),
// RETURNING.
type InsertBuilder struct {
	stmt
	table     string
	columns   []string
	values    []any
	defaults  bool
	returning []string
}

// Set declares one column assignment. Assignments are emitted in call
// order, the value bound as a parameter.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	if !i.declare("Set") {
		return i
	}
	i.columns = append(i.columns, column)
	i.values = append(i.values, v)
	i.defaults = false
	return i
}

// Data declares one column assignment per map entry, in sorted key order
// for deterministic output.
func (i *InsertBuilder) Data(assignments map[string]any) *InsertBuilder {
	for _, k := range sortedKeys(assignments) {
		i.Set(k, assignments[k])
	}
	return i
}

// Defaults discards any declared assignments and inserts a row with all
// default values: INSERT INTO <table> DEFAULT VALUES.
func (i *InsertBuilder) Defaults() *InsertBuilder {
	if !i.declare("Defaults") {
		return i
	}
	i.columns, i.values = nil, nil
	i.defaults = true
	return i
}

// Returning declares the RETURNING field list. Empty entries are skipped.
func (i *InsertBuilder) Returning(fields ...string) *InsertBuilder {
	if !i.declare("Returning") {
		return i
	}
	for _, f := range fields {
		if f != "" {
			i.returning = append(i.returning, f)
		}
	}
	return i
}

// Query finalizes the statement. The first successful call compiles and
// caches the result; further calls return the identical CompiledQuery.
func (i *InsertBuilder) Query() (CompiledQuery, error) {
	if !i.done {
		// Errors recorded at declaration time come first; the structural
		// check must not mask them.
		if err := i.Err(); err != nil {
			return CompiledQuery{}, err
		}
		if !i.defaults && len(i.columns) == 0 {
			return CompiledQuery{}, pgrequests.NewInvalidDeclarationError("VALUES", "no values declared; use Set, Data or Defaults")
		}
	}
	return i.finalize(i.compile)
}

func (i *InsertBuilder) compile(b *Builder) {
	b.WriteString("INSERT INTO ")
	b.Ident(i.table)
	if i.defaults {
		b.WriteString(" DEFAULT VALUES")
	} else if len(i.columns) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(i.columns, ", "))
		b.WriteString(") VALUES (")
		b.Args(i.values...)
		b.WriteByte(')')
	}
	if len(i.returning) > 0 {
		b.WriteString(" RETURNING ")
		b.WriteString(strings.Join(i.returning, ", "))
	}
}

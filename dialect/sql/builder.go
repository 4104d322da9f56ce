// Package sql provides the statement builders of pg-requests: chainable
// accumulators that compile table, field, filter, join, ordering and
// pagination declarations into a single SQL statement plus its ordered
// bind parameters.
//
// Builders accumulate declarations in call order and emit nothing until
// finalized with Query. Finalize is idempotent: the compiled result is
// cached and repeated calls return the identical CompiledQuery. Every
// literal value is bound through a positional placeholder; the Nth
// placeholder always matches the Nth argument.
package sql

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	pgrequests "github.com/prawn-cake/pg-requests"
	"github.com/prawn-cake/pg-requests/dialect"
)

// CompiledQuery is the immutable result of a finalized statement: the SQL
// text and the bind parameters matching its placeholders one-to-one.
type CompiledQuery struct {
	SQL  string
	Args []any
}

// Querier is implemented by all statement builders.
type Querier interface {
	// Query finalizes the statement and returns the compiled result.
	Query() (CompiledQuery, error)
	// Dialect returns the dialect the statement compiles for.
	Dialect() string
}

// Builder is the raw SQL writer underneath the statement builders. It
// tracks the placeholder count so arguments keep their emission order.
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []any
}

// NewBuilder returns a raw builder for the given dialect.
func NewBuilder(dialect string) *Builder {
	return &Builder{dialect: dialect}
}

// WriteString appends s to the SQL text.
func (b *Builder) WriteString(s string) { b.sb.WriteString(s) }

// WriteByte appends c to the SQL text.
func (b *Builder) WriteByte(c byte) { b.sb.WriteByte(c) }

// Ident appends an identifier to the SQL text as-is. The compiler is
// schema-agnostic: identifiers are not quoted or checked for existence.
func (b *Builder) Ident(s string) { b.sb.WriteString(s) }

// Comma appends a comma-and-space separator.
func (b *Builder) Comma() { b.sb.WriteString(", ") }

// Arg appends v to the argument list and writes the matching positional
// placeholder: $n for Postgres, ? otherwise.
func (b *Builder) Arg(v any) {
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.sb.WriteByte('$')
		b.sb.WriteString(strconv.Itoa(len(b.args)))
		return
	}
	b.sb.WriteByte('?')
}

// Args appends each value in order.
func (b *Builder) Args(vs ...any) {
	for i, v := range vs {
		if i > 0 {
			b.Comma()
		}
		b.Arg(v)
	}
}

// String returns the accumulated SQL text.
func (b *Builder) String() string { return b.sb.String() }

// take returns the compiled result accumulated so far.
func (b *Builder) take() CompiledQuery {
	return CompiledQuery{SQL: b.sb.String(), Args: b.args}
}

// validIdentifierRe matches SQL identifiers: alphanumeric with
// underscores, dots allowed for schema.name qualification.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// stmt carries the state shared by all statement builders: the dialect,
// accumulated declaration errors, and the finalize latch with its cached
// result. Declarations are append-only until the first successful Query;
// afterwards the statement is immutable.
//
// A statement instance is not safe for concurrent mutation. Each logical
// query owns its own builder.
type stmt struct {
	dialect string
	errs    []error
	done    bool
	cached  CompiledQuery
}

// Dialect returns the dialect the statement compiles for.
func (s *stmt) Dialect() string { return s.dialect }

// Err returns the accumulated declaration errors, joined.
func (s *stmt) Err() error {
	return pgrequests.NewAggregateError(s.errs...)
}

func (s *stmt) addError(err error) {
	s.errs = append(s.errs, err)
}

// declare reports whether a declaration named op may proceed. After
// finalize it records an IllegalStateError and denies the mutation, so the
// cached result can never change.
func (s *stmt) declare(op string) bool {
	if s.done {
		s.addError(pgrequests.NewIllegalStateError(op))
		return false
	}
	return true
}

// finalize runs compile exactly once and caches its result. Declaration
// errors recorded up to this point fail the statement; no partial result
// is returned.
func (s *stmt) finalize(compile func(*Builder)) (CompiledQuery, error) {
	if s.done {
		return s.cached, nil
	}
	if err := s.Err(); err != nil {
		return CompiledQuery{}, err
	}
	b := NewBuilder(s.dialect)
	compile(b)
	s.cached = b.take()
	s.done = true
	return s.cached, nil
}

// checkTable validates a table name at declaration time. Anything that is
// not a plain identifier is rejected; table names cannot be bound as
// parameters and must never carry injected SQL.
func (s *stmt) checkTable(clause, name string) bool {
	if !isValidIdentifier(name) {
		s.addError(pgrequests.NewInvalidDeclarationError(clause, "suspicious table name "+strconv.Quote(name)))
		return false
	}
	return true
}

// sortedKeys returns the keys of m in sorted order, for deterministic
// compilation of map-shaped declarations.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DialectBuilder is the entry point for building statements against a
// specific dialect.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a new DialectBuilder for the given dialect name.
func Dialect(name string) DialectBuilder {
	return DialectBuilder{dialect: name}
}

// Select returns a SELECT statement builder for the given table.
func (d DialectBuilder) Select(table string) *SelectBuilder {
	s := &SelectBuilder{stmt: stmt{dialect: d.dialect}}
	s.checkTable("FROM", table)
	s.table = table
	return s
}

// CallFn returns a SELECT statement builder reading from a stored
// function: SELECT * FROM name(args...). Every argument is bound as a
// parameter.
func (d DialectBuilder) CallFn(name string, args ...any) *SelectBuilder {
	s := &SelectBuilder{stmt: stmt{dialect: d.dialect}}
	s.checkTable("FROM", name)
	s.fn = &fnCall{name: name, args: args}
	return s
}

// Insert returns an INSERT statement builder for the given table.
func (d DialectBuilder) Insert(table string) *InsertBuilder {
	i := &InsertBuilder{stmt: stmt{dialect: d.dialect}}
	i.checkTable("INSERT INTO", table)
	i.table = table
	return i
}

// Update returns an UPDATE statement builder for the given table.
func (d DialectBuilder) Update(table string) *UpdateBuilder {
	u := &UpdateBuilder{stmt: stmt{dialect: d.dialect}}
	u.checkTable("UPDATE", table)
	u.table = table
	return u
}

// Select returns a Postgres SELECT statement builder for the given table.
func Select(table string) *SelectBuilder {
	return Dialect(dialect.Postgres).Select(table)
}

// CallFn returns a Postgres stored-function SELECT builder.
func CallFn(name string, args ...any) *SelectBuilder {
	return Dialect(dialect.Postgres).CallFn(name, args...)
}

// Insert returns a Postgres INSERT statement builder for the given table.
func Insert(table string) *InsertBuilder {
	return Dialect(dialect.Postgres).Insert(table)
}

// Update returns a Postgres UPDATE statement builder for the given table.
func Update(table string) *UpdateBuilder {
	return Dialect(dialect.Postgres).Update(table)
}

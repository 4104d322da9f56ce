package sql

import (
	"strconv"
	"strings"

	pgrequests "github.com/prawn-cake/pg-requests"
)

// ColumnRef is an explicit marker for a column reference on the
// right-hand side of an UPDATE assignment. It is the single, deliberate
// exception to "always bind values": a ColumnRef is emitted as a bare SQL
// identifier, enabling value copies from a joined table
// (SET value = customers.value). Everything that is not a ColumnRef is
// bound as a parameter, so user data can never become SQL text by shape
// alone.
type ColumnRef struct {
	key string
}

// Column marks a lookup key as a column reference. The key is resolved
// with the usual lookup syntax, so Column("customers__value") refers to
// customers.value and Column("first_name") to the bare column.
func Column(key string) ColumnRef {
	return ColumnRef{key: key}
}

// Ident returns the SQL identifier the reference resolves to.
func (c ColumnRef) Ident() string {
	return ResolveKey(c.key).Ident()
}

type assignment struct {
	column string
	value  any
	ref    bool // value is a ColumnRef identifier, not a bound parameter
}

// UpdateBuilder accumulates the declarations of an UPDATE statement.
// Clause order is fixed: table, SET, FROM (if present), WHERE, RETURNING.
// SET precedes FROM because that is the only order PostgreSQL accepts for
// joined updates.
type UpdateBuilder struct {
	stmt
	table       string
	from        string
	assignments []assignment
	where       []*Predicate
	returning   []string
}

// Set declares one SET assignment. Assignments are emitted in call order.
// A ColumnRef value is emitted as an identifier; any other value is bound
// as a parameter. The column itself accepts lookup syntax, so
// Set("users__value", ...) assigns to users.value.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	if !u.declare("Set") {
		return u
	}
	a := assignment{column: ResolveKey(column).Ident()}
	if ref, ok := v.(ColumnRef); ok {
		ident := ref.Ident()
		if !isValidIdentifier(ident) {
			u.addError(pgrequests.NewInvalidDeclarationError("SET", "suspicious column reference "+strconv.Quote(ident)))
			return u
		}
		a.value, a.ref = ident, true
	} else {
		a.value = v
	}
	u.assignments = append(u.assignments, a)
	return u
}

// Data declares one SET assignment per map entry, in sorted key order for
// deterministic output.
func (u *UpdateBuilder) Data(assignments map[string]any) *UpdateBuilder {
	for _, k := range sortedKeys(assignments) {
		u.Set(k, assignments[k])
	}
	return u
}

// From declares the FROM clause of a joined update (PostgreSQL syntax):
// UPDATE t SET ... FROM other WHERE ...
func (u *UpdateBuilder) From(table string) *UpdateBuilder {
	if !u.declare("From") {
		return u
	}
	if !u.checkTable("FROM", table) {
		return u
	}
	u.from = table
	return u
}

// Filter declares one WHERE predicate from a lookup key and a value.
// Repeated calls are cumulative and AND-joined.
func (u *UpdateBuilder) Filter(key string, value any) *UpdateBuilder {
	if !u.declare("Filter") {
		return u
	}
	p, err := P(key, value)
	if err != nil {
		u.addError(err)
		return u
	}
	u.where = append(u.where, p)
	return u
}

// FilterMap declares one WHERE predicate per map entry, in sorted key
// order.
func (u *UpdateBuilder) FilterMap(conds map[string]any) *UpdateBuilder {
	for _, k := range sortedKeys(conds) {
		u.Filter(k, conds[k])
	}
	return u
}

// Returning declares the RETURNING field list. Empty entries are skipped.
func (u *UpdateBuilder) Returning(fields ...string) *UpdateBuilder {
	if !u.declare("Returning") {
		return u
	}
	for _, f := range fields {
		if f != "" {
			u.returning = append(u.returning, f)
		}
	}
	return u
}

// Query finalizes the statement. The first successful call compiles and
// caches the result; further calls return the identical CompiledQuery.
func (u *UpdateBuilder) Query() (CompiledQuery, error) {
	if !u.done {
		// Errors recorded at declaration time come first; the structural
		// check must not mask them.
		if err := u.Err(); err != nil {
			return CompiledQuery{}, err
		}
		if len(u.assignments) == 0 {
			return CompiledQuery{}, pgrequests.NewInvalidDeclarationError("SET", "no assignments declared; use Set or Data")
		}
	}
	return u.finalize(u.compile)
}

func (u *UpdateBuilder) compile(b *Builder) {
	b.WriteString("UPDATE ")
	b.Ident(u.table)
	b.WriteString(" SET ")
	for i, a := range u.assignments {
		if i > 0 {
			b.Comma()
		}
		b.Ident(a.column)
		b.WriteString(" = ")
		if a.ref {
			b.Ident(a.value.(string))
		} else {
			b.Arg(a.value)
		}
	}
	if u.from != "" {
		b.WriteString(" FROM ")
		b.Ident(u.from)
	}
	compilePredicates(b, "WHERE", u.where)
	if len(u.returning) > 0 {
		b.WriteString(" RETURNING ")
		b.WriteString(strings.Join(u.returning, ", "))
	}
}

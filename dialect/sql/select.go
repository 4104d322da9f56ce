package sql

import (
	"strconv"
	"strings"

	pgrequests "github.com/prawn-cake/pg-requests"
)

// JoinKind is the kind of a JOIN declaration.
type JoinKind int

// Supported join kinds. InnerJoin is the default.
const (
	InnerJoin JoinKind = iota
	LeftOuterJoin
	RightOuterJoin
	FullOuterJoin
	CrossJoin
)

var joinText = [...]string{
	InnerJoin:      "INNER JOIN",
	LeftOuterJoin:  "LEFT OUTER JOIN",
	RightOuterJoin: "RIGHT OUTER JOIN",
	FullOuterJoin:  "FULL OUTER JOIN",
	CrossJoin:      "CROSS JOIN",
}

// SQL returns the SQL text of the join kind.
func (k JoinKind) SQL() string { return joinText[k] }

func (k JoinKind) valid() bool {
	return k >= InnerJoin && k <= CrossJoin
}

// join is one JOIN ... USING declaration. Only USING joins are modeled;
// JOIN ... ON is out of scope.
type join struct {
	kind  JoinKind
	table string
	using []string
}

type order struct {
	field string
	desc  bool
}

type fnCall struct {
	name string
	args []any
}

// SelectBuilder accumulates the declarations of a SELECT statement.
// Declarations are recorded in call order; SQL is emitted only on Query,
// in fixed clause order: fields, FROM/JOIN, WHERE, GROUP BY, HAVING,
// ORDER BY, LIMIT, OFFSET.
type SelectBuilder struct {
	stmt
	table   string
	alias   string
	fields  []string
	fn      *fnCall
	joins   []join
	where   []*Predicate
	groupBy []string
	having  []*Predicate
	orderBy []order
	limit   *int
	offset  *int
}

// From re-targets the statement at the given table, replacing the one the
// builder was created with.
func (s *SelectBuilder) From(table string) *SelectBuilder {
	if !s.declare("From") {
		return s
	}
	if !s.checkTable("FROM", table) {
		return s
	}
	s.table = table
	s.fn = nil
	return s
}

// As sets an alias for the selected table: FROM <table> AS <alias>.
func (s *SelectBuilder) As(alias string) *SelectBuilder {
	if !s.declare("As") {
		return s
	}
	if !isValidIdentifier(alias) {
		s.addError(pgrequests.NewInvalidDeclarationError("AS", "suspicious alias "+strconv.Quote(alias)))
		return s
	}
	s.alias = alias
	return s
}

// Fields declares the field list. Each entry is an identifier or a
// function-call expression (see Count, Fn). Empty entries are skipped;
// with no fields declared the statement selects *.
func (s *SelectBuilder) Fields(fields ...string) *SelectBuilder {
	if !s.declare("Fields") {
		return s
	}
	for _, f := range fields {
		if f != "" {
			s.fields = append(s.fields, f)
		}
	}
	return s
}

// Filter declares one WHERE predicate from a lookup key and a value.
// Repeated calls are cumulative: all predicates are AND-joined. An arity
// mismatch between the key's operator and the value shape is recorded as
// an InvalidPredicateError and fails the statement at Query time.
func (s *SelectBuilder) Filter(key string, value any) *SelectBuilder {
	if !s.declare("Filter") {
		return s
	}
	p, err := P(key, value)
	if err != nil {
		s.addError(err)
		return s
	}
	s.where = append(s.where, p)
	return s
}

// FilterMap declares one WHERE predicate per map entry, in sorted key
// order for deterministic output.
func (s *SelectBuilder) FilterMap(conds map[string]any) *SelectBuilder {
	for _, k := range sortedKeys(conds) {
		s.Filter(k, conds[k])
	}
	return s
}

// Join declares an INNER JOIN with the given USING columns.
func (s *SelectBuilder) Join(table string, using ...string) *SelectBuilder {
	return s.AddJoin(InnerJoin, table, using...)
}

// LeftJoin declares a LEFT OUTER JOIN with the given USING columns.
func (s *SelectBuilder) LeftJoin(table string, using ...string) *SelectBuilder {
	return s.AddJoin(LeftOuterJoin, table, using...)
}

// RightJoin declares a RIGHT OUTER JOIN with the given USING columns.
func (s *SelectBuilder) RightJoin(table string, using ...string) *SelectBuilder {
	return s.AddJoin(RightOuterJoin, table, using...)
}

// FullJoin declares a FULL OUTER JOIN with the given USING columns.
func (s *SelectBuilder) FullJoin(table string, using ...string) *SelectBuilder {
	return s.AddJoin(FullOuterJoin, table, using...)
}

// CrossJoin declares a CROSS JOIN. Cross joins take no USING columns.
func (s *SelectBuilder) CrossJoin(table string) *SelectBuilder {
	return s.AddJoin(CrossJoin, table)
}

// AddJoin declares a join of the given kind. Joins are emitted in
// declaration order after the FROM clause. Non-cross joins require a
// non-empty USING column list; cross joins reject one.
func (s *SelectBuilder) AddJoin(kind JoinKind, table string, using ...string) *SelectBuilder {
	if !s.declare("Join") {
		return s
	}
	if !kind.valid() {
		s.addError(pgrequests.NewInvalidDeclarationError("JOIN", "unsupported join kind "+strconv.Itoa(int(kind))))
		return s
	}
	if !s.checkTable("JOIN", table) {
		return s
	}
	switch {
	case kind == CrossJoin && len(using) > 0:
		s.addError(pgrequests.NewInvalidDeclarationError("JOIN", "CROSS JOIN takes no USING columns"))
		return s
	case kind != CrossJoin && len(using) == 0:
		s.addError(pgrequests.NewInvalidDeclarationError("JOIN", "empty USING column list for join on "+table))
		return s
	}
	s.joins = append(s.joins, join{kind: kind, table: table, using: using})
	return s
}

// GroupBy declares the GROUP BY field list. Empty entries are skipped.
func (s *SelectBuilder) GroupBy(fields ...string) *SelectBuilder {
	if !s.declare("GroupBy") {
		return s
	}
	for _, f := range fields {
		if f != "" {
			s.groupBy = append(s.groupBy, f)
		}
	}
	return s
}

// Having declares one HAVING predicate from a lookup key and a value.
// Repeated calls are cumulative and AND-joined, like Filter.
func (s *SelectBuilder) Having(key string, value any) *SelectBuilder {
	if !s.declare("Having") {
		return s
	}
	p, err := P(key, value)
	if err != nil {
		s.addError(err)
		return s
	}
	s.having = append(s.having, p)
	return s
}

// OrderBy appends fields to the ORDER BY list in ascending order.
func (s *SelectBuilder) OrderBy(fields ...string) *SelectBuilder {
	if !s.declare("OrderBy") {
		return s
	}
	for _, f := range fields {
		if f != "" {
			s.orderBy = append(s.orderBy, order{field: f})
		}
	}
	return s
}

// Desc flips the direction of all ORDER BY fields declared so far to
// descending. Fields added afterwards default to ascending again.
func (s *SelectBuilder) Desc() *SelectBuilder {
	if !s.declare("Desc") {
		return s
	}
	for i := range s.orderBy {
		s.orderBy[i].desc = true
	}
	return s
}

// Limit declares the LIMIT clause. Negative values are rejected at
// declaration time.
func (s *SelectBuilder) Limit(n int) *SelectBuilder {
	if !s.declare("Limit") {
		return s
	}
	if n < 0 {
		s.addError(pgrequests.NewInvalidDeclarationError("LIMIT", "negative value "+strconv.Itoa(n)))
		return s
	}
	s.limit = &n
	return s
}

// Offset declares the OFFSET clause. Negative values are rejected at
// declaration time.
func (s *SelectBuilder) Offset(n int) *SelectBuilder {
	if !s.declare("Offset") {
		return s
	}
	if n < 0 {
		s.addError(pgrequests.NewInvalidDeclarationError("OFFSET", "negative value "+strconv.Itoa(n)))
		return s
	}
	s.offset = &n
	return s
}

// Query finalizes the statement. The first successful call compiles and
// caches the result; further calls return the identical CompiledQuery.
func (s *SelectBuilder) Query() (CompiledQuery, error) {
	return s.finalize(s.compile)
}

func (s *SelectBuilder) compile(b *Builder) {
	b.WriteString("SELECT ")
	if len(s.fields) == 0 {
		b.WriteByte('*')
	} else {
		b.WriteString(strings.Join(s.fields, ", "))
	}
	if s.fn != nil {
		b.WriteString(" FROM ")
		b.Ident(s.fn.name)
		b.WriteByte('(')
		b.Args(s.fn.args...)
		b.WriteByte(')')
	} else {
		b.WriteString(" FROM ")
		b.Ident(s.table)
		if s.alias != "" {
			b.WriteString(" AS ")
			b.Ident(s.alias)
		}
	}
	for _, j := range s.joins {
		b.WriteByte(' ')
		b.WriteString(j.kind.SQL())
		b.WriteByte(' ')
		b.Ident(j.table)
		if len(j.using) > 0 {
			b.WriteString(" USING (")
			b.WriteString(strings.Join(j.using, ", "))
			b.WriteByte(')')
		}
	}
	compilePredicates(b, "WHERE", s.where)
	if len(s.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(s.groupBy, ", "))
	}
	compilePredicates(b, "HAVING", s.having)
	if len(s.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.orderBy {
			if i > 0 {
				b.Comma()
			}
			b.Ident(o.field)
			if o.desc {
				b.WriteString(" DESC")
			}
		}
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(*s.offset))
	}
}

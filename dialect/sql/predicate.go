package sql

import (
	"reflect"

	pgrequests "github.com/prawn-cake/pg-requests"
)

// Predicate is a single WHERE (or HAVING) term: a resolved lookup key and
// the value(s) it compares against. Arity is validated on construction,
// before any SQL is emitted.
type Predicate struct {
	key    LookupKey
	raw    string // key as written, for error messages
	value  any    // scalar operators
	values []any  // multi-valued operators (IN)
}

// P resolves key and builds a Predicate for the given value. The key must
// resolve to a non-empty field name. Multi-valued operators require a
// non-empty slice or array value; scalar operators reject sequence values.
// []byte counts as a scalar (a blob literal).
func P(key string, value any) (*Predicate, error) {
	k := ResolveKey(key)
	if k.Field == "" {
		return nil, pgrequests.NewInvalidPredicateError(key, "empty field name")
	}
	seq, isSeq := sequenceValues(value)
	if k.Op.Multi() {
		if !isSeq {
			return nil, pgrequests.NewInvalidPredicateError(key, "IN requires a sequence value")
		}
		if len(seq) == 0 {
			return nil, pgrequests.NewInvalidPredicateError(key, "IN requires a non-empty sequence")
		}
		return &Predicate{key: k, raw: key, values: seq}, nil
	}
	if isSeq {
		return nil, pgrequests.NewInvalidPredicateError(key, "operator "+k.Op.SQL()+" requires a scalar value")
	}
	return &Predicate{key: k, raw: key, value: value}, nil
}

// compile writes "<ident> <op> <placeholder(s)>" to b and appends the
// predicate's values to b's argument list in their original order.
// Pattern-matching values (LIKE, ILIKE, SIMILAR TO) are bound unmodified;
// the pattern syntax is the caller's responsibility.
func (p *Predicate) compile(b *Builder) {
	b.Ident(p.key.Ident())
	b.WriteByte(' ')
	b.WriteString(p.key.Op.SQL())
	b.WriteByte(' ')
	if p.key.Op.Multi() {
		b.WriteByte('(')
		for i, v := range p.values {
			if i > 0 {
				b.Comma()
			}
			b.Arg(v)
		}
		b.WriteByte(')')
		return
	}
	b.Arg(p.value)
}

// compilePredicates writes a parenthesized, AND-joined predicate list
// prefixed by the given keyword ("WHERE" or "HAVING"). Nothing is written
// when the list is empty.
func compilePredicates(b *Builder, keyword string, ps []*Predicate) {
	if len(ps) == 0 {
		return
	}
	b.WriteByte(' ')
	b.WriteString(keyword)
	b.WriteString(" ( ")
	for i, p := range ps {
		if i > 0 {
			b.WriteString(" AND ")
		}
		p.compile(b)
	}
	b.WriteString(" )")
}

// sequenceValues flattens slice and array values into []any. []byte and
// nil are scalars, not sequences.
func sequenceValues(v any) ([]any, bool) {
	switch v := v.(type) {
	case nil, []byte:
		return nil, false
	case []any:
		return v, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

package sql

import "strings"

// Op represents a comparison operator recognized in lookup-key suffixes.
type Op int

// Comparison operators, in lookup-suffix order. OpEQ is the implicit
// default when a key carries no recognized suffix.
const (
	OpEQ        Op = iota // =
	OpGT                  // >
	OpGTE                 // >=
	OpLT                  // <
	OpLTE                 // <=
	OpIn                  // IN
	OpLike                // LIKE
	OpILike               // ILIKE
	OpSimilarTo           // SIMILAR TO
)

var opText = [...]string{
	OpEQ:        "=",
	OpGT:        ">",
	OpGTE:       ">=",
	OpLT:        "<",
	OpLTE:       "<=",
	OpIn:        "IN",
	OpLike:      "LIKE",
	OpILike:     "ILIKE",
	OpSimilarTo: "SIMILAR TO",
}

// SQL returns the SQL text of the operator.
func (o Op) SQL() string { return opText[o] }

// Multi reports whether the operator takes a sequence of values rather
// than a single scalar.
func (o Op) Multi() bool { return o == OpIn }

// lookupOps is the operator registry: a fixed, case-sensitive mapping from
// lookup-key suffixes to operators. Initialized once, never mutated, and
// therefore safe for unsynchronized concurrent reads.
var lookupOps = map[string]Op{
	"gt":         OpGT,
	"gte":        OpGTE,
	"lt":         OpLT,
	"lte":        OpLTE,
	"in":         OpIn,
	"like":       OpLike,
	"ilike":      OpILike,
	"similar_to": OpSimilarTo,
}

// lookupSep delimits qualifier, field and operator tokens in a lookup key.
const lookupSep = "__"

// LookupKey is the resolved form of a filter's string key: an optional
// table qualifier, a field name and a comparison operator. A LookupKey is
// constructed once per filter declaration and immutable thereafter.
type LookupKey struct {
	Qualifier string
	Field     string
	Op        Op
}

// Ident returns the SQL identifier the key addresses: "qualifier.field"
// when a qualifier is present, the bare field name otherwise.
func (k LookupKey) Ident() string {
	if k.Qualifier != "" {
		return k.Qualifier + "." + k.Field
	}
	return k.Field
}

// ResolveKey parses a compound lookup key into a LookupKey.
//
// The key is split on double underscores. If the last token is a known
// operator suffix it is consumed as the operator; of the remaining tokens
// the first becomes the qualifier and the rest, rejoined, the field
// ("users__last_name__gte" -> users.last_name >=). If the last token is
// not a known suffix, no operator is consumed and only the first delimiter
// separates an optional qualifier from the field ("users__name" ->
// users.name =). A key without delimiters is a plain field with equality;
// field names containing single underscores pass through untouched.
//
// Resolution is total: every input yields a LookupKey, worst case the
// whole key as the field name with OpEQ.
func ResolveKey(raw string) LookupKey {
	parts := strings.Split(raw, lookupSep)
	if last := parts[len(parts)-1]; len(parts) > 1 {
		if op, ok := lookupOps[last]; ok {
			rest := parts[:len(parts)-1]
			if len(rest) == 1 {
				return LookupKey{Field: rest[0], Op: op}
			}
			return LookupKey{
				Qualifier: rest[0],
				Field:     strings.Join(rest[1:], lookupSep),
				Op:        op,
			}
		}
	}
	if i := strings.Index(raw, lookupSep); i >= 0 {
		return LookupKey{
			Qualifier: raw[:i],
			Field:     raw[i+len(lookupSep):],
			Op:        OpEQ,
		}
	}
	return LookupKey{Field: raw, Op: OpEQ}
}

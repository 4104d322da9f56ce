// Package querydef loads declarative statement definitions from YAML and
// builds them into compiled statements. Definitions let applications keep
// their canned queries in configuration; the builder API stays the escape
// hatch for anything dynamic.
package querydef

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/prawn-cake/pg-requests/dialect"
	"github.com/prawn-cake/pg-requests/dialect/sql"
)

// Statement kinds accepted in a definition.
const (
	KindSelect = "select"
	KindInsert = "insert"
	KindUpdate = "update"
	KindCall   = "call"
)

// Definition is one named statement definition.
type Definition struct {
	// Name uniquely identifies the definition within its set.
	Name string `yaml:"name"`

	// Kind is the statement kind: select, insert, update or call.
	Kind string `yaml:"kind"`

	// Dialect selects the placeholder style. Defaults to postgres.
	Dialect string `yaml:"dialect,omitempty"`

	// Table is the target table, or the function name for call.
	Table string `yaml:"table"`

	// Fields is the SELECT field list.
	Fields []string `yaml:"fields,omitempty"`

	// Filter holds WHERE conditions in lookup-key syntax
	// (field, field__op, table__field). Compiled in sorted key order.
	Filter map[string]any `yaml:"filter,omitempty"`

	// Joins declares JOIN ... USING clauses, in order.
	Joins []JoinDef `yaml:"joins,omitempty"`

	// GroupBy is the GROUP BY field list.
	GroupBy []string `yaml:"group_by,omitempty"`

	// Having holds HAVING conditions in lookup-key syntax.
	Having map[string]any `yaml:"having,omitempty"`

	// OrderBy is the ORDER BY field list; Desc flips all of it.
	OrderBy []string `yaml:"order_by,omitempty"`
	Desc    bool     `yaml:"desc,omitempty"`

	Limit  *int `yaml:"limit,omitempty"`
	Offset *int `yaml:"offset,omitempty"`

	// Values holds column assignments for insert and update, compiled in
	// sorted key order.
	Values map[string]any `yaml:"values,omitempty"`

	// Args holds the bound arguments of a call definition, in order.
	Args []any `yaml:"args,omitempty"`

	// Returning is the RETURNING field list for insert and update.
	Returning []string `yaml:"returning,omitempty"`
}

// JoinDef is one JOIN declaration of a select definition.
type JoinDef struct {
	// Kind is inner, left, right, full or cross. Defaults to inner.
	Kind  string   `yaml:"kind,omitempty"`
	Table string   `yaml:"table"`
	Using []string `yaml:"using,omitempty"`
}

var joinKinds = map[string]sql.JoinKind{
	"":      sql.InnerJoin,
	"inner": sql.InnerJoin,
	"left":  sql.LeftOuterJoin,
	"right": sql.RightOuterJoin,
	"full":  sql.FullOuterJoin,
	"cross": sql.CrossJoin,
}

// Set is a named collection of definitions, as loaded from one document.
type Set struct {
	defs map[string]*Definition
}

// Load parses a YAML document of definitions. The document is a mapping
// with a top-level "queries" list. Unknown fields are rejected to catch
// typos early.
func Load(r io.Reader) (*Set, error) {
	var doc struct {
		Queries []*Definition `yaml:"queries"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("querydef: parse: %w", err)
	}
	s := &Set{defs: make(map[string]*Definition, len(doc.Queries))}
	for i, def := range doc.Queries {
		if err := validate(def); err != nil {
			return nil, fmt.Errorf("querydef: queries[%d]: %w", i, err)
		}
		if _, dup := s.defs[def.Name]; dup {
			return nil, fmt.Errorf("querydef: duplicate definition %q", def.Name)
		}
		s.defs[def.Name] = def
	}
	return s, nil
}

// LoadBytes parses a YAML document of definitions from memory.
func LoadBytes(data []byte) (*Set, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile parses a YAML document of definitions from a file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("querydef: read %s: %w", path, err)
	}
	return LoadBytes(data)
}

// Names returns the names of all loaded definitions, unordered.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.defs))
	for n := range s.defs {
		names = append(names, n)
	}
	return names
}

// Builder returns a fresh statement builder for the named definition.
// Every call builds a new statement, so callers may finalize or extend it
// independently.
func (s *Set) Builder(name string) (sql.Querier, error) {
	def, ok := s.defs[name]
	if !ok {
		return nil, fmt.Errorf("querydef: unknown definition %q", name)
	}
	return build(def)
}

// Compile builds and finalizes the named definition.
func (s *Set) Compile(name string) (sql.CompiledQuery, error) {
	st, err := s.Builder(name)
	if err != nil {
		return sql.CompiledQuery{}, err
	}
	return st.Query()
}

func validate(d *Definition) error {
	if d == nil {
		return fmt.Errorf("definition is empty")
	}
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Table == "" {
		return fmt.Errorf("table is required")
	}
	switch d.Kind {
	case KindSelect, KindCall:
	case KindInsert, KindUpdate:
		if len(d.Values) == 0 {
			return fmt.Errorf("%s definition %q requires values", d.Kind, d.Name)
		}
	default:
		return fmt.Errorf("unknown kind %q", d.Kind)
	}
	for i, j := range d.Joins {
		if _, ok := joinKinds[j.Kind]; !ok {
			return fmt.Errorf("joins[%d]: unknown join kind %q", i, j.Kind)
		}
		if j.Table == "" {
			return fmt.Errorf("joins[%d]: table is required", i)
		}
	}
	return nil
}

func build(d *Definition) (sql.Querier, error) {
	db := sql.Dialect(d.dialectName())
	switch d.Kind {
	case KindSelect:
		return buildSelect(db, d), nil
	case KindCall:
		return db.CallFn(d.Table, d.Args...), nil
	case KindInsert:
		ins := db.Insert(d.Table).Data(d.Values)
		if len(d.Returning) > 0 {
			ins.Returning(d.Returning...)
		}
		return ins, nil
	case KindUpdate:
		upd := db.Update(d.Table).Data(d.Values).FilterMap(d.Filter)
		if len(d.Returning) > 0 {
			upd.Returning(d.Returning...)
		}
		return upd, nil
	}
	return nil, fmt.Errorf("querydef: unknown kind %q", d.Kind)
}

func buildSelect(db sql.DialectBuilder, d *Definition) *sql.SelectBuilder {
	st := db.Select(d.Table).Fields(d.Fields...).FilterMap(d.Filter)
	for _, j := range d.Joins {
		st.AddJoin(joinKinds[j.Kind], j.Table, j.Using...)
	}
	st.GroupBy(d.GroupBy...)
	for _, k := range sortedKeys(d.Having) {
		st.Having(k, d.Having[k])
	}
	st.OrderBy(d.OrderBy...)
	if d.Desc {
		st.Desc()
	}
	if d.Limit != nil {
		st.Limit(*d.Limit)
	}
	if d.Offset != nil {
		st.Offset(*d.Offset)
	}
	return st
}

// sortedKeys keeps map-shaped definition entries deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Definition) dialectName() string {
	if d.Dialect == "" {
		return dialect.Postgres
	}
	return d.Dialect
}

package querydef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgrequests "github.com/prawn-cake/pg-requests"
)

const sampleDoc = `
queries:
  - name: active_users
    kind: select
    table: users
    fields: [id, name]
    filter:
      visits__gte: 5
    order_by: [created_at]
    desc: true
    limit: 10

  - name: user_orders
    kind: select
    table: users
    joins:
      - table: orders
        using: [user_id]
    filter:
      users__name: Mr.Robot

  - name: create_user
    kind: insert
    table: users
    values:
      name: Mr.Robot
      login: anonymous
    returning: [id]

  - name: reset_visits
    kind: update
    table: users
    values:
      visits: 0
    filter:
      id: 1

  - name: user_report
    kind: call
    table: user_report
    args: [2016, true]
`

func loadSample(t *testing.T) *Set {
	t.Helper()
	s, err := LoadBytes([]byte(sampleDoc))
	require.NoError(t, err)
	return s
}

func TestCompileSelect(t *testing.T) {
	s := loadSample(t)
	q, err := s.Compile("active_users")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name FROM users WHERE ( visits >= $1 ) ORDER BY created_at DESC LIMIT 10",
		q.SQL,
	)
	assert.Equal(t, []any{5}, q.Args)
}

func TestCompileJoin(t *testing.T) {
	s := loadSample(t)
	q, err := s.Compile("user_orders")
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM users INNER JOIN orders USING (user_id) WHERE ( users.name = $1 )",
		q.SQL,
	)
	assert.Equal(t, []any{"Mr.Robot"}, q.Args)
}

func TestCompileInsert(t *testing.T) {
	s := loadSample(t)
	q, err := s.Compile("create_user")
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (login, name) VALUES ($1, $2) RETURNING id", q.SQL)
	assert.Equal(t, []any{"anonymous", "Mr.Robot"}, q.Args)
}

func TestCompileUpdate(t *testing.T) {
	s := loadSample(t)
	q, err := s.Compile("reset_visits")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET visits = $1 WHERE ( id = $2 )", q.SQL)
	assert.Equal(t, []any{0, 1}, q.Args)
}

func TestCompileCall(t *testing.T) {
	s := loadSample(t)
	q, err := s.Compile("user_report")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM user_report($1, $2)", q.SQL)
	assert.Equal(t, []any{2016, true}, q.Args)
}

func TestBuilderReturnsFreshStatement(t *testing.T) {
	s := loadSample(t)
	first, err := s.Builder("active_users")
	require.NoError(t, err)
	second, err := s.Builder("active_users")
	require.NoError(t, err)
	// Finalizing one statement must not latch the other.
	_, err = first.Query()
	require.NoError(t, err)
	q, err := second.Query()
	require.NoError(t, err)
	assert.NotEmpty(t, q.SQL)
}

func TestCompileUnknownName(t *testing.T) {
	s := loadSample(t)
	_, err := s.Compile("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown definition")
}

func TestCompileBadFilterSurfacesPredicateError(t *testing.T) {
	s, err := LoadBytes([]byte(`
queries:
  - name: bad
    kind: select
    table: users
    filter:
      id__in: []
`))
	require.NoError(t, err)
	_, err = s.Compile("bad")
	require.Error(t, err)
	assert.True(t, pgrequests.IsInvalidPredicate(err))
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "UnknownField",
			doc:  "queries:\n  - name: x\n    kind: select\n    table: users\n    filtre: {}\n",
			want: "parse",
		},
		{
			name: "MissingName",
			doc:  "queries:\n  - kind: select\n    table: users\n",
			want: "name is required",
		},
		{
			name: "MissingTable",
			doc:  "queries:\n  - name: x\n    kind: select\n",
			want: "table is required",
		},
		{
			name: "UnknownKind",
			doc:  "queries:\n  - name: x\n    kind: upsert\n    table: users\n",
			want: "unknown kind",
		},
		{
			name: "InsertWithoutValues",
			doc:  "queries:\n  - name: x\n    kind: insert\n    table: users\n",
			want: "requires values",
		},
		{
			name: "BadJoinKind",
			doc:  "queries:\n  - name: x\n    kind: select\n    table: users\n    joins:\n      - kind: diagonal\n        table: orders\n",
			want: "unknown join kind",
		},
		{
			name: "Duplicate",
			doc:  "queries:\n  - name: x\n    kind: select\n    table: users\n  - name: x\n    kind: select\n    table: orders\n",
			want: "duplicate definition",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

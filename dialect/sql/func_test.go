package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFn(t *testing.T) {
	assert.Equal(t, "COALESCE(name, login)", Fn("COALESCE", "name", "login"))
	assert.Equal(t, "NOW()", Fn("NOW"))
}

func TestAggregates(t *testing.T) {
	assert.Equal(t, "COUNT(*)", Count("*"))
	assert.Equal(t, "AVG(visits)", Avg("visits"))
	assert.Equal(t, "MIN(created_at)", Min("created_at"))
	assert.Equal(t, "MAX(created_at)", Max("created_at"))
	assert.Equal(t, "SUM(amount)", Sum("amount"))
}

func TestAs(t *testing.T) {
	assert.Equal(t, "COUNT(*) AS cnt", As(Count("*"), "cnt"))
}

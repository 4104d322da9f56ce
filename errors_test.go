package pgrequests_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pgrequests "github.com/prawn-cake/pg-requests"
)

func TestInvalidPredicateError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := pgrequests.NewInvalidPredicateError("id__in", "IN requires a non-empty sequence")
		assert.Equal(t, `pgrequests: predicate "id__in": IN requires a non-empty sequence`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := pgrequests.NewInvalidPredicateError("age__gt", "scalar value expected")
		assert.True(t, errors.Is(err, pgrequests.ErrInvalidPredicate))
	})

	t.Run("IsInvalidPredicate", func(t *testing.T) {
		err := pgrequests.NewInvalidPredicateError("age__gt", "scalar value expected")
		assert.True(t, pgrequests.IsInvalidPredicate(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, pgrequests.IsInvalidPredicate(wrapped))

		// Sentinel error
		assert.True(t, pgrequests.IsInvalidPredicate(pgrequests.ErrInvalidPredicate))

		// Non-matching error
		assert.False(t, pgrequests.IsInvalidPredicate(errors.New("other error")))
		assert.False(t, pgrequests.IsInvalidPredicate(nil))
	})
}

func TestInvalidDeclarationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := pgrequests.NewInvalidDeclarationError("LIMIT", "negative value -1")
		assert.Equal(t, "pgrequests: LIMIT: negative value -1", err.Error())
	})

	t.Run("ErrorWithoutClause", func(t *testing.T) {
		err := pgrequests.NewInvalidDeclarationError("", "something went wrong")
		assert.Equal(t, "pgrequests: something went wrong", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := pgrequests.NewInvalidDeclarationError("JOIN", "empty USING column list")
		assert.True(t, errors.Is(err, pgrequests.ErrInvalidDeclaration))
		assert.True(t, pgrequests.IsInvalidDeclaration(err))
		assert.False(t, pgrequests.IsInvalidDeclaration(errors.New("other")))
	})
}

func TestIllegalStateError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := pgrequests.NewIllegalStateError("Filter")
		assert.Equal(t, "pgrequests: Filter called after statement was finalized", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := pgrequests.NewIllegalStateError("Limit")
		assert.True(t, errors.Is(err, pgrequests.ErrIllegalState))
		assert.True(t, pgrequests.IsIllegalState(err))
		assert.True(t, pgrequests.IsIllegalState(fmt.Errorf("wrap: %w", err)))
		assert.False(t, pgrequests.IsIllegalState(nil))
	})
}

func TestAggregateError(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.NoError(t, pgrequests.NewAggregateError())
		assert.NoError(t, pgrequests.NewAggregateError(nil, nil))
	})

	t.Run("Single", func(t *testing.T) {
		err := pgrequests.NewInvalidDeclarationError("OFFSET", "negative value -5")
		assert.Equal(t, err, pgrequests.NewAggregateError(nil, err))
	})

	t.Run("Multiple", func(t *testing.T) {
		first := pgrequests.NewInvalidDeclarationError("LIMIT", "negative value -1")
		second := pgrequests.NewIllegalStateError("OrderBy")
		err := pgrequests.NewAggregateError(first, second)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "[1]")
		assert.Contains(t, err.Error(), "[2]")

		// errors.Is traverses the aggregate.
		assert.True(t, errors.Is(err, pgrequests.ErrInvalidDeclaration))
		assert.True(t, errors.Is(err, pgrequests.ErrIllegalState))
	})
}

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdminChecker(t *testing.T) {
	t.Run("EmptyListRejected", func(t *testing.T) {
		checker, err := NewAdminChecker(nil)
		assert.Error(t, err)
		assert.Nil(t, checker)
	})

	t.Run("ValidList", func(t *testing.T) {
		checker, err := NewAdminChecker([]int64{100, 200})
		require.NoError(t, err)
		assert.NotNil(t, checker)
	})
}

func TestIsAdmin(t *testing.T) {
	checker, err := NewAdminChecker([]int64{100, 200})
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []int64{100, 200} {
		isAdmin, err := checker.IsAdmin(ctx, id)
		assert.NoError(t, err)
		assert.True(t, isAdmin, "user %d is on the allow-list", id)
	}

	isAdmin, err := checker.IsAdmin(ctx, 300)
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}

package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	m := NewManager()

	_, ok := m.GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := m.SetUserIDToContext(context.Background(), 42)
	userID, ok := m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)

	ctx = m.SetUserIDToContext(ctx, 7)
	userID, ok = m.GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), userID)

	_, ok = m.GetUserIDFromContext(m.SetUserIDToContext(context.Background(), 0))
	assert.False(t, ok)
}

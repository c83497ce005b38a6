package reqid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContextKeepsSuppliedID(t *testing.T) {
	ctx, id := NewContext(context.Background(), "req-123")
	require.Equal(t, "req-123", id)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, "req-123", got)
}

func TestNewContextGeneratesID(t *testing.T) {
	ctx, id := NewContext(context.Background(), "")
	require.NotEmpty(t, id)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, id, got)

	_, other := NewContext(context.Background(), "")
	require.NotEqual(t, id, other)
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)
}

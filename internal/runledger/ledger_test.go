package runledger

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAttempt_Monotonic(t *testing.T) {
	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()

	ctx := context.Background()
	for want := 1; want <= 3; want++ {
		got, err := l.NextAttempt(ctx, "h1", "2026-01-05T00:00:00", "2026-01-09T23:59:59")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNextAttempt_IndependentKeys(t *testing.T) {
	l, err := Open(":memory:")
	require.NoError(t, err)
	defer l.Close()

	ctx := context.Background()
	_, err = l.NextAttempt(ctx, "h1", "2026-01-05T00:00:00", "2026-01-09T23:59:59")
	require.NoError(t, err)

	got, err := l.NextAttempt(ctx, "h2", "2026-01-05T00:00:00", "2026-01-09T23:59:59")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = l.NextAttempt(ctx, "h1", "2026-01-12T00:00:00", "2026-01-16T23:59:59")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestRunID_StableHashPrefix(t *testing.T) {
	a := RunID("h1", "2026-01-05T00:00:00", "2026-01-09T23:59:59", 1)
	b := RunID("h1", "2026-01-05T00:00:00", "2026-01-09T23:59:59", 2)
	c := RunID("h2", "2026-01-05T00:00:00", "2026-01-09T23:59:59", 1)

	prefix := func(s string) string { return s[:strings.LastIndex(s, "-")] }
	assert.Equal(t, prefix(a), prefix(b))
	assert.NotEqual(t, prefix(a), prefix(c))
	assert.True(t, strings.HasSuffix(a, "-1"))
	assert.True(t, strings.HasSuffix(b, "-2"))
}

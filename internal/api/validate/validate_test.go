package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	assert.NoError(t, Timestamp("windowStartDate", "2026-01-05T09:00:00"))
	assert.Error(t, Timestamp("windowStartDate", ""))
	assert.Error(t, Timestamp("windowStartDate", "2026-01-05"))
	assert.Error(t, Timestamp("windowStartDate", "2026-01-05T09:00:00Z"))
}

func TestWindow(t *testing.T) {
	assert.NoError(t, Window("2026-01-05T00:00:00", "2026-01-09T23:59:59"))
	assert.Error(t, Window("2026-01-09T00:00:00", "2026-01-05T00:00:00"))
	assert.Error(t, Window("2026-01-05T00:00:00", "2026-01-05T00:00:00"))
	assert.Error(t, Window("", "2026-01-09T23:59:59"))
}

func TestTimezone(t *testing.T) {
	assert.NoError(t, Timezone("America/New_York"))
	assert.Error(t, Timezone(""))
	assert.Error(t, Timezone("Mars/Olympus"))
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("userId", "u1"))
	assert.EqualError(t, NonEmpty("userId", ""), "userId is required")
}

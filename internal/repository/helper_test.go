package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFormatTime tests that stored timestamps sort lexically in time order.
func TestFormatTime(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	earlier := FormatTime(base.Add(250 * time.Millisecond))
	later := FormatTime(base.Add(500 * time.Millisecond))

	assert.Less(t, earlier, later)
	assert.Equal(t, "2024-01-01T00:00:00.250000000Z", earlier)
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01T00:00:00.250000000Z", time.Date(2024, 1, 1, 0, 0, 0, 250000000, time.UTC)},
		{"2024-01-01T02:00:00+02:00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestInClause(t *testing.T) {
	placeholders, args := inClause([]string{"a", "b", "c"})
	assert.Equal(t, "?,?,?", placeholders)
	assert.Equal(t, []any{"a", "b", "c"}, args)
}

package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		input   string
		minutes int
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"09:30", 570},
		{"23:59", 1439},
		{" 10:15 ", 615},
	}
	for _, tc := range cases {
		minutes, err := ParseClock(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.minutes, minutes, tc.input)
	}
}

func TestParseClock_Malformed(t *testing.T) {
	for _, input := range []string{"", "8am", "24:00", "10:60", "10", "aa:bb", "-1:30"} {
		_, err := ParseClock(input)
		assert.Error(t, err, input)
	}
}

func TestFormatClock_RoundTrips(t *testing.T) {
	for _, minutes := range []int{0, 480, 570, 1439} {
		formatted := FormatClock(minutes)
		parsed, err := ParseClock(formatted)
		require.NoError(t, err)
		assert.Equal(t, minutes, parsed)
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 12.5, Round1(12.533))
	assert.Equal(t, 12.6, Round1(12.55))
	assert.Equal(t, 14.8, Round1(14.8))
	assert.Equal(t, 0.0, Round1(0.04))
}

func TestParseDuration_FallsBackOnGarbage(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("not-a-duration", time.Minute))
}

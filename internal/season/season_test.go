package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/goanimefr/internal/constants"
)

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	for _, valid := range []string{"winter", "Spring", " summer ", "FALL", "upcoming"} {
		_, err := Parse(valid)
		assert.NoError(t, err, valid)
	}

	_, err := Parse("autumn")
	require.Error(t, err)
}

func TestFromMonth(t *testing.T) {
	assert.Equal(t, Winter, FromMonth(time.January))
	assert.Equal(t, Winter, FromMonth(time.March))
	assert.Equal(t, Spring, FromMonth(time.April))
	assert.Equal(t, Spring, FromMonth(time.June))
	assert.Equal(t, Summer, FromMonth(time.July))
	assert.Equal(t, Summer, FromMonth(time.September))
	assert.Equal(t, Fall, FromMonth(time.October))
	assert.Equal(t, Fall, FromMonth(time.December))
}

func TestCurrent(t *testing.T) {
	s, year := Current(date(2024, time.May))
	assert.Equal(t, Spring, s)
	assert.Equal(t, 2024, year)
}

func TestTTLForPastSeasonNeverExpires(t *testing.T) {
	now := date(2024, time.May) // spring 2024

	assert.Equal(t, time.Duration(0), TTLFor(Winter, 2024, now))
	assert.Equal(t, time.Duration(0), TTLFor(Fall, 2023, now))
	assert.Equal(t, time.Duration(0), TTLFor(Spring, 2020, now))
}

func TestTTLForCurrentAndAdjacentSeasonIsNearTerm(t *testing.T) {
	now := date(2024, time.May) // spring 2024

	assert.Equal(t, constants.NearTermTTL, TTLFor(Spring, 2024, now))
	assert.Equal(t, constants.NearTermTTL, TTLFor(Summer, 2024, now))
}

func TestTTLForAdjacentAcrossYearBoundary(t *testing.T) {
	now := date(2024, time.November) // fall 2024

	assert.Equal(t, constants.NearTermTTL, TTLFor(Winter, 2025, now))
	assert.Equal(t, constants.FutureTTL, TTLFor(Spring, 2025, now))
}

func TestTTLForFarFutureIsLong(t *testing.T) {
	now := date(2024, time.May) // spring 2024

	assert.Equal(t, constants.FutureTTL, TTLFor(Fall, 2024, now))
	assert.Equal(t, constants.FutureTTL, TTLFor(Spring, 2025, now))
}

func TestTTLForUpcomingIsAlwaysNearTerm(t *testing.T) {
	assert.Equal(t, constants.NearTermTTL, TTLFor(Upcoming, 0, date(2024, time.May)))
	assert.Equal(t, constants.NearTermTTL, TTLFor(Upcoming, 9999, date(2030, time.January)))
}

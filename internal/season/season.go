// Package season implements the four-season calendar used to bucket anime
// release timing, and the temporal TTL policy applied to cached listings.
package season

import (
	"strings"
	"time"

	"github.com/amaumene/goanimefr/internal/constants"
	"github.com/amaumene/goanimefr/internal/errors"
)

// Season is one of the four fixed quarters, or the virtual "upcoming" bucket
// which is not tied to a year.
type Season string

const (
	Winter   Season = "winter"
	Spring   Season = "spring"
	Summer   Season = "summer"
	Fall     Season = "fall"
	Upcoming Season = "upcoming"
)

var order = map[Season]int{
	Winter: 0,
	Spring: 1,
	Summer: 2,
	Fall:   3,
}

// Parse validates s and returns the canonical Season value.
func Parse(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case Winter:
		return Winter, nil
	case Spring:
		return Spring, nil
	case Summer:
		return Summer, nil
	case Fall:
		return Fall, nil
	case Upcoming:
		return Upcoming, nil
	}
	return "", errors.NewInvalidSeasonError(s)
}

// FromMonth maps a calendar month to its season using the quarter bucketing
// {Jan-Mar: winter, Apr-Jun: spring, Jul-Sep: summer, Oct-Dec: fall}.
func FromMonth(m time.Month) Season {
	switch (int(m) - 1) / 3 {
	case 0:
		return Winter
	case 1:
		return Spring
	case 2:
		return Summer
	}
	return Fall
}

// Current returns the season and year containing now.
func Current(now time.Time) (Season, int) {
	return FromMonth(now.Month()), now.Year()
}

// slot places a (season, year) pair on the chronological season axis.
func slot(s Season, year int) int {
	return year*4 + order[s]
}

// TTLFor selects the cache TTL for a (season, year) request relative to now.
// Past seasons never change and are cached forever (0). The current season
// and its immediate successor are actively updated upstream and get the
// short TTL. Anything further in the future gets the long TTL. The upcoming
// pseudo-season is always near-term.
func TTLFor(s Season, year int, now time.Time) time.Duration {
	if s == Upcoming {
		return constants.NearTermTTL
	}

	cur, curYear := Current(now)
	requested := slot(s, year)
	current := slot(cur, curYear)

	switch {
	case requested < current:
		return 0
	case requested <= current+1:
		return constants.NearTermTTL
	default:
		return constants.FutureTTL
	}
}

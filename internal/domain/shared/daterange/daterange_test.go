package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateCanonicalOnly(t *testing.T) {
	d, err := ParseDate("2026-07-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-07-01", d.String())

	for _, bad := range []string{"", "01-07-2026", "2026/07/01", "2026-13-01", "2026-02-30", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", bad)
	}
}

func TestDateOfTruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	instant := time.Date(2026, 7, 1, 2, 30, 0, 0, loc) // 2026-06-30T21:30 UTC
	assert.Equal(t, "2026-06-30", DateOf(instant).String())
}

func TestRangeValidation(t *testing.T) {
	_, err := Parse("2026-07-05", "2026-07-05")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Parse("2026-07-05", "2026-07-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	dr, err := Parse("2026-07-01", "2026-07-05")
	require.NoError(t, err)
	assert.Equal(t, 4, dr.Nights())
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	base := mustRange(t, "2026-07-10", "2026-07-15")

	cases := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"identical", mustRange(t, "2026-07-10", "2026-07-15"), true},
		{"contained", mustRange(t, "2026-07-11", "2026-07-13"), true},
		{"straddles start", mustRange(t, "2026-07-08", "2026-07-11"), true},
		{"straddles end", mustRange(t, "2026-07-14", "2026-07-20"), true},
		{"covers", mustRange(t, "2026-07-01", "2026-07-31"), true},
		{"checkout on checkin day", mustRange(t, "2026-07-05", "2026-07-10"), false},
		{"checkin on checkout day", mustRange(t, "2026-07-15", "2026-07-20"), false},
		{"disjoint before", mustRange(t, "2026-07-01", "2026-07-03"), false},
		{"disjoint after", mustRange(t, "2026-07-20", "2026-07-22"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestContainsDateExcludesEnd(t *testing.T) {
	dr := mustRange(t, "2026-07-10", "2026-07-12")
	assert.True(t, dr.ContainsDate(MustDate("2026-07-10")))
	assert.True(t, dr.ContainsDate(MustDate("2026-07-11")))
	assert.False(t, dr.ContainsDate(MustDate("2026-07-12")))
	assert.False(t, dr.ContainsDate(MustDate("2026-07-09")))
}

func TestEachDayVisitsNightsInOrder(t *testing.T) {
	dr := mustRange(t, "2026-02-27", "2026-03-02")
	var visited []string
	dr.EachDay(func(d Date) { visited = append(visited, d.String()) })
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01"}, visited)
	assert.Len(t, visited, dr.Nights())
}

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	dr, err := Parse(start, end)
	require.NoError(t, err)
	return dr
}

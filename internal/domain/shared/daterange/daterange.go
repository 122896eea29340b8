package daterange

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be after start")
	ErrInvalidDate  = errors.New("daterange: malformed calendar date")
)

// ISODate is the canonical wire and storage format for calendar dates.
// Fixed width, so lexicographic order equals chronological order.
const ISODate = "2006-01-02"

// Date is a calendar day with no time-of-day component, held at midnight UTC.
type Date struct {
	t time.Time
}

// ParseDate accepts only canonical YYYY-MM-DD input.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(ISODate, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t: t.UTC()}, nil
}

// DateOf truncates an instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MustDate parses a canonical date and panics on failure; for tests and fixtures.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string { return d.t.Format(ISODate) }

func (d Date) Time() time.Time { return d.t }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DateRange represents a half-open interval [Start, End).
// A checkout on day N never conflicts with a check-in on day N.
type DateRange struct {
	Start Date
	End   Date
}

// New validates that the range covers at least one night.
func New(start, end Date) (DateRange, error) {
	dr := DateRange{Start: start, End: end}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a validated range from canonical date strings.
func Parse(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return New(s, e)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Nights is the number of nights spanned, equal to the number of days iterated
// by EachDay.
func (dr DateRange) Nights() int {
	return int(dr.End.t.Sub(dr.Start.t).Hours() / 24)
}

// Overlaps is the single conflict predicate used across the system.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.End) && other.Start.Before(dr.End)
}

// ContainsDate reports whether d falls inside [Start, End).
func (dr DateRange) ContainsDate(d Date) bool {
	return !d.Before(dr.Start) && d.Before(dr.End)
}

// EachDay visits every day in [Start, End) in order. An inverted range visits
// nothing rather than iterating backwards.
func (dr DateRange) EachDay(fn func(d Date)) {
	for d := dr.Start; d.Before(dr.End); d = d.AddDays(1) {
		fn(d)
	}
}

func (dr DateRange) String() string {
	return fmt.Sprintf("[%s, %s)", dr.Start, dr.End)
}

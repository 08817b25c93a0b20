package domain

import (
	"errors"
	"time"
)

// ErrMalformedRange is returned when a range does not satisfy start < end.
var ErrMalformedRange = errors.New("start must be before end")

// TimeRange is a half-open interval [Start, End): the end instant is
// excluded so back-to-back bookings never touch.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !start.Before(end) {
		return TimeRange{}, ErrMalformedRange
	}
	return TimeRange{Start: start, End: end}, nil
}

func (r TimeRange) IsValid() bool {
	return r.Start.Before(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Overlaps reports whether two half-open ranges share at least one
// instant: s1 < e2 && s2 < e1.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

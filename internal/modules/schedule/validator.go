package schedule

import (
	"fmt"
	"time"

	"salas/internal/domain"
)

// RuleValidator applies the booking business rules to a candidate range.
// It is pure computation: no I/O and no locking.
type RuleValidator struct {
	MaxDuration time.Duration
}

// Validate checks a candidate range against a room's operating window at
// the given instant. The structural checks (well-formed range, not in the
// past, duration cap) short-circuit; operating-window violations are
// collected per field. A nil result means the range is bookable as far as
// the rules go; overlap is the transaction's concern.
//
// Passing a nil room is a programming error and panics.
func (v RuleValidator) Validate(r domain.TimeRange, room *domain.Room, now time.Time) *ValidationError {
	if room == nil {
		panic("schedule: Validate called with nil room")
	}

	vErr := &ValidationError{}

	if !r.IsValid() {
		vErr.add("start_time", KindMalformedRange, "end time must be after start time")
		return vErr
	}

	// start == now is accepted; only strictly-past starts are rejected
	if r.Start.Before(now) {
		vErr.add("start_time", KindPastStart, "booking cannot start in the past")
		return vErr
	}

	if v.MaxDuration > 0 && r.Duration() > v.MaxDuration {
		vErr.add("end_time", KindDurationExceeded,
			fmt.Sprintf("booking cannot be longer than %s", v.MaxDuration))
		return vErr
	}

	v.checkOperatingWindow(r, room, vErr)

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func (v RuleValidator) checkOperatingWindow(r domain.TimeRange, room *domain.Room, vErr *ValidationError) {
	from, errFrom := domain.ParseTimeOfDay(room.AvailableFrom)
	to, errTo := domain.ParseTimeOfDay(room.AvailableTo)
	if errFrom != nil || errTo != nil {
		// room without a parseable window operates around the clock
		from, to = 0, 24*60
	}

	startMin := domain.MinutesOfDay(r.Start)
	endMin := domain.MinutesOfDay(r.End)
	// a booking ending exactly at midnight closes the previous day
	if endMin == 0 && r.End.After(r.Start) {
		endMin = 24 * 60
	}

	if startMin < from || startMin > to {
		vErr.add("start_time", KindOutsideOperatingHours,
			fmt.Sprintf("start is outside operating hours %s-%s", room.AvailableFrom, room.AvailableTo))
	}
	if endMin < from || endMin > to {
		vErr.add("end_time", KindOutsideOperatingHours,
			fmt.Sprintf("end is outside operating hours %s-%s", room.AvailableFrom, room.AvailableTo))
	}

	if !room.OperatesOn(r.Start.Weekday()) {
		vErr.add("start_time", KindOutsideOperatingHours,
			fmt.Sprintf("room does not operate on %s", r.Start.Weekday()))
	}
	endDay := r.End.Add(-time.Nanosecond)
	if endDay.Weekday() != r.Start.Weekday() && !room.OperatesOn(endDay.Weekday()) {
		vErr.add("end_time", KindOutsideOperatingHours,
			fmt.Sprintf("room does not operate on %s", endDay.Weekday()))
	}
}

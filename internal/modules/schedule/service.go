package schedule

import (
	"context"
	"errors"
	"sort"
	"time"

	"salas/internal/domain"
	"salas/internal/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// maxAvailabilityDays bounds a listAvailability date range.
const maxAvailabilityDays = 31

// Service is the scheduling façade. It composes the rule validator, the
// per-room lock and the transactional repository; callers never see
// locking or transaction boundaries.
type Service struct {
	bookings    BookingRepository
	rooms       RoomRepository
	rules       RuleValidator
	locks       *roomLocks
	lockTimeout time.Duration
	validate    *validator.Validate
	now         func() time.Time
}

// NewService wires the scheduling core. now may be nil, in which case the
// wall clock is used.
func NewService(bookings BookingRepository, rooms RoomRepository, maxDuration, lockTimeout time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		bookings:    bookings,
		rooms:       rooms,
		rules:       RuleValidator{MaxDuration: maxDuration},
		locks:       newRoomLocks(),
		lockTimeout: lockTimeout,
		validate:    validator.New(),
		now:         now,
	}
}

// CreateBooking runs the full conflict-resolution path: rule validation
// (pure), then the room's scheduling lock, then the atomic
// check-and-insert. Of any set of concurrent requests for overlapping
// windows on one room, at most one commits; the rest observe the
// committed state and get ErrScheduleConflict.
func (s *Service) CreateBooking(ctx context.Context, actor Actor, req CreateBookingRequest) (*domain.Booking, error) {
	if vErr := s.checkStruct(req); vErr != nil {
		return nil, vErr
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	candidate := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	if vErr := s.rules.Validate(candidate, room, s.now()); vErr != nil {
		return nil, vErr
	}

	release, err := s.locks.acquire(ctx, room.ID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	b := &domain.Booking{
		RoomID:    room.ID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Email:     req.Email,
		Phone:     req.Phone,
		UserID:    actor.UserID,
		Status:    domain.BookingPending,
	}
	if err := s.bookings.CreateIfFree(ctx, b); err != nil {
		return nil, mapRepoError(err)
	}
	return b, nil
}

// UpdateBooking re-validates every invariant for the new range and checks
// conflicts excluding the booking being edited.
func (s *Service) UpdateBooking(ctx context.Context, actor Actor, bookingID int64, req UpdateBookingRequest) (*domain.Booking, error) {
	if vErr := s.checkStruct(req); vErr != nil {
		return nil, vErr
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if b.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	room, err := s.rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	candidate := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
	if vErr := s.rules.Validate(candidate, room, s.now()); vErr != nil {
		return nil, vErr
	}

	release, err := s.locks.acquire(ctx, room.ID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	b.Title = req.Title
	b.StartTime = req.StartTime
	b.EndTime = req.EndTime
	b.Email = req.Email
	b.Phone = req.Phone
	if err := s.bookings.UpdateIfFree(ctx, b); err != nil {
		return nil, mapRepoError(err)
	}
	return b, nil
}

// CancelBooking deletes a booking. Only the owner or an admin may cancel;
// the room record is untouched.
func (s *Service) CancelBooking(ctx context.Context, actor Actor, bookingID int64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return mapRepoError(err)
	}
	if b.UserID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return mapRepoError(s.bookings.Delete(ctx, bookingID))
}

// SetBookingStatus approves or rejects a pending booking. Booking
// approval evolves independently of the room's administrative status.
func (s *Service) SetBookingStatus(ctx context.Context, actor Actor, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if status != domain.BookingApproved && status != domain.BookingRejected {
		return nil, ErrInvalidStatusTransition
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if b.Status != domain.BookingPending {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, mapRepoError(err)
	}
	b.Status = status
	return b, nil
}

func (s *Service) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return b, nil
}

// ListBookings returns bookings as calendar events, newest first.
func (s *Service) ListBookings(ctx context.Context, page, limit int) ([]BookingEvent, Pagination, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	rows, total, err := s.bookings.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	events := make([]BookingEvent, 0, len(rows))
	for _, b := range rows {
		ev := BookingEvent{
			ID:     b.ID,
			Title:  b.Title,
			Start:  b.StartTime,
			End:    b.EndTime,
			RoomID: b.RoomID,
			Status: string(b.Status),
		}
		if b.Room != nil {
			ev.RoomName = b.Room.Name
		}
		events = append(events, ev)
	}

	p := Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
	return events, p, nil
}

// CheckSlot is the advisory pre-check UIs run before submitting a
// booking: is the slot currently free? The answer can go stale the
// moment it is returned; the commit path re-checks inside the
// transaction.
func (s *Service) CheckSlot(ctx context.Context, roomID int64, start, end time.Time) (bool, error) {
	rng, err := domain.NewTimeRange(start, end)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("end_time", KindMalformedRange, "end_time must be after start_time")
		return false, vErr
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return false, mapRepoError(err)
	}
	if !room.Status.Bookable() {
		return false, nil
	}

	conflict, err := s.bookings.HasConflict(ctx, roomID, rng.Start, rng.End, 0)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// ListAvailability computes, per day of [from, to], the room's operating
// window minus its active bookings.
func (s *Service) ListAvailability(ctx context.Context, roomID int64, from, to time.Time) ([]DayAvailability, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	from = startOfDay(from)
	to = startOfDay(to)
	if to.Before(from) {
		vErr := &ValidationError{}
		vErr.add("to", KindMalformedRange, "to must not be before from")
		return nil, vErr
	}
	if to.Sub(from) > maxAvailabilityDays*24*time.Hour {
		vErr := &ValidationError{}
		vErr.add("to", KindMalformedRange, "date range too wide")
		return nil, vErr
	}

	var out []DayAvailability
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		da, err := s.dayAvailability(ctx, room, day)
		if err != nil {
			return nil, err
		}
		out = append(out, da)
	}
	return out, nil
}

func (s *Service) dayAvailability(ctx context.Context, room *domain.Room, day time.Time) (DayAvailability, error) {
	da := DayAvailability{
		Date:      day.Format("2006-01-02"),
		FreeSlots: []Slot{},
		BusySlots: []Slot{},
	}
	if !room.OperatesOn(day.Weekday()) {
		return da, nil
	}

	fromMin, errFrom := domain.ParseTimeOfDay(room.AvailableFrom)
	toMin, errTo := domain.ParseTimeOfDay(room.AvailableTo)
	if errFrom != nil || errTo != nil {
		fromMin, toMin = 0, 24*60
	}
	open := day.Add(time.Duration(fromMin) * time.Minute)
	close := day.Add(time.Duration(toMin) * time.Minute)
	if !close.After(open) {
		return da, nil
	}

	da.Open = true
	da.Window = &Window{From: room.AvailableFrom, To: room.AvailableTo}

	bookings, err := s.bookings.ListActiveForRoom(ctx, room.ID, open, close)
	if err != nil {
		return DayAvailability{}, err
	}

	busy := make([]Slot, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, Slot{Start: b.StartTime, End: b.EndTime})
	}
	da.BusySlots = busy
	da.FreeSlots = subtractBusy(open, close, busy)
	return da, nil
}

// subtractBusy returns the gaps of [open, close) not covered by busy
// slots. Slots are clipped to the window and merged before subtraction.
func subtractBusy(open, close time.Time, busy []Slot) []Slot {
	if len(busy) == 0 {
		return []Slot{{Start: open, End: close}}
	}

	clipped := make([]Slot, 0, len(busy))
	for _, s := range busy {
		if !s.End.After(open) || !s.Start.Before(close) {
			continue
		}
		if s.Start.Before(open) {
			s.Start = open
		}
		if s.End.After(close) {
			s.End = close
		}
		clipped = append(clipped, s)
	}
	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })

	merged := make([]Slot, 0, len(clipped))
	for _, s := range clipped {
		if len(merged) > 0 && !s.Start.After(merged[len(merged)-1].End) {
			if s.End.After(merged[len(merged)-1].End) {
				merged[len(merged)-1].End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}

	cur := open
	out := make([]Slot, 0)
	for _, b := range merged {
		if b.Start.After(cur) {
			out = append(out, Slot{Start: cur, End: b.Start})
		}
		if b.End.After(cur) {
			cur = b.End
		}
		if !cur.Before(close) {
			break
		}
	}
	if cur.Before(close) {
		out = append(out, Slot{Start: cur, End: close})
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// checkStruct converts request-shape violations into the module's
// ValidationError form.
func (s *Service) checkStruct(req any) *ValidationError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	vErr := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			vErr.add(fe.Field(), KindInvalidField, "failed validation on "+fe.Tag())
		}
		return vErr
	}
	vErr.add("request", KindInvalidField, err.Error())
	return vErr
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrOverlap):
		return ErrScheduleConflict
	case errors.Is(err, repository.ErrRoomBlocked):
		return ErrRoomUnavailable
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}
	return err
}

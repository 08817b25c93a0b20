package schedule

import "time"

// Actor is the authenticated requester, established by the identity
// middleware. The core only uses it for ownership checks.
type Actor struct {
	UserID int64
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == "admin" }

type CreateBookingRequest struct {
	RoomID    int64     `json:"room_id" validate:"required"`
	Title     string    `json:"title" validate:"required,max=100"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type UpdateBookingRequest struct {
	Title     string    `json:"title" validate:"required,max=100"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// BookingEvent is the calendar-event shape bookings are listed as.
type BookingEvent struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	RoomID   int64     `json:"room_id"`
	RoomName string    `json:"room,omitempty"`
	Status   string    `json:"status"`
}

type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DayAvailability describes a room's calendar for one day: the operating
// window, the busy slots and the remaining free slots. A day the room
// does not operate has Open == false and no slots.
type DayAvailability struct {
	Date      string  `json:"date"`
	Open      bool    `json:"open"`
	Window    *Window `json:"window,omitempty"`
	FreeSlots []Slot  `json:"free_slots"`
	BusySlots []Slot  `json:"busy_slots"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

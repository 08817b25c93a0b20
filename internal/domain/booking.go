package domain

import "time"

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected:
		return true
	}
	return false
}

// BlocksSchedule reports whether a booking in this status participates in
// overlap checks. Rejected bookings never block a slot.
func (s BookingStatus) BlocksSchedule() bool {
	return s == BookingPending || s == BookingApproved
}

type Booking struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	RoomID    int64         `json:"room_id" gorm:"index;not null" validate:"required"`
	Title     string        `json:"title" validate:"required,max=100"`
	StartTime time.Time     `json:"start_time" gorm:"index" validate:"required"`
	EndTime   time.Time     `json:"end_time" validate:"required"`
	Email     string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string        `json:"phone,omitempty" validate:"omitempty,max=20"`
	UserID    int64         `json:"user_id"`
	Status    BookingStatus `json:"status" gorm:"type:varchar(20);default:pending"`
	// CreatedAt is set once on insert and never updated.
	CreatedAt time.Time `json:"created_at" gorm:"<-:create"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

func (Booking) TableName() string { return "bookings" }

// Range returns the booking's half-open time range.
func (b Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

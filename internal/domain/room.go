package domain

import (
	"strconv"
	"strings"
	"time"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// ValidRoomStatus reports whether s is one of the known administrative states.
func ValidRoomStatus(s RoomStatus) bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance:
		return true
	}
	return false
}

// CanTransitionTo applies the administrative state machine. Operators may
// move a room between any two distinct states; status never changes as a
// side effect of booking approval.
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	if !ValidRoomStatus(s) || !ValidRoomStatus(next) {
		return false
	}
	return s != next
}

// Bookable reports whether new bookings may be committed against a room
// in this administrative state. Only "available" accepts bookings; a room
// in maintenance blocks the calendar regardless of free slots.
func (s RoomStatus) Bookable() bool {
	return s == RoomAvailable
}

type Room struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null" validate:"required,min=3"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Capacity    int        `json:"capacity" validate:"required,gt=0"`
	Status      RoomStatus `json:"status" gorm:"type:varchar(20);default:available"`

	// Operating window as time-of-day ("15:04") plus the weekdays the
	// room operates, stored as a CSV of time.Weekday numbers.
	AvailableFrom string `json:"available_from" gorm:"column:available_from"`
	AvailableTo   string `json:"available_to" gorm:"column:available_to"`
	DaysOfWeek    string `json:"days_of_week" gorm:"column:days_of_week"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }

// OperatesOn reports whether the room operates on the given weekday.
// An empty DaysOfWeek means every day.
func (r Room) OperatesOn(day time.Weekday) bool {
	if strings.TrimSpace(r.DaysOfWeek) == "" {
		return true
	}
	for _, part := range strings.Split(r.DaysOfWeek, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if time.Weekday(n) == day {
			return true
		}
	}
	return false
}

// WeekdaysCSV renders a weekday set in DaysOfWeek column form.
func WeekdaysCSV(days ...time.Weekday) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

// ParseTimeOfDay parses an "HH:MM" operating-window bound into minutes
// since midnight.
func ParseTimeOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesOfDay converts an instant to minutes since local midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

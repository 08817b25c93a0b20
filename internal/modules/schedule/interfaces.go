package schedule

import (
	"context"
	"time"

	"salas/internal/domain"
)

// BookingRepository is the persistence collaborator for the scheduling
// core. CreateIfFree and UpdateIfFree must provide the atomic
// "commit if no conflicting booking exists" guarantee: the conflict
// check and the write observe the same snapshot.
type BookingRepository interface {
	CreateIfFree(ctx context.Context, b *domain.Booking) error
	UpdateIfFree(ctx context.Context, b *domain.Booking) error
	HasConflict(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	ListActiveForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]domain.Booking, error)
	List(ctx context.Context, limit, offset int) ([]domain.Booking, int64, error)
}

// RoomRepository is the room lookup collaborator.
type RoomRepository interface {
	GetByID(ctx context.Context, roomID int64) (*domain.Room, error)
}

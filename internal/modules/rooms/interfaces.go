package rooms

import (
	"context"

	"salas/internal/domain"
)

// RoomRepository defines the persistence operations the rooms module needs.
type RoomRepository interface {
	GetByID(ctx context.Context, roomID int64) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	UpdateStatus(ctx context.Context, roomID int64, status domain.RoomStatus) error
	Delete(ctx context.Context, roomID int64) error
}

package rooms

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"salas/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	rooms    RoomRepository
	validate *validator.Validate
}

func NewService(rooms RoomRepository) *Service {
	return &Service{
		rooms:    rooms,
		validate: validator.New(),
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}

func (s *Service) Get(ctx context.Context, roomID int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapRoomError(err)
	}
	return room, nil
}

func (s *Service) Create(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := checkOperatingWindow(req.AvailableFrom, req.AvailableTo); err != nil {
		return nil, err
	}

	status := domain.RoomAvailable
	if req.Status != "" {
		status = domain.RoomStatus(req.Status)
	}

	room := &domain.Room{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Capacity:      req.Capacity,
		Status:        status,
		AvailableFrom: req.AvailableFrom,
		AvailableTo:   req.AvailableTo,
		DaysOfWeek:    daysCSV(req.DaysOfWeek),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, mapRoomError(err)
	}
	return room, nil
}

func (s *Service) Update(ctx context.Context, roomID int64, req UpdateRoomRequest) (*domain.Room, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if err := checkOperatingWindow(req.AvailableFrom, req.AvailableTo); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapRoomError(err)
	}

	room.Name = strings.TrimSpace(req.Name)
	room.Description = req.Description
	room.Capacity = req.Capacity
	room.AvailableFrom = req.AvailableFrom
	room.AvailableTo = req.AvailableTo
	room.DaysOfWeek = daysCSV(req.DaysOfWeek)

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, mapRoomError(err)
	}
	return room, nil
}

// SetStatus applies an administrative state transition. Transitions are
// operator actions; they are never inferred from the booking calendar.
func (s *Service) SetStatus(ctx context.Context, roomID int64, status domain.RoomStatus) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, mapRoomError(err)
	}

	if !room.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if err := s.rooms.UpdateStatus(ctx, roomID, status); err != nil {
		return nil, mapRoomError(err)
	}
	room.Status = status
	return room, nil
}

// Delete removes a room; its bookings go with it (cascade policy).
func (s *Service) Delete(ctx context.Context, roomID int64) error {
	return mapRoomError(s.rooms.Delete(ctx, roomID))
}

func checkOperatingWindow(from, to string) error {
	fromMin, err := domain.ParseTimeOfDay(from)
	if err != nil {
		return fmt.Errorf("%w: available_from must be HH:MM", ErrValidation)
	}
	toMin, err := domain.ParseTimeOfDay(to)
	if err != nil {
		return fmt.Errorf("%w: available_to must be HH:MM", ErrValidation)
	}
	if fromMin >= toMin {
		return fmt.Errorf("%w: available_from must be before available_to", ErrValidation)
	}
	return nil
}

func daysCSV(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func mapRoomError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrNameTaken
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrNameTaken
	}
	return err
}

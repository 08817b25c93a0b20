package repository

import (
	"context"
	"errors"
	"time"

	"salas/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrOverlap is returned when a booking would overlap an active
	// booking on the same room.
	ErrOverlap = errors.New("time slot is already booked")
	// ErrRoomBlocked is returned when the room's administrative status
	// does not accept bookings.
	ErrRoomBlocked = errors.New("room is not accepting bookings")
)

// blockingStatuses are the booking statuses that participate in overlap
// checks. Rejected bookings never hold a slot.
var blockingStatuses = []domain.BookingStatus{domain.BookingPending, domain.BookingApproved}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateIfFree inserts a booking only if the room is bookable and no
// active booking overlaps the candidate range. The status check, the
// overlap check and the insert run in one transaction so two concurrent
// requests for overlapping windows cannot both commit. On PostgreSQL the
// room row and candidate overlapping rows are locked for the duration of
// the transaction; on SQLite the engine serializes writers.
func (r *BookingRepository) CreateIfFree(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureFree(tx, b.RoomID, b.StartTime, b.EndTime, 0); err != nil {
			return err
		}
		return tx.Create(b).Error
	})
	return mapConstraintViolation(err)
}

// UpdateIfFree persists a booking's new range/fields only if no other
// active booking overlaps it. The booking itself is excluded from the
// overlap check so moving within its own old slot succeeds.
func (r *BookingRepository) UpdateIfFree(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureFree(tx, b.RoomID, b.StartTime, b.EndTime, b.ID); err != nil {
			return err
		}
		return tx.Save(b).Error
	})
	return mapConstraintViolation(err)
}

// ensureFree verifies, inside tx, that the room accepts bookings and that
// [start, end) overlaps no active booking other than excludeID.
func (r *BookingRepository) ensureFree(tx *gorm.DB, roomID int64, start, end time.Time, excludeID int64) error {
	roomQ := tx.Model(&domain.Room{})
	if tx.Dialector.Name() == "postgres" {
		roomQ = roomQ.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var room domain.Room
	if err := roomQ.First(&room, roomID).Error; err != nil {
		return err
	}
	if !room.Status.Bookable() {
		return ErrRoomBlocked
	}

	q := tx.Model(&domain.Booking{})
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	q = q.Where("room_id = ? AND status IN ?", roomID, blockingStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var existing domain.Booking
	err := q.Take(&existing).Error
	if err == nil {
		return ErrOverlap
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// HasConflict is the plain read used outside the commit path (listing,
// pre-checks). The authoritative check is the one inside CreateIfFree /
// UpdateIfFree.
func (r *BookingRepository) HasConflict(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, blockingStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActiveForRoom returns active bookings of a room overlapping
// [from, to), ordered by start time.
func (r *BookingRepository) ListActiveForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status IN ?", roomID, blockingStatuses).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List returns bookings with their room preloaded, newest first.
func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]domain.Booking, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// mapConstraintViolation translates a PostgreSQL no-overlap constraint
// violation into ErrOverlap so callers see one error kind regardless of
// which layer caught the conflict first.
func mapConstraintViolation(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 unique_violation, 23P01 exclusion_violation
		if pgErr.Code == "23505" || pgErr.Code == "23P01" {
			return ErrOverlap
		}
	}
	return err
}

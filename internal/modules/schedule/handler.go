package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"salas/internal/domain"
	"salas/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetInt64("user_id"),
		Role:   c.GetString("role"),
	}
}

// CreateBooking handles POST /bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// UpdateBooking handles PUT /bookings/:id
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// CancelBooking handles DELETE /bookings/:id
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), actorFrom(c), id); err != nil {
		handleScheduleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetBookingStatus handles PATCH /bookings/:id/status
func (h *Handler) SetBookingStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	b, err := h.service.SetBookingStatus(c.Request.Context(), actorFrom(c), id, domain.BookingStatus(req.Status))
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// GetBooking handles GET /bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// ListBookings handles GET /bookings
func (h *Handler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	events, pagination, err := h.service.ListBookings(c.Request.Context(), page, limit)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings":   events,
		"pagination": pagination,
	})
}

// GetRoomAvailability handles GET /rooms/:id/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetRoomAvailability(c *gin.Context) {
	roomID, ok := idParam(c)
	if !ok {
		return
	}

	from := time.Now()
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}
	to := from
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "to must be YYYY-MM-DD")
			return
		}
		to = parsed
	}

	days, err := h.service.ListAvailability(c.Request.Context(), roomID, from, to)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"room_id": roomID,
		"days":    days,
	})
}

// CheckRoomSlot handles GET /rooms/:id/availability/check?start=...&end=...
// with RFC 3339 instants. Advisory only; creation re-checks atomically.
func (h *Handler) CheckRoomSlot(c *gin.Context) {
	roomID, ok := idParam(c)
	if !ok {
		return
	}

	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "start must be RFC 3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "end must be RFC 3339")
		return
	}

	free, err := h.service.CheckSlot(c.Request.Context(), roomID, start, end)
	if err != nil {
		handleScheduleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"room_id":   roomID,
		"available": free,
	})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

func handleScheduleError(c *gin.Context, err error) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", vErr.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrScheduleConflict):
		response.Error(c, http.StatusConflict, "SCHEDULE_CONFLICT", "The room is already booked for that time")
	case errors.Is(err, ErrRoomUnavailable):
		response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", "The room is not accepting bookings")
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "Booking status cannot change that way")
	case errors.Is(err, ErrLockTimeout):
		c.Header("Retry-After", "1")
		response.Error(c, http.StatusServiceUnavailable, "LOCK_TIMEOUT", "Scheduler busy, try again")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room or booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot modify this booking")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

package rooms

import (
	"errors"
	"net/http"
	"strconv"

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

// ListRooms handles GET /rooms
func (h *Handler) ListRooms(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		handleRoomError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": list})
}

// GetRoom handles GET /rooms/:id
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	room, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleRoomError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

// CreateRoom handles POST /rooms (admin)
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	room, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		handleRoomError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, room)
}

// UpdateRoom handles PUT /rooms/:id (admin)
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	room, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		handleRoomError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

// SetRoomStatus handles PATCH /rooms/:id/status (admin)
func (h *Handler) SetRoomStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	room, err := h.service.SetStatus(c.Request.Context(), id, domain.RoomStatus(req.Status))
	if err != nil {
		handleRoomError(c, err)
		return
	}
	response.Success(c, http.StatusOK, room)
}

// DeleteRoom handles DELETE /rooms/:id (admin). Bookings cascade.
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handleRoomError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return 0, false
	}
	return id, true
}

func handleRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNameTaken):
		response.Error(c, http.StatusConflict, "NAME_TAKEN", "A room with that name already exists")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "Room status cannot change that way")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

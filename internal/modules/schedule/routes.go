package schedule

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking endpoints. The group is expected to
// carry the identity middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id", h.UpdateBooking)
	rg.DELETE("/bookings/:id", h.CancelBooking)
	rg.PATCH("/bookings/:id/status", h.SetBookingStatus)

	rg.GET("/rooms/:id/availability", h.GetRoomAvailability)
	rg.GET("/rooms/:id/availability/check", h.CheckRoomSlot)
}

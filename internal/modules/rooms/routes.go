package rooms

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts read endpoints on rg and mutating endpoints on
// admin, which is expected to carry the admin-role middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rg.GET("/rooms", h.ListRooms)
	rg.GET("/rooms/:id", h.GetRoom)

	admin.POST("/rooms", h.CreateRoom)
	admin.PUT("/rooms/:id", h.UpdateRoom)
	admin.PATCH("/rooms/:id/status", h.SetRoomStatus)
	admin.DELETE("/rooms/:id", h.DeleteRoom)
}

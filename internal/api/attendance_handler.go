package api

import (
	"errors"
	"net/http"

	"levelup/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler exposes member check-ins and attendance history.
type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// MarkPresent records today's check-in for the authenticated member.
func (h *AttendanceHandler) MarkPresent(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	record, err := h.attendanceService.MarkPresent(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyMarked) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Could not record attendance")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Attendance marked",
		"date":    record.Date,
	})
}

// GetRange returns a member's attendance for each day between the from and
// to query dates (inclusive). Trainer/admin only.
func (h *AttendanceHandler) GetRange(c *gin.Context) {
	userID := c.Param("userId")
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		abortWithError(c, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	records, err := h.attendanceService.GetRange(c.Request.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Could not retrieve attendance")
		return
	}

	c.JSON(http.StatusOK, records)
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ActivityHandler exposes the workout/diet logging endpoints backed by the
// activity ledger.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// --- Request/Response Structs ---

type WorkoutLogRequest struct {
	WorkoutName  string  `json:"workout_name" binding:"required"`
	SetsAssigned int     `json:"sets_assigned" binding:"required"`
	SetsDone     int     `json:"sets_done"`
	RepsAssigned int     `json:"reps_assigned" binding:"required"`
	RepsDone     int     `json:"reps_done"`
	Weight       float64 `json:"weight"`
}

type WorkoutLogResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Date    string              `json:"date"`
	Entry   domain.WorkoutEntry `json:"entry"`
}

type DietLogResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Date     string `json:"date"`
	ImageURL string `json:"image_url,omitempty"`
}

// DayLogsResponse is one day of a log report. Days without entries carry
// the absence message alongside empty lists.
type DayLogsResponse struct {
	Date        string                `json:"date"`
	WorkoutLogs []domain.WorkoutEntry `json:"workout_logs"`
	DietLogs    []domain.DietEntry    `json:"diet_logs"`
	Message     string                `json:"message,omitempty"`
}

// --- Handler Methods ---

// LogWorkout appends a workout entry for the authenticated member under
// today's date.
func (h *ActivityHandler) LogWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	var req WorkoutLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, dayKey, err := h.activityService.LogWorkout(c.Request.Context(), userID, service.WorkoutLogInput{
		WorkoutName:  req.WorkoutName,
		SetsAssigned: req.SetsAssigned,
		SetsDone:     req.SetsDone,
		RepsAssigned: req.RepsAssigned,
		RepsDone:     req.RepsDone,
		Weight:       req.Weight,
	})
	if err != nil {
		h.mapLogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, WorkoutLogResponse{
		Status:  "success",
		Message: fmt.Sprintf("Workout log for %s uploaded successfully on %s!", entry.WorkoutName, dayKey),
		Date:    dayKey,
		Entry:   *entry,
	})
}

// LogDiet appends a diet entry for the authenticated member under today's
// date. Accepts multipart form data with an optional image attachment.
func (h *ActivityHandler) LogDiet(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	foodName := c.PostForm("food_name")
	if foodName == "" {
		abortWithError(c, http.StatusBadRequest, "food_name is required")
		return
	}
	quantity, err := strconv.ParseFloat(c.PostForm("quantity"), 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "quantity must be a number")
		return
	}

	input := service.DietLogInput{
		FoodName: foodName,
		Quantity: quantity,
		Units:    c.PostForm("units"),
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Could not read attached image")
			return
		}
		defer file.Close()
		input.Image = &service.ImageUpload{
			ContentType: fileHeader.Header.Get("Content-Type"),
			Body:        file,
		}
	}

	entry, dayKey, err := h.activityService.LogDiet(c.Request.Context(), userID, input)
	if err != nil {
		h.mapLogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, DietLogResponse{
		Status:   "success",
		Message:  fmt.Sprintf("Diet log for %s uploaded successfully on %s!", entry.FoodName, dayKey),
		Date:     dayKey,
		ImageURL: entry.ImageURL,
	})
}

// GetDayLogs returns one member's logs for a single date. Trainer/admin only.
func (h *ActivityHandler) GetDayLogs(c *gin.Context) {
	ownerID := c.Param("userId")
	date := c.Param("date")

	slice, err := h.activityService.GetDay(c.Request.Context(), ownerID, date)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve logs.")
		return
	}

	c.JSON(http.StatusOK, mapDayToResponse(date, slice))
}

// GetRangeLogs returns a gap-filled day-by-day report between the from and
// to query dates (inclusive). Trainer/admin only.
func (h *ActivityHandler) GetRangeLogs(c *gin.Context) {
	ownerID := c.Param("userId")
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		abortWithError(c, http.StatusBadRequest, "from and to query parameters are required")
		return
	}

	reports, err := h.activityService.GetRange(c.Request.Context(), ownerID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve logs.")
		return
	}

	response := make([]DayLogsResponse, 0, len(reports))
	for _, report := range reports {
		response = append(response, mapDayToResponse(report.Date, report.Slice))
	}
	c.JSON(http.StatusOK, response)
}

func (h *ActivityHandler) mapLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEntry):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicateLog):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred while saving the log.")
	}
}

func mapDayToResponse(date string, slice *domain.DaySlice) DayLogsResponse {
	resp := DayLogsResponse{
		Date:        date,
		WorkoutLogs: []domain.WorkoutEntry{},
		DietLogs:    []domain.DietEntry{},
	}
	if slice == nil || slice.IsEmpty() {
		resp.Message = domain.NoLogsMarker
		return resp
	}
	if slice.WorkoutLogs != nil {
		resp.WorkoutLogs = slice.WorkoutLogs
	}
	if slice.DietLogs != nil {
		resp.DietLogs = slice.DietLogs
	}
	return resp
}

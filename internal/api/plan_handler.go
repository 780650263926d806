package api

import (
	"errors"
	"fmt"
	"net/http"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler exposes workout and diet plan management. Plans are assigned
// by trainers; members can read their own.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type WorkoutPlanRequest struct {
	StartDate string               `json:"start_date" binding:"required"`
	EndDate   string               `json:"end_date" binding:"required"`
	Progress  []domain.DayProgress `json:"progress"`
}

type DietPlanRequest struct {
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	DesiredWeight   *float64      `json:"desired_weight"`
	DesiredCalories *float64      `json:"desired_calories"`
	DesiredProteins *float64      `json:"desired_proteins"`
	Meals           []domain.Meal `json:"meals"`
}

// --- Workout plan ---

// SetWorkoutPlan assigns (or replaces) the member's workout plan.
// Trainer/admin only.
func (h *PlanHandler) SetWorkoutPlan(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan := &domain.WorkoutPlan{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Progress:  req.Progress,
	}
	if err := h.planService.SetWorkoutPlan(c.Request.Context(), userID, plan); err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout plan assigned successfully"})
}

// GetWorkoutPlan returns the member's current workout plan.
func (h *PlanHandler) GetWorkoutPlan(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	plan, err := h.planService.GetWorkoutPlan(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeleteWorkoutPlan removes the member's workout plan. Trainer/admin only.
func (h *PlanHandler) DeleteWorkoutPlan(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.planService.DeleteWorkoutPlan(c.Request.Context(), userID); err != nil {
		h.mapError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordDayProgress stores the member's completion state for one weekday of
// the plan.
func (h *PlanHandler) RecordDayProgress(c *gin.Context) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identity")
		return
	}

	var progress domain.DayProgress
	if err := c.ShouldBindJSON(&progress); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.planService.RecordDayProgress(c.Request.Context(), userID, progress); err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Progress recorded"})
}

// --- Diet plans ---

// CreateDietPlan creates a diet plan for the member named in the path.
// Trainer/admin only.
func (h *PlanHandler) CreateDietPlan(c *gin.Context) {
	userID := c.Param("userId")

	var req DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreateDietPlan(c.Request.Context(), &domain.DietPlan{
		UserID:          userID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DesiredWeight:   req.DesiredWeight,
		DesiredCalories: req.DesiredCalories,
		DesiredProteins: req.DesiredProteins,
		Meals:           req.Meals,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GetDietPlans lists all diet plans for the member named in the path.
func (h *PlanHandler) GetDietPlans(c *gin.Context) {
	plans, err := h.planService.GetDietPlans(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// UpdateDietPlan replaces an existing diet plan. Trainer/admin only.
func (h *PlanHandler) UpdateDietPlan(c *gin.Context) {
	userID := c.Param("userId")
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var req DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err = h.planService.UpdateDietPlan(c.Request.Context(), &domain.DietPlan{
		ID:              planID,
		UserID:          userID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DesiredWeight:   req.DesiredWeight,
		DesiredCalories: req.DesiredCalories,
		DesiredProteins: req.DesiredProteins,
		Meals:           req.Meals,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Diet plan updated"})
}

// DeleteDietPlan removes a diet plan. Trainer/admin only.
func (h *PlanHandler) DeleteDietPlan(c *gin.Context) {
	userID := c.Param("userId")
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	if err := h.planService.DeleteDietPlan(c.Request.Context(), planID, userID); err != nil {
		h.mapError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

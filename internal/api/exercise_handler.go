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

// ExerciseHandler exposes the shared exercise library.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

type ExerciseRequest struct {
	Name     string `json:"name" binding:"required"`
	Sets     int    `json:"sets" binding:"required,gt=0"`
	Reps     int    `json:"reps" binding:"required,gt=0"`
	Type     string `json:"type"`
	Category string `json:"category"`
}

// CreateExercise adds a new exercise to the library. Trainer/admin only.
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), &domain.Exercise{
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exercise)
}

// GetExercise returns a single exercise by ID.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// ListExercises returns the whole library.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListExercises(c.Request.Context())
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercises)
}

// UpdateExercise replaces the editable fields of an exercise. Trainer/admin
// only.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), &domain.Exercise{
		ID:       id,
		Name:     req.Name,
		Sets:     req.Sets,
		Reps:     req.Reps,
		Type:     req.Type,
		Category: req.Category,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise removes an exercise from the library. Trainer/admin only.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ExerciseHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExerciseInvalid):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

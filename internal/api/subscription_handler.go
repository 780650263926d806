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

// SubscriptionHandler exposes membership tiers and member subscriptions.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

type SubscriptionPlanRequest struct {
	PlanName       string  `json:"plan_name" binding:"required"`
	DurationMonths int     `json:"duration" binding:"required"`
	Price          float64 `json:"price" binding:"required,gt=0"`
}

type SubscribeRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// CreatePlan adds a membership tier. Admin only.
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req SubscriptionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.subscriptionService.CreatePlan(c.Request.Context(), &domain.SubscriptionPlan{
		PlanName:       req.PlanName,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns all membership tiers. Available to every authenticated
// user.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context())
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, plans)
}

// UpdatePlan replaces an existing membership tier. Admin only.
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	var req SubscriptionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err = h.subscriptionService.UpdatePlan(c.Request.Context(), &domain.SubscriptionPlan{
		ID:             id,
		PlanName:       req.PlanName,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Plan updated"})
}

// DeletePlan removes a membership tier. Admin only.
func (h *SubscriptionHandler) DeletePlan(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	if err := h.subscriptionService.DeletePlan(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Subscribe starts a membership on the chosen plan for the authenticated
// member.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	membership, err := h.subscriptionService.Subscribe(c.Request.Context(), userID, planID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// GetMyMembership returns the authenticated member's active membership.
func (h *SubscriptionHandler) GetMyMembership(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}

	membership, err := h.subscriptionService.GetActiveMembership(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, membership)
}

func (h *SubscriptionHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanInvalid), errors.Is(err, service.ErrInvalidPlanDuration):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSubscriptionNotFound), errors.Is(err, service.ErrNoActiveMembership):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

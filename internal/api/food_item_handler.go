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

// FoodItemHandler exposes the shared nutrition catalog.
type FoodItemHandler struct {
	foodItemService service.FoodItemService
}

// NewFoodItemHandler creates a new FoodItemHandler.
func NewFoodItemHandler(foodItemService service.FoodItemService) *FoodItemHandler {
	return &FoodItemHandler{foodItemService: foodItemService}
}

type FoodItemRequest struct {
	FoodName      string  `json:"food_name" binding:"required"`
	Quantity      string  `json:"quantity" binding:"required"`
	EnergyKcal    float64 `json:"energy_kcal" binding:"required,gt=0"`
	Carbohydrates float64 `json:"carbohydrates"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Fiber         float64 `json:"fiber"`
	Calcium       float64 `json:"calcium"`
	Phosphorous   float64 `json:"phosphorous"`
	Iron          float64 `json:"iron"`
	VitaminA      float64 `json:"vitamin_a"`
	VitaminB1     float64 `json:"vitamin_b1"`
	VitaminB2     float64 `json:"vitamin_b2"`
	VitaminB3     float64 `json:"vitamin_b3"`
	VitaminB9     float64 `json:"vitamin_b9"`
}

func (req *FoodItemRequest) toDomain() *domain.FoodItem {
	return &domain.FoodItem{
		FoodName:      req.FoodName,
		Quantity:      req.Quantity,
		EnergyKcal:    req.EnergyKcal,
		Carbohydrates: req.Carbohydrates,
		Protein:       req.Protein,
		Fat:           req.Fat,
		Fiber:         req.Fiber,
		Calcium:       req.Calcium,
		Phosphorous:   req.Phosphorous,
		Iron:          req.Iron,
		VitaminA:      req.VitaminA,
		VitaminB1:     req.VitaminB1,
		VitaminB2:     req.VitaminB2,
		VitaminB3:     req.VitaminB3,
		VitaminB9:     req.VitaminB9,
	}
}

// CreateFoodItem adds a food item to the catalog. Trainer/admin only.
func (h *FoodItemHandler) CreateFoodItem(c *gin.Context) {
	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item, err := h.foodItemService.CreateFoodItem(c.Request.Context(), req.toDomain())
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetFoodItem returns a single catalog entry by ID.
func (h *FoodItemHandler) GetFoodItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("foodItemId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid food item ID format")
		return
	}

	item, err := h.foodItemService.GetFoodItem(c.Request.Context(), id)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListFoodItems returns the whole catalog.
func (h *FoodItemHandler) ListFoodItems(c *gin.Context) {
	items, err := h.foodItemService.ListFoodItems(c.Request.Context())
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// UpdateFoodItem replaces the editable fields of a catalog entry.
// Trainer/admin only.
func (h *FoodItemHandler) UpdateFoodItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("foodItemId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid food item ID format")
		return
	}

	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	item := req.toDomain()
	item.ID = id

	updated, err := h.foodItemService.UpdateFoodItem(c.Request.Context(), item)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteFoodItem removes a catalog entry. Trainer/admin only.
func (h *FoodItemHandler) DeleteFoodItem(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("foodItemId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid food item ID format")
		return
	}

	if err := h.foodItemService.DeleteFoodItem(c.Request.Context(), id); err != nil {
		h.mapError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FoodItemHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFoodItemInvalid):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFoodItemNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

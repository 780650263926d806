package service

import (
	"context"
	"errors"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrFoodItemNotFound = errors.New("food item not found")
	ErrFoodItemInvalid  = errors.New("food item name, quantity and energy are required")
)

// FoodItemService manages the shared nutrition catalog trainers draw on when
// composing diet plans.
type FoodItemService interface {
	CreateFoodItem(ctx context.Context, item *domain.FoodItem) (*domain.FoodItem, error)
	GetFoodItem(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error)
	ListFoodItems(ctx context.Context) ([]domain.FoodItem, error)
	UpdateFoodItem(ctx context.Context, item *domain.FoodItem) (*domain.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id primitive.ObjectID) error
}

type foodItemService struct {
	foodItemRepo repository.FoodItemRepository
}

// NewFoodItemService creates a new instance of foodItemService.
func NewFoodItemService(foodItemRepo repository.FoodItemRepository) FoodItemService {
	return &foodItemService{foodItemRepo: foodItemRepo}
}

func (s *foodItemService) CreateFoodItem(ctx context.Context, item *domain.FoodItem) (*domain.FoodItem, error) {
	if err := validateFoodItem(item); err != nil {
		return nil, err
	}

	id, err := s.foodItemRepo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

func (s *foodItemService) GetFoodItem(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	item, err := s.foodItemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *foodItemService) ListFoodItems(ctx context.Context) ([]domain.FoodItem, error) {
	items, err := s.foodItemRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	return items, nil
}

func (s *foodItemService) UpdateFoodItem(ctx context.Context, item *domain.FoodItem) (*domain.FoodItem, error) {
	if err := validateFoodItem(item); err != nil {
		return nil, err
	}

	if err := s.foodItemRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	return s.foodItemRepo.GetByID(ctx, item.ID)
}

func (s *foodItemService) DeleteFoodItem(ctx context.Context, id primitive.ObjectID) error {
	if err := s.foodItemRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFoodItemNotFound
		}
		return err
	}
	return nil
}

func validateFoodItem(item *domain.FoodItem) error {
	if item.FoodName == "" || item.Quantity == "" || item.EnergyKcal <= 0 {
		return ErrFoodItemInvalid
	}
	if item.Carbohydrates < 0 || item.Protein < 0 || item.Fat < 0 || item.Fiber < 0 {
		return ErrFoodItemInvalid
	}
	return nil
}

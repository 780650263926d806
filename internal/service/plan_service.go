package service

import (
	"context"
	"errors"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlanNotFound = errors.New("no plan found for the user")
	ErrUserNotFound = errors.New("user not found")
)

// PlanService manages per-member workout and diet plans. These are the
// prescriptions drawn up by trainers; actual logging goes through the
// activity ledger.
type PlanService interface {
	SetWorkoutPlan(ctx context.Context, userID primitive.ObjectID, plan *domain.WorkoutPlan) error
	GetWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, userID primitive.ObjectID) error
	RecordDayProgress(ctx context.Context, userID primitive.ObjectID, progress domain.DayProgress) error

	CreateDietPlan(ctx context.Context, plan *domain.DietPlan) (*domain.DietPlan, error)
	GetDietPlans(ctx context.Context, userID string) ([]domain.DietPlan, error)
	UpdateDietPlan(ctx context.Context, plan *domain.DietPlan) error
	DeleteDietPlan(ctx context.Context, id primitive.ObjectID, userID string) error
}

type planService struct {
	planRepo repository.PlanRepository
	userRepo repository.UserRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, userRepo repository.UserRepository) PlanService {
	return &planService{planRepo: planRepo, userRepo: userRepo}
}

func (s *planService) SetWorkoutPlan(ctx context.Context, userID primitive.ObjectID, plan *domain.WorkoutPlan) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.planRepo.SetWorkoutPlan(ctx, userID, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *planService) GetWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetWorkoutPlan(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) DeleteWorkoutPlan(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.planRepo.DeleteWorkoutPlan(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

func (s *planService) RecordDayProgress(ctx context.Context, userID primitive.ObjectID, progress domain.DayProgress) error {
	if progress.Day == "" {
		return errors.New("progress day is required")
	}

	if err := s.planRepo.UpsertDayProgress(ctx, userID, progress); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

func (s *planService) CreateDietPlan(ctx context.Context, plan *domain.DietPlan) (*domain.DietPlan, error) {
	id, err := s.planRepo.CreateDietPlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

func (s *planService) GetDietPlans(ctx context.Context, userID string) ([]domain.DietPlan, error) {
	plans, err := s.planRepo.GetDietPlansByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.DietPlan{}
	}
	return plans, nil
}

func (s *planService) UpdateDietPlan(ctx context.Context, plan *domain.DietPlan) error {
	if err := s.planRepo.UpdateDietPlan(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

func (s *planService) DeleteDietPlan(ctx context.Context, id primitive.ObjectID, userID string) error {
	if err := s.planRepo.DeleteDietPlan(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

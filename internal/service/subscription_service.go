package service

import (
	"context"
	"errors"
	"time"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrPlanInvalid          = errors.New("plan name, duration and price are required")
	ErrInvalidPlanDuration  = errors.New("plan duration must be 1, 3, 6 or 12 months")
	ErrSubscriptionNotFound = errors.New("subscription plan not found")
	ErrNoActiveMembership   = errors.New("no active membership for this user")
)

var allowedDurations = map[int]bool{1: true, 3: true, 6: true, 12: true}

// SubscriptionService manages membership tiers and member subscriptions.
type SubscriptionService interface {
	CreatePlan(ctx context.Context, plan *domain.SubscriptionPlan) (*domain.SubscriptionPlan, error)
	ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, plan *domain.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id primitive.ObjectID) error

	Subscribe(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.Membership, error)
	GetActiveMembership(ctx context.Context, userID string) (*domain.Membership, error)
	// ExpireMemberships deactivates memberships past their expiry. Run by
	// the nightly scheduler.
	ExpireMemberships(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
}

// NewSubscriptionService creates a new instance of subscriptionService.
func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository, logger *zap.Logger) SubscriptionService {
	return &subscriptionService{subscriptionRepo: subscriptionRepo, logger: logger}
}

func (s *subscriptionService) CreatePlan(ctx context.Context, plan *domain.SubscriptionPlan) (*domain.SubscriptionPlan, error) {
	if plan.PlanName == "" || plan.Price <= 0 {
		return nil, ErrPlanInvalid
	}
	if !allowedDurations[plan.DurationMonths] {
		return nil, ErrInvalidPlanDuration
	}

	id, err := s.subscriptionRepo.CreatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	return plan, nil
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	plans, err := s.subscriptionRepo.GetPlans(ctx)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.SubscriptionPlan{}
	}
	return plans, nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, plan *domain.SubscriptionPlan) error {
	if plan.PlanName == "" || plan.Price <= 0 {
		return ErrPlanInvalid
	}
	if !allowedDurations[plan.DurationMonths] {
		return ErrInvalidPlanDuration
	}

	if err := s.subscriptionRepo.UpdatePlan(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *subscriptionService) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	if err := s.subscriptionRepo.DeletePlan(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID string, planID primitive.ObjectID) (*domain.Membership, error) {
	plans, err := s.subscriptionRepo.GetPlans(ctx)
	if err != nil {
		return nil, err
	}

	var plan *domain.SubscriptionPlan
	for i := range plans {
		if plans[i].ID == planID {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		return nil, ErrSubscriptionNotFound
	}

	now := time.Now().UTC()
	membership := &domain.Membership{
		UserID:    userID,
		PlanID:    planID,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, plan.DurationMonths, 0),
		Active:    true,
	}

	id, err := s.subscriptionRepo.CreateMembership(ctx, membership)
	if err != nil {
		return nil, err
	}
	membership.ID = id
	return membership, nil
}

func (s *subscriptionService) GetActiveMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	m, err := s.subscriptionRepo.GetActiveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActiveMembership
		}
		return nil, err
	}
	return m, nil
}

func (s *subscriptionService) ExpireMemberships(ctx context.Context) (int64, error) {
	count, err := s.subscriptionRepo.DeactivateExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Info("deactivated expired memberships", zap.Int64("count", count))
	}
	return count, nil
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeSubscriptionRepo struct {
	mu          sync.Mutex
	plans       []domain.SubscriptionPlan
	memberships []domain.Membership
}

func (r *fakeSubscriptionRepo) CreatePlan(ctx context.Context, plan *domain.SubscriptionPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *plan
	stored.ID = primitive.NewObjectID()
	r.plans = append(r.plans, stored)
	return stored.ID, nil
}

func (r *fakeSubscriptionRepo) GetPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SubscriptionPlan(nil), r.plans...), nil
}

func (r *fakeSubscriptionRepo) UpdatePlan(ctx context.Context, plan *domain.SubscriptionPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.plans {
		if r.plans[i].ID == plan.ID {
			r.plans[i] = *plan
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSubscriptionRepo) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.plans {
		if r.plans[i].ID == id {
			r.plans = append(r.plans[:i], r.plans[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSubscriptionRepo) CreateMembership(ctx context.Context, m *domain.Membership) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	stored.ID = primitive.NewObjectID()
	r.memberships = append(r.memberships, stored)
	return stored.ID, nil
}

func (r *fakeSubscriptionRepo) GetActiveMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.memberships {
		if r.memberships[i].UserID == userID && r.memberships[i].Active {
			copied := r.memberships[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSubscriptionRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for i := range r.memberships {
		if r.memberships[i].Active && r.memberships[i].ExpiresAt.Before(now) {
			r.memberships[i].Active = false
			count++
		}
	}
	return count, nil
}

func newTestSubscriptionService(repo repository.SubscriptionRepository) SubscriptionService {
	return NewSubscriptionService(repo, zap.NewNop())
}

func TestCreatePlanValidation(t *testing.T) {
	svc := newTestSubscriptionService(&fakeSubscriptionRepo{})
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, &domain.SubscriptionPlan{DurationMonths: 3, Price: 999})
	require.ErrorIs(t, err, ErrPlanInvalid)

	_, err = svc.CreatePlan(ctx, &domain.SubscriptionPlan{PlanName: "Quarterly", DurationMonths: 4, Price: 999})
	require.ErrorIs(t, err, ErrInvalidPlanDuration)

	plan, err := svc.CreatePlan(ctx, &domain.SubscriptionPlan{PlanName: "Quarterly", DurationMonths: 3, Price: 999})
	require.NoError(t, err)
	require.False(t, plan.ID.IsZero())
}

func TestSubscribeComputesExpiry(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := newTestSubscriptionService(repo)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, &domain.SubscriptionPlan{PlanName: "Half Year", DurationMonths: 6, Price: 4999})
	require.NoError(t, err)

	membership, err := svc.Subscribe(ctx, "member-1", plan.ID)
	require.NoError(t, err)
	require.True(t, membership.Active)

	expected := membership.StartedAt.AddDate(0, 6, 0)
	require.Equal(t, expected, membership.ExpiresAt)

	active, err := svc.GetActiveMembership(ctx, "member-1")
	require.NoError(t, err)
	require.Equal(t, membership.ID, active.ID)
}

func TestSubscribeUnknownPlan(t *testing.T) {
	svc := newTestSubscriptionService(&fakeSubscriptionRepo{})

	_, err := svc.Subscribe(context.Background(), "member-1", primitive.NewObjectID())
	require.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestExpireMembershipsSweep(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	svc := newTestSubscriptionService(repo)
	ctx := context.Background()

	repo.memberships = append(repo.memberships, domain.Membership{
		ID:        primitive.NewObjectID(),
		UserID:    "member-1",
		StartedAt: time.Now().AddDate(0, -2, 0),
		ExpiresAt: time.Now().AddDate(0, -1, 0),
		Active:    true,
	})

	count, err := svc.ExpireMemberships(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	_, err = svc.GetActiveMembership(ctx, "member-1")
	require.ErrorIs(t, err, ErrNoActiveMembership)
}

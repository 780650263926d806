package repository

import (
	"context"
	"time"

	"levelup/gym-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound       = RepositoryError("not found")
	ErrDuplicateEntry = RepositoryError("duplicate entry")
	ErrUpdateFailed   = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ActivityRepository is the activity ledger store: per-member, per-day,
// append-only workout and diet logs.
//
// Both Append methods must enforce at most one entry per
// (owner, day, entry name) with a single conditional write against the
// store. A read-then-write duplicate check performed here or by callers
// loses updates under concurrent appends.
type ActivityRepository interface {
	// AppendWorkout appends entry to the owner's day slice, creating the
	// document and the day lazily. Returns ErrDuplicateEntry when the
	// workout name was already logged for that day.
	AppendWorkout(ctx context.Context, ownerID, dayKey string, entry domain.WorkoutEntry) error
	// AppendDiet is symmetric to AppendWorkout, keyed on food name.
	AppendDiet(ctx context.Context, ownerID, dayKey string, entry domain.DietEntry) error
	// GetDay returns the owner's slice for one day, or ErrNotFound when the
	// owner never logged or never logged that day.
	GetDay(ctx context.Context, ownerID, dayKey string) (*domain.DaySlice, error)
	// GetByOwner returns the owner's full ledger document, or ErrNotFound.
	GetByOwner(ctx context.Context, ownerID string) (*domain.ActivityDocument, error)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// LatestRegistrationID returns the most recently issued registration ID,
	// or ErrNotFound when no user has one yet.
	LatestRegistrationID(ctx context.Context) (string, error)
	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}

// ExerciseRepository defines the interface for the exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// FoodItemRepository defines the interface for the nutrition catalog.
type FoodItemRepository interface {
	Create(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error)
	GetAll(ctx context.Context) ([]domain.FoodItem, error)
	Update(ctx context.Context, item *domain.FoodItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanRepository manages workout plans (embedded in the user document) and
// diet plans (their own collection).
type PlanRepository interface {
	SetWorkoutPlan(ctx context.Context, userID primitive.ObjectID, plan *domain.WorkoutPlan) error
	GetWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, userID primitive.ObjectID) error
	UpsertDayProgress(ctx context.Context, userID primitive.ObjectID, progress domain.DayProgress) error

	CreateDietPlan(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error)
	GetDietPlansByUser(ctx context.Context, userID string) ([]domain.DietPlan, error)
	UpdateDietPlan(ctx context.Context, plan *domain.DietPlan) error
	DeleteDietPlan(ctx context.Context, id primitive.ObjectID, userID string) error
}

// AttendanceRepository records daily member presence.
type AttendanceRepository interface {
	// Mark inserts a presence record; ErrDuplicateEntry when the member was
	// already marked for that date.
	Mark(ctx context.Context, record *domain.Attendance) error
	GetByUserAndRange(ctx context.Context, userID string, dayKeys []string) ([]domain.Attendance, error)
	// MarkedUserIDs returns the IDs of every user with a record for the date.
	MarkedUserIDs(ctx context.Context, date string) (map[string]bool, error)
	MarkMany(ctx context.Context, records []domain.Attendance) error
}

// SubscriptionRepository manages membership tiers and member subscriptions.
type SubscriptionRepository interface {
	CreatePlan(ctx context.Context, plan *domain.SubscriptionPlan) (primitive.ObjectID, error)
	GetPlans(ctx context.Context) ([]domain.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, plan *domain.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id primitive.ObjectID) error

	CreateMembership(ctx context.Context, m *domain.Membership) (primitive.ObjectID, error)
	GetActiveMembership(ctx context.Context, userID string) (*domain.Membership, error)
	// DeactivateExpired flips Active off for every membership past its
	// expiry and returns how many were touched.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

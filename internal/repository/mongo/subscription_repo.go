package mongo

import (
	"context"
	"errors"
	"time"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	subscriptionPlanCollectionName = "subscription_plans"
	membershipCollectionName       = "memberships"
)

// mongoSubscriptionRepository implements repository.SubscriptionRepository.
type mongoSubscriptionRepository struct {
	plans       *mongo.Collection
	memberships *mongo.Collection
}

// NewMongoSubscriptionRepository creates a new subscription repository.
func NewMongoSubscriptionRepository(db *mongo.Database) repository.SubscriptionRepository {
	return &mongoSubscriptionRepository{
		plans:       db.Collection(subscriptionPlanCollectionName),
		memberships: db.Collection(membershipCollectionName),
	}
}

// CreatePlan inserts a new membership tier.
func (r *mongoSubscriptionRepository) CreatePlan(ctx context.Context, plan *domain.SubscriptionPlan) (primitive.ObjectID, error) {
	if plan.PlanName == "" {
		return primitive.NilObjectID, errors.New("plan name is required")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.plans.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetPlans retrieves every membership tier.
func (r *mongoSubscriptionRepository) GetPlans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "duration", Value: 1}})

	cursor, err := r.plans.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.SubscriptionPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdatePlan replaces the mutable fields of a membership tier.
func (r *mongoSubscriptionRepository) UpdatePlan(ctx context.Context, plan *domain.SubscriptionPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	filter := bson.M{"_id": plan.ID}
	update := bson.M{
		"$set": bson.M{
			"plan_name": plan.PlanName,
			"duration":  plan.DurationMonths,
			"price":     plan.Price,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.plans.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeletePlan removes a membership tier.
func (r *mongoSubscriptionRepository) DeletePlan(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.plans.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateMembership subscribes a member to a plan.
func (r *mongoSubscriptionRepository) CreateMembership(ctx context.Context, m *domain.Membership) (primitive.ObjectID, error) {
	if m.UserID == "" || m.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("membership requires user ID and plan ID")
	}

	m.ID = primitive.NewObjectID()

	result, err := r.memberships.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted membership ID")
	}
	return insertedID, nil
}

// GetActiveMembership fetches the member's current active membership.
func (r *mongoSubscriptionRepository) GetActiveMembership(ctx context.Context, userID string) (*domain.Membership, error) {
	var m domain.Membership
	filter := bson.M{"user_id": userID, "active": true}
	opts := options.FindOne().SetSort(bson.D{{Key: "expiresAt", Value: -1}})

	err := r.memberships.FindOne(ctx, filter, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// DeactivateExpired flips Active off for memberships past their expiry.
func (r *mongoSubscriptionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{"active": true, "expiresAt": bson.M{"$lt": now}}
	update := bson.M{"$set": bson.M{"active": false}}

	result, err := r.memberships.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureMembershipIndexes creates necessary indexes. Call during startup.
func EnsureMembershipIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "expiresAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

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

const dietPlanCollectionName = "diet_plans"

// mongoPlanRepository implements repository.PlanRepository. Workout plans
// live embedded in the user document (one per member, replaced on set);
// diet plans get their own collection.
type mongoPlanRepository struct {
	users     *mongo.Collection
	dietPlans *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		users:     db.Collection(userCollectionName),
		dietPlans: db.Collection(dietPlanCollectionName),
	}
}

// SetWorkoutPlan stores (or replaces) the member's workout plan.
func (r *mongoPlanRepository) SetWorkoutPlan(ctx context.Context, userID primitive.ObjectID, plan *domain.WorkoutPlan) error {
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Progress == nil {
		plan.Progress = []domain.DayProgress{}
	}

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"workout_plan": plan}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetWorkoutPlan fetches the member's workout plan.
func (r *mongoPlanRepository) GetWorkoutPlan(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var doc struct {
		WorkoutPlan *domain.WorkoutPlan `bson:"workout_plan"`
	}
	opts := options.FindOne().SetProjection(bson.M{"workout_plan": 1})

	err := r.users.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if doc.WorkoutPlan == nil {
		return nil, repository.ErrNotFound
	}
	return doc.WorkoutPlan, nil
}

// DeleteWorkoutPlan removes the member's workout plan.
func (r *mongoPlanRepository) DeleteWorkoutPlan(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID, "workout_plan": bson.M{"$exists": true}},
		bson.M{"$unset": bson.M{"workout_plan": ""}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpsertDayProgress records progress for one weekday in the member's plan,
// replacing any existing progress for that day. Two updates: pull the old
// day then push the new one, so repeated submissions for the same day
// converge on the latest.
func (r *mongoPlanRepository) UpsertDayProgress(ctx context.Context, userID primitive.ObjectID, progress domain.DayProgress) error {
	filter := bson.M{"_id": userID, "workout_plan": bson.M{"$exists": true}}

	_, err := r.users.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"workout_plan.progress": bson.M{"day": progress.Day}},
	})
	if err != nil {
		return err
	}

	result, err := r.users.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"workout_plan.progress": progress},
		"$set":  bson.M{"workout_plan.updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateDietPlan inserts a new diet plan.
func (r *mongoPlanRepository) CreateDietPlan(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	if plan.UserID == "" {
		return primitive.NilObjectID, errors.New("diet plan requires a user ID")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Meals == nil {
		plan.Meals = []domain.Meal{}
	}

	result, err := r.dietPlans.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted diet plan ID")
	}
	return insertedID, nil
}

// GetDietPlansByUser retrieves all diet plans for one member, newest first.
func (r *mongoPlanRepository) GetDietPlansByUser(ctx context.Context, userID string) ([]domain.DietPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.dietPlans.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.DietPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdateDietPlan replaces the mutable fields of a diet plan, scoped to its
// owner so one member cannot edit another's plan.
func (r *mongoPlanRepository) UpdateDietPlan(ctx context.Context, plan *domain.DietPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("diet plan ID is required for update")
	}

	filter := bson.M{"_id": plan.ID, "user_id": plan.UserID}
	update := bson.M{
		"$set": bson.M{
			"start_date":       plan.StartDate,
			"end_date":         plan.EndDate,
			"desired_weight":   plan.DesiredWeight,
			"desired_calories": plan.DesiredCalories,
			"desired_proteins": plan.DesiredProteins,
			"meals":            plan.Meals,
			"updated_at":       time.Now().UTC(),
		},
	}

	result, err := r.dietPlans.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteDietPlan removes a diet plan owned by the given member.
func (r *mongoPlanRepository) DeleteDietPlan(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.dietPlans.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDietPlanIndexes creates necessary indexes. Call during startup.
func EnsureDietPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

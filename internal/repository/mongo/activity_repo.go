package mongo

import (
	"context"
	"errors"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollectionName = "workout_and_diet_tracking"

// mongoActivityRepository implements repository.ActivityRepository.
//
// One document per member, keyed by the member ID, with a typed day-key map:
//
//	{ "_id": "<ownerId>", "days": { "01-01-2025": { "workout_logs": [...], "diet_logs": [...] } } }
//
// Uniqueness of entry names within a day is enforced server-side by a
// conditional $push; the repository never does a read-then-write check.
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new activity ledger repository.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// AppendWorkout appends a workout entry under (ownerID, dayKey), keyed by
// workout name.
func (r *mongoActivityRepository) AppendWorkout(ctx context.Context, ownerID, dayKey string, entry domain.WorkoutEntry) error {
	if ownerID == "" || dayKey == "" || entry.WorkoutName == "" {
		return errors.New("owner ID, day key and workout name are required")
	}
	if err := r.ensureDaySlice(ctx, ownerID, dayKey); err != nil {
		return err
	}
	return r.guardedPush(ctx, ownerID,
		"days."+dayKey+".workout_logs",
		"workout_name", entry.WorkoutName,
		entry,
	)
}

// AppendDiet appends a diet entry under (ownerID, dayKey), keyed by food name.
func (r *mongoActivityRepository) AppendDiet(ctx context.Context, ownerID, dayKey string, entry domain.DietEntry) error {
	if ownerID == "" || dayKey == "" || entry.FoodName == "" {
		return errors.New("owner ID, day key and food name are required")
	}
	if err := r.ensureDaySlice(ctx, ownerID, dayKey); err != nil {
		return err
	}
	return r.guardedPush(ctx, ownerID,
		"days."+dayKey+".diet_logs",
		"food_name", entry.FoodName,
		entry,
	)
}

// ensureDaySlice lazily creates the ledger document and/or the day slice.
// The day is always created with both lists so a slice is never partially
// present.
//
// A duplicate key on _id means a concurrent request inserted the owner
// document first. That request may have been creating a different day (a
// midnight rollover race on a first-ever append), so the upsert is retried
// once against the now-existing document. A second duplicate key can only
// mean this day slice itself already exists.
func (r *mongoActivityRepository) ensureDaySlice(ctx context.Context, ownerID, dayKey string) error {
	filter := bson.M{
		"_id":           ownerID,
		"days." + dayKey: bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"days." + dayKey: domain.DaySlice{
				WorkoutLogs: []domain.WorkoutEntry{},
				DietLogs:    []domain.DietEntry{},
			},
		},
	}

	for attempt := 0; attempt < 2; attempt++ {
		_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	return nil
}

// guardedPush appends the entry to the array at field only when no element
// of that array carries the same name. The duplicate check and the append
// are one server-side update, so two racing uploads of the same name can
// never both land: the loser matches zero documents.
func (r *mongoActivityRepository) guardedPush(ctx context.Context, ownerID, field, nameKey, name string, entry interface{}) error {
	filter := bson.M{
		"_id": ownerID,
		field: bson.M{"$not": bson.M{"$elemMatch": bson.M{nameKey: name}}},
	}
	update := bson.M{"$push": bson.M{field: entry}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// The document and day exist after ensureDaySlice, so the only way
		// to miss is the name guard.
		return repository.ErrDuplicateEntry
	}
	return nil
}

// GetDay retrieves a single day slice for the owner.
func (r *mongoActivityRepository) GetDay(ctx context.Context, ownerID, dayKey string) (*domain.DaySlice, error) {
	var doc domain.ActivityDocument
	filter := bson.M{"_id": ownerID}
	projection := options.FindOne().SetProjection(bson.M{"days." + dayKey: 1})

	err := r.collection.FindOne(ctx, filter, projection).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	slice, ok := doc.Days[dayKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slice, nil
}

// GetByOwner retrieves the owner's full ledger document.
func (r *mongoActivityRepository) GetByOwner(ctx context.Context, ownerID string) (*domain.ActivityDocument, error) {
	var doc domain.ActivityDocument
	filter := bson.M{"_id": ownerID}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

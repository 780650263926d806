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

const attendanceCollectionName = "user_attendance"

// mongoAttendanceRepository implements repository.AttendanceRepository.
// The unique (user_id, date) index makes the insert itself the duplicate
// check; there is no read-then-write window.
type mongoAttendanceRepository struct {
	collection *mongo.Collection
}

// NewMongoAttendanceRepository creates a new attendance repository.
func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{
		collection: db.Collection(attendanceCollectionName),
	}
}

// Mark records one member's presence for one date.
func (r *mongoAttendanceRepository) Mark(ctx context.Context, record *domain.Attendance) error {
	if record.UserID == "" || record.Date == "" {
		return errors.New("attendance requires user ID and date")
	}

	record.ID = primitive.NewObjectID()
	record.MarkedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// GetByUserAndRange retrieves the member's records for the given day keys.
func (r *mongoAttendanceRepository) GetByUserAndRange(ctx context.Context, userID string, dayKeys []string) ([]domain.Attendance, error) {
	filter := bson.M{
		"user_id": userID,
		"date":    bson.M{"$in": dayKeys},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []domain.Attendance
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// MarkedUserIDs returns the set of user IDs with any record for the date.
func (r *mongoAttendanceRepository) MarkedUserIDs(ctx context.Context, date string) (map[string]bool, error) {
	opts := options.Find().SetProjection(bson.M{"user_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		UserID string `bson:"user_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	marked := make(map[string]bool, len(docs))
	for _, d := range docs {
		marked[d.UserID] = true
	}
	return marked, nil
}

// MarkMany bulk-inserts attendance records. Used by the nightly absentee
// job; duplicates are skipped rather than failing the batch.
func (r *mongoAttendanceRepository) MarkMany(ctx context.Context, records []domain.Attendance) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(records))
	for i := range records {
		records[i].ID = primitive.NewObjectID()
		records[i].MarkedAt = now
		docs[i] = records[i]
	}

	opts := options.InsertMany().SetOrdered(false)
	_, err := r.collection.InsertMany(ctx, docs, opts)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}

// EnsureAttendanceIndexes creates necessary indexes. Call during startup.
func EnsureAttendanceIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}

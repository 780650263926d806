package mongo

import (
	"context"
	"testing"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockedActivityRepo(mt *mtest.T) *mongoActivityRepository {
	return &mongoActivityRepository{collection: mt.Coll}
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "duplicate key error",
	})
}

func updateMatchedResponse(n int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: n},
		bson.E{Key: "nModified", Value: n},
	)
}

func TestAppendWorkoutRetriesDayCreateAfterOwnerInsertRace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("retry creates the day slice", func(mt *mtest.T) {
		repo := newMockedActivityRepo(mt)

		// Another request inserted the owner document first (for a different
		// day key), so the first upsert loses on _id. The retry must run so
		// this day slice is created before the guarded push.
		mt.AddMockResponses(
			duplicateKeyResponse(),   // first day-slice upsert
			updateMatchedResponse(1), // retried upsert against the existing document
			updateMatchedResponse(1), // guarded push lands
		)

		err := repo.AppendWorkout(context.Background(), "member-1", "01-01-2025", domain.WorkoutEntry{
			WorkoutName: "Squats",
		})
		require.NoError(mt, err)
	})
}

func TestAppendWorkoutSameDayRaceStillAppends(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("double duplicate key means the day exists", func(mt *mtest.T) {
		repo := newMockedActivityRepo(mt)

		// Both upsert attempts lose: the owner document and the day slice
		// were created concurrently. That is success for ensureDaySlice;
		// the guarded push decides whether the entry itself is new.
		mt.AddMockResponses(
			duplicateKeyResponse(),
			duplicateKeyResponse(),
			updateMatchedResponse(1),
		)

		err := repo.AppendWorkout(context.Background(), "member-1", "01-01-2025", domain.WorkoutEntry{
			WorkoutName: "Squats",
		})
		require.NoError(mt, err)
	})
}

func TestAppendDietDuplicateNameRejected(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("guarded push matching nothing is a duplicate", func(mt *mtest.T) {
		repo := newMockedActivityRepo(mt)

		mt.AddMockResponses(
			updateMatchedResponse(1), // day-slice upsert
			updateMatchedResponse(0), // name guard excluded the document
		)

		err := repo.AppendDiet(context.Background(), "member-1", "01-01-2025", domain.DietEntry{
			FoodName: "Banana",
		})
		require.ErrorIs(mt, err, repository.ErrDuplicateEntry)
	})
}

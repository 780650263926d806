package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"levelup/gym-app/internal/clock"
	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeActivityRepo mimics the store's append semantics in memory: day slices
// are created idempotently and the uniqueness check happens under the same
// lock as the append.
type fakeActivityRepo struct {
	mu   sync.Mutex
	docs map[string]*domain.ActivityDocument
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{docs: map[string]*domain.ActivityDocument{}}
}

func (r *fakeActivityRepo) daySlice(ownerID, dayKey string) *domain.DaySlice {
	doc, ok := r.docs[ownerID]
	if !ok {
		doc = &domain.ActivityDocument{OwnerID: ownerID, Days: map[string]domain.DaySlice{}}
		r.docs[ownerID] = doc
	}
	if doc.Days == nil {
		doc.Days = map[string]domain.DaySlice{}
	}
	slice := doc.Days[dayKey]
	return &slice
}

func (r *fakeActivityRepo) AppendWorkout(ctx context.Context, ownerID, dayKey string, entry domain.WorkoutEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slice := r.daySlice(ownerID, dayKey)
	for _, existing := range slice.WorkoutLogs {
		if existing.WorkoutName == entry.WorkoutName {
			return repository.ErrDuplicateEntry
		}
	}
	slice.WorkoutLogs = append(slice.WorkoutLogs, entry)
	r.docs[ownerID].Days[dayKey] = *slice
	return nil
}

func (r *fakeActivityRepo) AppendDiet(ctx context.Context, ownerID, dayKey string, entry domain.DietEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slice := r.daySlice(ownerID, dayKey)
	for _, existing := range slice.DietLogs {
		if existing.FoodName == entry.FoodName {
			return repository.ErrDuplicateEntry
		}
	}
	slice.DietLogs = append(slice.DietLogs, entry)
	r.docs[ownerID].Days[dayKey] = *slice
	return nil
}

func (r *fakeActivityRepo) GetDay(ctx context.Context, ownerID, dayKey string) (*domain.DaySlice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	slice, ok := doc.Days[dayKey]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slice, nil
}

func (r *fakeActivityRepo) GetByOwner(ctx context.Context, ownerID string) (*domain.ActivityDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

// fakeStorage records uploads and returns deterministic URLs.
type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
	fail    bool
}

func (s *fakeStorage) Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	if s.fail {
		return "", errors.New("storage unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, objectKey)
	return "https://files.test/" + objectKey, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://files.test/" + objectKey + "?presigned=1", nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, objectKey string) error {
	return nil
}

func newTestActivityService(t *testing.T, repo repository.ActivityRepository, store *fakeStorage) ActivityService {
	t.Helper()
	calendar, err := clock.NewCalendar("UTC")
	require.NoError(t, err)
	if store == nil {
		store = &fakeStorage{}
	}
	return NewActivityService(repo, store, calendar, zap.NewNop())
}

func TestLogWorkoutComputesPerformance(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	entry, dayKey, err := svc.LogWorkout(context.Background(), "member-1", WorkoutLogInput{
		WorkoutName:  "Squats",
		SetsAssigned: 3,
		SetsDone:     3,
		RepsAssigned: 10,
		RepsDone:     10,
	})
	require.NoError(t, err)
	require.NotEmpty(t, dayKey)

	// Weight defaults to 1 when unspecified.
	require.Equal(t, 30.0, entry.LoadAssigned)
	require.Equal(t, 30.0, entry.LoadDone)
	require.Equal(t, 100.0, entry.Performance)
	require.NotEmpty(t, entry.UploadedTime)
}

func TestLogWorkoutAppliesWeight(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	entry, _, err := svc.LogWorkout(context.Background(), "member-1", WorkoutLogInput{
		WorkoutName:  "Deadlift",
		SetsAssigned: 5,
		SetsDone:     4,
		RepsAssigned: 5,
		RepsDone:     5,
		Weight:       60,
	})
	require.NoError(t, err)
	require.Equal(t, 1500.0, entry.LoadAssigned)
	require.Equal(t, 1200.0, entry.LoadDone)
	require.Equal(t, 80.0, entry.Performance)
}

func TestLogWorkoutAllowsExceedingAssignedLoad(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	entry, _, err := svc.LogWorkout(context.Background(), "member-1", WorkoutLogInput{
		WorkoutName:  "Pushups",
		SetsAssigned: 2,
		SetsDone:     3,
		RepsAssigned: 10,
		RepsDone:     10,
	})
	require.NoError(t, err)
	require.Equal(t, 150.0, entry.Performance)
}

func TestLogWorkoutValidation(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		input WorkoutLogInput
	}{
		{"empty name", WorkoutLogInput{SetsAssigned: 3, RepsAssigned: 10}},
		{"negative sets", WorkoutLogInput{WorkoutName: "Squats", SetsAssigned: -1, RepsAssigned: 10}},
		{"negative weight", WorkoutLogInput{WorkoutName: "Squats", SetsAssigned: 3, RepsAssigned: 10, Weight: -5}},
		{"zero assigned sets", WorkoutLogInput{WorkoutName: "Squats", SetsAssigned: 0, RepsAssigned: 10}},
		{"zero assigned reps", WorkoutLogInput{WorkoutName: "Squats", SetsAssigned: 3, RepsAssigned: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.LogWorkout(ctx, "member-1", tc.input)
			require.ErrorIs(t, err, ErrInvalidEntry)
		})
	}
}

func TestLogWorkoutRejectsDuplicateName(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	input := WorkoutLogInput{WorkoutName: "Squats", SetsAssigned: 3, SetsDone: 3, RepsAssigned: 10, RepsDone: 10}

	_, _, err := svc.LogWorkout(ctx, "member-1", input)
	require.NoError(t, err)

	_, _, err = svc.LogWorkout(ctx, "member-1", input)
	require.ErrorIs(t, err, ErrDuplicateLog)

	// A different member logging the same workout is fine.
	_, _, err = svc.LogWorkout(ctx, "member-2", input)
	require.NoError(t, err)
}

func TestLogWorkoutConcurrentDuplicates(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	const attempts = 16
	input := WorkoutLogInput{WorkoutName: "Bench Press", SetsAssigned: 3, SetsDone: 3, RepsAssigned: 8, RepsDone: 8}

	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.LogWorkout(ctx, "member-1", input)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, duplicates := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateLog):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, attempts-1, duplicates)

	doc, err := repo.GetByOwner(ctx, "member-1")
	require.NoError(t, err)
	total := 0
	for _, slice := range doc.Days {
		total += len(slice.WorkoutLogs)
	}
	require.Equal(t, 1, total)
}

func TestLogDietStoresEntry(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	entry, dayKey, err := svc.LogDiet(context.Background(), "member-1", DietLogInput{
		FoodName: "Banana",
		Quantity: 2,
		Units:    "pieces",
	})
	require.NoError(t, err)
	require.Equal(t, "Banana", entry.FoodName)
	require.Empty(t, entry.ImageURL)

	slice, err := svc.GetDay(context.Background(), "member-1", dayKey)
	require.NoError(t, err)
	require.NotNil(t, slice)
	require.Len(t, slice.DietLogs, 1)
	require.Empty(t, slice.WorkoutLogs)
}

func TestLogDietValidation(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	_, _, err := svc.LogDiet(ctx, "member-1", DietLogInput{Quantity: 1})
	require.ErrorIs(t, err, ErrInvalidEntry)

	_, _, err = svc.LogDiet(ctx, "member-1", DietLogInput{FoodName: "Rice", Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidEntry)
}

func TestLogDietRejectsDuplicateFood(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	_, _, err := svc.LogDiet(ctx, "member-1", DietLogInput{FoodName: "Oats", Quantity: 100, Units: "g"})
	require.NoError(t, err)

	_, _, err = svc.LogDiet(ctx, "member-1", DietLogInput{FoodName: "Oats", Quantity: 50, Units: "g"})
	require.ErrorIs(t, err, ErrDuplicateLog)
}

func TestLogDietUploadsImage(t *testing.T) {
	repo := newFakeActivityRepo()
	store := &fakeStorage{}
	svc := newTestActivityService(t, repo, store)

	entry, _, err := svc.LogDiet(context.Background(), "member-1", DietLogInput{
		FoodName: "Salad",
		Quantity: 1,
		Image:    &ImageUpload{ContentType: "image/png", Body: strings.NewReader("fake-bytes")},
	})
	require.NoError(t, err)
	require.Contains(t, entry.ImageURL, "diet_logs/member-1/")
	require.Contains(t, entry.ImageURL, ".png")
	require.Len(t, store.uploads, 1)
}

func TestLogDietRejectsUnsupportedImageType(t *testing.T) {
	repo := newFakeActivityRepo()
	store := &fakeStorage{}
	svc := newTestActivityService(t, repo, store)

	_, _, err := svc.LogDiet(context.Background(), "member-1", DietLogInput{
		FoodName: "Salad",
		Quantity: 1,
		Image:    &ImageUpload{ContentType: "application/pdf", Body: strings.NewReader("nope")},
	})
	require.ErrorIs(t, err, ErrInvalidEntry)
	require.Empty(t, store.uploads)
}

func TestLogDietImageUploadFailure(t *testing.T) {
	repo := newFakeActivityRepo()
	store := &fakeStorage{fail: true}
	svc := newTestActivityService(t, repo, store)

	_, _, err := svc.LogDiet(context.Background(), "member-1", DietLogInput{
		FoodName: "Salad",
		Quantity: 1,
		Image:    &ImageUpload{ContentType: "image/jpeg", Body: strings.NewReader("fake-bytes")},
	})
	require.ErrorIs(t, err, ErrImageUploadError)

	// Nothing was stored; the entry never reached the ledger.
	_, err = repo.GetByOwner(context.Background(), "member-1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetDayAbsentReturnsNil(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	slice, err := svc.GetDay(context.Background(), "nobody", "01-01-2025")
	require.NoError(t, err)
	require.Nil(t, slice)
}

func TestGetDayRejectsMalformedKey(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	_, err := svc.GetDay(context.Background(), "member-1", "2025/01/01")
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestGetRangeGapFills(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	// Seed one logged day in the middle of the range plus one day stored
	// empty, which must read the same as a day never stored.
	repo.docs["member-1"] = &domain.ActivityDocument{
		OwnerID: "member-1",
		Days: map[string]domain.DaySlice{
			"01-01-2025": {
				WorkoutLogs: []domain.WorkoutEntry{{WorkoutName: "Squats"}},
				DietLogs:    []domain.DietEntry{},
			},
			"02-01-2025": {
				WorkoutLogs: []domain.WorkoutEntry{},
				DietLogs:    []domain.DietEntry{},
			},
		},
	}

	reports, err := svc.GetRange(ctx, "member-1", "31-12-2024", "02-01-2025")
	require.NoError(t, err)
	require.Len(t, reports, 3)

	require.Equal(t, "31-12-2024", reports[0].Date)
	require.Nil(t, reports[0].Slice)

	require.Equal(t, "01-01-2025", reports[1].Date)
	require.NotNil(t, reports[1].Slice)
	require.Len(t, reports[1].Slice.WorkoutLogs, 1)

	require.Equal(t, "02-01-2025", reports[2].Date)
	require.Nil(t, reports[2].Slice)
}

func TestGetRangeUnknownOwner(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)

	reports, err := svc.GetRange(context.Background(), "nobody", "01-01-2025", "05-01-2025")
	require.NoError(t, err)
	require.Len(t, reports, 5)
	for _, report := range reports {
		require.Nil(t, report.Slice)
	}
}

func TestGetRangeRejectsBadBounds(t *testing.T) {
	repo := newFakeActivityRepo()
	svc := newTestActivityService(t, repo, nil)
	ctx := context.Background()

	_, err := svc.GetRange(ctx, "member-1", "05-01-2025", "01-01-2025")
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.GetRange(ctx, "member-1", "bogus", "01-01-2025")
	require.ErrorIs(t, err, ErrInvalidRange)
}

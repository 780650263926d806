package service

import (
	"context"
	"sync"
	"testing"

	"levelup/gym-app/internal/clock"
	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]domain.Attendance // keyed by userID + "/" + date
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]domain.Attendance{}}
}

func (r *fakeAttendanceRepo) key(userID, date string) string {
	return userID + "/" + date
}

func (r *fakeAttendanceRepo) Mark(ctx context.Context, record *domain.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := r.key(record.UserID, record.Date)
	if _, exists := r.records[k]; exists {
		return repository.ErrDuplicateEntry
	}
	r.records[k] = *record
	return nil
}

func (r *fakeAttendanceRepo) GetByUserAndRange(ctx context.Context, userID string, dayKeys []string) ([]domain.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Attendance
	for _, day := range dayKeys {
		if rec, ok := r.records[r.key(userID, day)]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) MarkedUserIDs(ctx context.Context, date string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	marked := map[string]bool{}
	for _, rec := range r.records {
		if rec.Date == date {
			marked[rec.UserID] = true
		}
	}
	return marked, nil
}

func (r *fakeAttendanceRepo) MarkMany(ctx context.Context, records []domain.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		k := r.key(rec.UserID, rec.Date)
		if _, exists := r.records[k]; !exists {
			r.records[k] = rec
		}
	}
	return nil
}

type fakeUserRepo struct {
	ids []primitive.ObjectID
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	return primitive.NilObjectID, repository.ErrUpdateFailed
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, known := range r.ids {
		if known == id {
			return &domain.User{ID: id}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) LatestRegistrationID(ctx context.Context) (string, error) {
	return "", repository.ErrNotFound
}

func (r *fakeUserRepo) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.ids, nil
}

func newTestAttendanceService(t *testing.T, attendanceRepo repository.AttendanceRepository, userRepo repository.UserRepository) AttendanceService {
	t.Helper()
	calendar, err := clock.NewCalendar("UTC")
	require.NoError(t, err)
	return NewAttendanceService(attendanceRepo, userRepo, calendar, zap.NewNop())
}

func TestMarkPresentOncePerDay(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(t, repo, &fakeUserRepo{})
	ctx := context.Background()

	record, err := svc.MarkPresent(ctx, "member-1")
	require.NoError(t, err)
	require.True(t, record.Present)
	require.NotEmpty(t, record.Date)

	_, err = svc.MarkPresent(ctx, "member-1")
	require.ErrorIs(t, err, ErrAlreadyMarked)
}

func TestAttendanceRangeGapFillsAbsences(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(t, repo, &fakeUserRepo{})
	ctx := context.Background()

	require.NoError(t, repo.Mark(ctx, &domain.Attendance{
		UserID:  "member-1",
		Date:    "02-01-2025",
		Present: true,
	}))

	records, err := svc.GetRange(ctx, "member-1", "01-01-2025", "03-01-2025")
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.False(t, records[0].Present)
	require.Equal(t, "01-01-2025", records[0].Date)
	require.True(t, records[1].Present)
	require.False(t, records[2].Present)
}

func TestAttendanceRangeRejectsBadBounds(t *testing.T) {
	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(t, repo, &fakeUserRepo{})

	_, err := svc.GetRange(context.Background(), "member-1", "03-01-2025", "01-01-2025")
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestMarkAbsenteesFillsUnmarkedUsers(t *testing.T) {
	present := primitive.NewObjectID()
	absent := primitive.NewObjectID()

	repo := newFakeAttendanceRepo()
	users := &fakeUserRepo{ids: []primitive.ObjectID{present, absent}}
	svc := newTestAttendanceService(t, repo, users)
	ctx := context.Background()

	_, err := svc.MarkPresent(ctx, present.Hex())
	require.NoError(t, err)

	count, err := svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	marked, err := repo.MarkedUserIDs(ctx, mustToday(t))
	require.NoError(t, err)
	require.True(t, marked[present.Hex()])
	require.True(t, marked[absent.Hex()])

	// Second run finds nobody left to mark.
	count, err = svc.MarkAbsentees(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func mustToday(t *testing.T) string {
	t.Helper()
	calendar, err := clock.NewCalendar("UTC")
	require.NoError(t, err)
	day, _ := calendar.Now()
	return day
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"levelup/gym-app/internal/clock"
	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"
	"levelup/gym-app/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrInvalidEntry     = errors.New("invalid log entry")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrDuplicateLog     = errors.New("entry already logged for this date")
	ErrImageUploadError = errors.New("failed to upload image")
)

// allowed content types for diet-log images, mapped to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// WorkoutLogInput is the raw payload for a workout log entry. Weight is the
// unit weight used for load computation; zero means unspecified and defaults
// to 1.
type WorkoutLogInput struct {
	WorkoutName  string
	SetsAssigned int
	SetsDone     int
	RepsAssigned int
	RepsDone     int
	Weight       float64
}

// DietLogInput is the raw payload for a diet log entry. Image is optional;
// when present it is uploaded to object storage before the entry is stored,
// and only the resulting URL is kept.
type DietLogInput struct {
	FoodName string
	Quantity float64
	Units    string
	Image    *ImageUpload
}

// ImageUpload carries an attached image's bytes and MIME type.
type ImageUpload struct {
	ContentType string
	Body        io.Reader
}

// ActivityService owns workout and diet logging: entry validation, idempotent
// appends against today's day key, and gap-filled range reports.
type ActivityService interface {
	LogWorkout(ctx context.Context, ownerID string, in WorkoutLogInput) (*domain.WorkoutEntry, string, error)
	LogDiet(ctx context.Context, ownerID string, in DietLogInput) (*domain.DietEntry, string, error)
	// GetDay returns the owner's slice for one day; (nil, nil) when the
	// owner or the day has nothing stored.
	GetDay(ctx context.Context, ownerID, dayKey string) (*domain.DaySlice, error)
	// GetRange returns one report per calendar day in [from, to], gap-filled
	// with absence markers. Length always equals the calendar span.
	GetRange(ctx context.Context, ownerID, from, to string) ([]domain.DayReport, error)
}

// activityService implements the ActivityService interface.
type activityService struct {
	activityRepo repository.ActivityRepository
	fileStorage  storage.FileStorage
	calendar     *clock.Calendar
	logger       *zap.Logger
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(
	activityRepo repository.ActivityRepository,
	fileStorage storage.FileStorage,
	calendar *clock.Calendar,
	logger *zap.Logger,
) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		fileStorage:  fileStorage,
		calendar:     calendar,
		logger:       logger,
	}
}

// LogWorkout validates and appends a workout entry under today's day key.
// Returns the stored entry and the day key it landed on.
func (s *activityService) LogWorkout(ctx context.Context, ownerID string, in WorkoutLogInput) (*domain.WorkoutEntry, string, error) {
	dayKey, displayTime := s.calendar.Now()

	entry, err := buildWorkoutEntry(in, displayTime)
	if err != nil {
		return nil, "", err
	}

	if err := s.activityRepo.AppendWorkout(ctx, ownerID, dayKey, *entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, "", fmt.Errorf("%w: %s on %s", ErrDuplicateLog, in.WorkoutName, dayKey)
		}
		return nil, "", err
	}

	s.logger.Info("workout logged",
		zap.String("owner", ownerID),
		zap.String("day", dayKey),
		zap.String("workout", entry.WorkoutName),
	)
	return entry, dayKey, nil
}

// LogDiet validates and appends a diet entry under today's day key, uploading
// the attached image first when one is present.
func (s *activityService) LogDiet(ctx context.Context, ownerID string, in DietLogInput) (*domain.DietEntry, string, error) {
	dayKey, displayTime := s.calendar.Now()

	if in.FoodName == "" {
		return nil, "", fmt.Errorf("%w: food name is required", ErrInvalidEntry)
	}
	if in.Quantity <= 0 {
		return nil, "", fmt.Errorf("%w: quantity must be positive", ErrInvalidEntry)
	}

	imageURL := ""
	if in.Image != nil {
		ext, ok := imageExtensions[in.Image.ContentType]
		if !ok {
			return nil, "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidEntry, in.Image.ContentType)
		}
		objectKey := path.Join("diet_logs", ownerID, dayKey, uuid.NewString()+ext)

		url, err := s.fileStorage.Upload(ctx, objectKey, in.Image.ContentType, in.Image.Body)
		if err != nil {
			return nil, "", ErrImageUploadError
		}
		imageURL = url
	}

	entry := &domain.DietEntry{
		FoodName:     in.FoodName,
		Quantity:     in.Quantity,
		Units:        in.Units,
		ImageURL:     imageURL,
		UploadedTime: displayTime,
	}

	if err := s.activityRepo.AppendDiet(ctx, ownerID, dayKey, *entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, "", fmt.Errorf("%w: %s on %s", ErrDuplicateLog, in.FoodName, dayKey)
		}
		return nil, "", err
	}

	s.logger.Info("diet logged",
		zap.String("owner", ownerID),
		zap.String("day", dayKey),
		zap.String("food", entry.FoodName),
	)
	return entry, dayKey, nil
}

// GetDay returns one day's slice. Absence of the owner or the day is not an
// error here; range and day reads are total over the calendar.
func (s *activityService) GetDay(ctx context.Context, ownerID, dayKey string) (*domain.DaySlice, error) {
	if _, err := s.calendar.ParseDayKey(dayKey); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	slice, err := s.activityRepo.GetDay(ctx, ownerID, dayKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return slice, nil
}

// GetRange assembles a complete day-by-day report over the inclusive range.
// Days with no stored entries (including days stored empty) render with a
// nil slice; callers emit the absence marker for those.
func (s *activityService) GetRange(ctx context.Context, ownerID, from, to string) ([]domain.DayReport, error) {
	days, err := s.calendar.DaysInRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	// One fetch for the whole ledger; the walk below fills the gaps. An
	// owner with no ledger document yields an all-marker report.
	doc, err := s.activityRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		doc = &domain.ActivityDocument{OwnerID: ownerID}
	}

	reports := make([]domain.DayReport, 0, len(days))
	for _, day := range days {
		report := domain.DayReport{Date: day}
		if slice, ok := doc.Days[day]; ok && !slice.IsEmpty() {
			s := slice
			report.Slice = &s
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// buildWorkoutEntry turns raw workout input into a canonical entry,
// computing assigned and done loads and the completion performance.
func buildWorkoutEntry(in WorkoutLogInput, displayTime string) (*domain.WorkoutEntry, error) {
	if in.WorkoutName == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrInvalidEntry)
	}
	if in.SetsAssigned < 0 || in.SetsDone < 0 || in.RepsAssigned < 0 || in.RepsDone < 0 {
		return nil, fmt.Errorf("%w: sets and reps cannot be negative", ErrInvalidEntry)
	}
	if in.Weight < 0 {
		return nil, fmt.Errorf("%w: weight cannot be negative", ErrInvalidEntry)
	}

	weight := in.Weight
	if weight == 0 {
		weight = 1
	}

	loadAssigned := float64(in.SetsAssigned) * float64(in.RepsAssigned) * weight
	if loadAssigned == 0 {
		// Performance would divide by zero; reject instead of storing NaN.
		return nil, fmt.Errorf("%w: assigned sets and reps must be non-zero", ErrInvalidEntry)
	}
	loadDone := float64(in.SetsDone) * float64(in.RepsDone) * weight

	// Over 100 is valid: the member exceeded the assigned load.
	performance := loadDone / loadAssigned * 100

	return &domain.WorkoutEntry{
		WorkoutName:  in.WorkoutName,
		SetsAssigned: in.SetsAssigned,
		SetsDone:     in.SetsDone,
		RepsAssigned: in.RepsAssigned,
		RepsDone:     in.RepsDone,
		LoadAssigned: loadAssigned,
		LoadDone:     loadDone,
		Performance:  performance,
		UploadedTime: displayTime,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"levelup/gym-app/internal/clock"
	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/repository"

	"go.uber.org/zap"
)

var ErrAlreadyMarked = errors.New("attendance already recorded for this date")

// AttendanceService records daily member check-ins and backfills absences
// overnight.
type AttendanceService interface {
	// MarkPresent records the member as present for today.
	MarkPresent(ctx context.Context, userID string) (*domain.Attendance, error)
	// GetRange returns one record per day in [from, to]; days without a
	// stored record come back as absent.
	GetRange(ctx context.Context, userID, from, to string) ([]domain.Attendance, error)
	// MarkAbsentees inserts an absent record for every user without a
	// record for today. Run by the nightly scheduler.
	MarkAbsentees(ctx context.Context) (int, error)
}

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	calendar       *clock.Calendar
	logger         *zap.Logger
}

// NewAttendanceService creates a new instance of attendanceService.
func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	calendar *clock.Calendar,
	logger *zap.Logger,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		calendar:       calendar,
		logger:         logger,
	}
}

func (s *attendanceService) MarkPresent(ctx context.Context, userID string) (*domain.Attendance, error) {
	dayKey, _ := s.calendar.Now()

	record := &domain.Attendance{
		UserID:  userID,
		Date:    dayKey,
		Present: true,
	}

	if err := s.attendanceRepo.Mark(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyMarked, dayKey)
		}
		return nil, err
	}
	return record, nil
}

func (s *attendanceService) GetRange(ctx context.Context, userID, from, to string) ([]domain.Attendance, error) {
	days, err := s.calendar.DaysInRange(from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}

	stored, err := s.attendanceRepo.GetByUserAndRange(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]domain.Attendance, len(stored))
	for _, rec := range stored {
		byDate[rec.Date] = rec
	}

	// Gap-fill: a day with no record is an absence, same as a stored
	// absent record.
	records := make([]domain.Attendance, 0, len(days))
	for _, day := range days {
		if rec, ok := byDate[day]; ok {
			records = append(records, rec)
			continue
		}
		records = append(records, domain.Attendance{
			UserID:  userID,
			Date:    day,
			Present: false,
		})
	}
	return records, nil
}

func (s *attendanceService) MarkAbsentees(ctx context.Context) (int, error) {
	dayKey, _ := s.calendar.Now()

	marked, err := s.attendanceRepo.MarkedUserIDs(ctx, dayKey)
	if err != nil {
		return 0, err
	}

	allIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	var absentees []domain.Attendance
	for _, id := range allIDs {
		hex := id.Hex()
		if marked[hex] {
			continue
		}
		absentees = append(absentees, domain.Attendance{
			UserID:  hex,
			Date:    dayKey,
			Present: false,
		})
	}

	if len(absentees) == 0 {
		return 0, nil
	}

	if err := s.attendanceRepo.MarkMany(ctx, absentees); err != nil {
		return 0, err
	}

	s.logger.Info("marked absentees",
		zap.String("date", dayKey),
		zap.Int("count", len(absentees)),
	)
	return len(absentees), nil
}

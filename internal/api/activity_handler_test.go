package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"levelup/gym-app/internal/domain"
	"levelup/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// stubActivityService returns canned values so handler mapping can be tested
// without a real ledger.
type stubActivityService struct {
	logWorkoutErr error
	daySlice      *domain.DaySlice
	reports       []domain.DayReport
	rangeErr      error
}

func (s *stubActivityService) LogWorkout(ctx context.Context, ownerID string, in service.WorkoutLogInput) (*domain.WorkoutEntry, string, error) {
	if s.logWorkoutErr != nil {
		return nil, "", s.logWorkoutErr
	}
	return &domain.WorkoutEntry{WorkoutName: in.WorkoutName, Performance: 100}, "01-01-2025", nil
}

func (s *stubActivityService) LogDiet(ctx context.Context, ownerID string, in service.DietLogInput) (*domain.DietEntry, string, error) {
	return &domain.DietEntry{FoodName: in.FoodName}, "01-01-2025", nil
}

func (s *stubActivityService) GetDay(ctx context.Context, ownerID, dayKey string) (*domain.DaySlice, error) {
	return s.daySlice, nil
}

func (s *stubActivityService) GetRange(ctx context.Context, ownerID, from, to string) ([]domain.DayReport, error) {
	return s.reports, s.rangeErr
}

func setupActivityRouter(svc service.ActivityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewActivityHandler(svc)

	authed := func(c *gin.Context) {
		c.Set(ContextUserIDKey, "member-1")
		c.Set(ContextUserRoleKey, domain.RoleMember)
		c.Next()
	}
	router.POST("/logs/workout", authed, handler.LogWorkout)
	router.GET("/members/:userId/logs/range", handler.GetRangeLogs)
	router.GET("/members/:userId/logs/:date", handler.GetDayLogs)
	return router
}

func TestLogWorkoutEndpointSuccess(t *testing.T) {
	router := setupActivityRouter(&stubActivityService{})

	body, _ := json.Marshal(gin.H{
		"workout_name":  "Squats",
		"sets_assigned": 3,
		"sets_done":     3,
		"reps_assigned": 10,
		"reps_done":     10,
	})
	req := httptest.NewRequest(http.MethodPost, "/logs/workout", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp WorkoutLogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	require.Equal(t, "01-01-2025", resp.Date)
	require.Equal(t, "Squats", resp.Entry.WorkoutName)
}

func TestLogWorkoutEndpointErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid entry", fmt.Errorf("%w: bad", service.ErrInvalidEntry), http.StatusBadRequest},
		{"duplicate", fmt.Errorf("%w: Squats", service.ErrDuplicateLog), http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupActivityRouter(&stubActivityService{logWorkoutErr: tc.err})

			body, _ := json.Marshal(gin.H{
				"workout_name":  "Squats",
				"sets_assigned": 3,
				"reps_assigned": 10,
			})
			req := httptest.NewRequest(http.MethodPost, "/logs/workout", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestGetDayLogsEmptyDayCarriesMarker(t *testing.T) {
	router := setupActivityRouter(&stubActivityService{daySlice: nil})

	req := httptest.NewRequest(http.MethodGet, "/members/member-1/logs/01-01-2025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Empty days still serialize both lists, plus the absence message.
	require.JSONEq(t, `[]`, string(resp["workout_logs"]))
	require.JSONEq(t, `[]`, string(resp["diet_logs"]))
	require.JSONEq(t, fmt.Sprintf("%q", domain.NoLogsMarker), string(resp["message"]))
}

func TestGetDayLogsWithEntries(t *testing.T) {
	router := setupActivityRouter(&stubActivityService{
		daySlice: &domain.DaySlice{
			WorkoutLogs: []domain.WorkoutEntry{{WorkoutName: "Squats"}},
			DietLogs:    []domain.DietEntry{{FoodName: "Banana"}},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/members/member-1/logs/01-01-2025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp DayLogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.WorkoutLogs, 1)
	require.Len(t, resp.DietLogs, 1)
	require.Empty(t, resp.Message)
}

func TestGetRangeLogsRequiresBounds(t *testing.T) {
	router := setupActivityRouter(&stubActivityService{})

	req := httptest.NewRequest(http.MethodGet, "/members/member-1/logs/range?from=01-01-2025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRangeLogsMixedDays(t *testing.T) {
	router := setupActivityRouter(&stubActivityService{
		reports: []domain.DayReport{
			{Date: "31-12-2024"},
			{Date: "01-01-2025", Slice: &domain.DaySlice{
				DietLogs: []domain.DietEntry{{FoodName: "Banana"}},
			}},
			{Date: "02-01-2025"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/members/member-1/logs/range?from=31-12-2024&to=02-01-2025", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []DayLogsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 3)

	require.Equal(t, domain.NoLogsMarker, resp[0].Message)
	require.Empty(t, resp[1].Message)
	require.Len(t, resp[1].DietLogs, 1)
	require.Equal(t, domain.NoLogsMarker, resp[2].Message)
}

package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vocavault/vocavault/store"
)

// RecordStudySessionRequest is the payload for logging a study session.
type RecordStudySessionRequest struct {
	WordsLearned int32   `json:"wordsLearned" validate:"gte=0"`
	TimeSpentMin int32   `json:"timeSpentMin" validate:"gte=0"`
	Accuracy     float64 `json:"accuracy" validate:"gte=0,lte=100"`
}

// SetGoalsRequest is the payload for updating word goals. Zero values
// leave a goal untouched.
type SetGoalsRequest struct {
	WeeklyGoal  int32 `json:"weeklyGoal" validate:"gte=0"`
	MonthlyGoal int32 `json:"monthlyGoal" validate:"gte=0"`
}

// GoalProgressResponse reports goal completion percentages.
type GoalProgressResponse struct {
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
}

// GetStatsOverview returns aggregate totals plus the streak.
// GET /api/v1/stats/overview
func (s *APIV1Service) GetStatsOverview(c echo.Context) error {
	overview, err := s.StatsTracker.GetOverview(c.Request().Context())
	if err != nil {
		slog.Error("failed to get stats overview", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get stats overview"})
	}
	return c.JSON(http.StatusOK, overview)
}

// ListDailyStats lists per-day rows, optionally since a YYYY-MM-DD date.
// GET /api/v1/stats/daily
func (s *APIV1Service) ListDailyStats(c echo.Context) error {
	find := &store.FindDailyStat{}
	if since := c.QueryParam("since"); since != "" {
		find.Since = &since
	}
	rows, err := s.Store.ListDailyStats(c.Request().Context(), find)
	if err != nil {
		slog.Error("failed to list daily stats", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list daily stats"})
	}
	return c.JSON(http.StatusOK, rows)
}

// GetStreak returns the current learning streak.
// GET /api/v1/stats/streak
func (s *APIV1Service) GetStreak(c echo.Context) error {
	streak, err := s.StatsTracker.GetStreak(c.Request().Context())
	if err != nil {
		slog.Error("failed to get streak", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get streak"})
	}
	return c.JSON(http.StatusOK, streak)
}

// GetGoalProgress returns weekly and monthly goal completion, each
// capped at 100 percent.
// GET /api/v1/stats/progress
func (s *APIV1Service) GetGoalProgress(c echo.Context) error {
	ctx := c.Request().Context()
	weekly, err := s.StatsTracker.WeeklyProgress(ctx)
	if err != nil {
		slog.Error("failed to compute weekly progress", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute goal progress"})
	}
	monthly, err := s.StatsTracker.MonthlyProgress(ctx)
	if err != nil {
		slog.Error("failed to compute monthly progress", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to compute goal progress"})
	}
	return c.JSON(http.StatusOK, GoalProgressResponse{Weekly: weekly, Monthly: monthly})
}

// SetGoals updates the weekly and/or monthly word goals.
// PUT /api/v1/stats/goals
func (s *APIV1Service) SetGoals(c echo.Context) error {
	ctx := c.Request().Context()
	request := &SetGoalsRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "goals must be non-negative"})
	}

	if request.WeeklyGoal > 0 {
		if err := s.StatsTracker.SetWeeklyGoal(ctx, request.WeeklyGoal); err != nil {
			slog.Error("failed to set weekly goal", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to set goals"})
		}
	}
	if request.MonthlyGoal > 0 {
		if err := s.StatsTracker.SetMonthlyGoal(ctx, request.MonthlyGoal); err != nil {
			slog.Error("failed to set monthly goal", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to set goals"})
		}
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// RecordStudySession folds a study session into today's stats and
// advances the streak.
// POST /api/v1/stats/study-session
func (s *APIV1Service) RecordStudySession(c echo.Context) error {
	request := &RecordStudySessionRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid study session payload"})
	}

	if err := s.StatsTracker.RecordStudySession(c.Request().Context(), request.WordsLearned, request.TimeSpentMin, request.Accuracy); err != nil {
		slog.Error("failed to record study session", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to record study session"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

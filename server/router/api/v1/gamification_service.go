package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AddExperienceRequest is the payload for granting experience.
type AddExperienceRequest struct {
	Amount int32 `json:"amount" validate:"gt=0"`
}

// AchievementProgressRequest is the payload for setting achievement
// progress.
type AchievementProgressRequest struct {
	Progress int32 `json:"progress" validate:"gte=0"`
}

// GetGamificationState returns the full gamification state.
// GET /api/v1/gamification
func (s *APIV1Service) GetGamificationState(c echo.Context) error {
	state, err := s.Gamification.GetState(c.Request().Context())
	if err != nil {
		slog.Error("failed to get gamification state", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get gamification state"})
	}
	return c.JSON(http.StatusOK, state)
}

// AddExperience grants experience points.
// POST /api/v1/gamification/experience
func (s *APIV1Service) AddExperience(c echo.Context) error {
	request := &AddExperienceRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
	}

	state, err := s.Gamification.AddExperience(c.Request().Context(), request.Amount)
	if err != nil {
		slog.Error("failed to add experience", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to add experience"})
	}
	return c.JSON(http.StatusOK, state)
}

// UnlockBadge marks a badge as unlocked. Unknown badge IDs are no-ops.
// POST /api/v1/gamification/badges/:id/unlock
func (s *APIV1Service) UnlockBadge(c echo.Context) error {
	state, err := s.Gamification.UnlockBadge(c.Request().Context(), c.Param("id"))
	if err != nil {
		slog.Error("failed to unlock badge", slog.String("id", c.Param("id")), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to unlock badge"})
	}
	return c.JSON(http.StatusOK, state)
}

// UpdateAchievementProgress sets an achievement's progress, clamped to
// its maximum.
// POST /api/v1/gamification/achievements/:id/progress
func (s *APIV1Service) UpdateAchievementProgress(c echo.Context) error {
	request := &AchievementProgressRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "progress must be non-negative"})
	}

	state, err := s.Gamification.UpdateAchievementProgress(c.Request().Context(), c.Param("id"), request.Progress)
	if err != nil {
		slog.Error("failed to update achievement progress", slog.String("id", c.Param("id")), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update achievement progress"})
	}
	return c.JSON(http.StatusOK, state)
}

// CompleteAchievement completes an achievement, awarding its points and
// half that as experience exactly once.
// POST /api/v1/gamification/achievements/:id/complete
func (s *APIV1Service) CompleteAchievement(c echo.Context) error {
	state, err := s.Gamification.CompleteAchievement(c.Request().Context(), c.Param("id"))
	if err != nil {
		slog.Error("failed to complete achievement", slog.String("id", c.Param("id")), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to complete achievement"})
	}
	return c.JSON(http.StatusOK, state)
}

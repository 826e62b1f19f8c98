package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vocavault/vocavault/store"
)

// UpsertSettingRequest is the payload for writing one setting value.
type UpsertSettingRequest struct {
	Value string `json:"value"`
}

// ListSettings returns all settings as a flat name-to-value map.
// GET /api/v1/settings
func (s *APIV1Service) ListSettings(c echo.Context) error {
	settings, err := s.Store.ListSettings(c.Request().Context(), &store.FindSetting{})
	if err != nil {
		slog.Error("failed to list settings", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list settings"})
	}
	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Name] = setting.Value
	}
	return c.JSON(http.StatusOK, result)
}

// UpsertSetting creates or replaces one setting.
// PUT /api/v1/settings/:name
func (s *APIV1Service) UpsertSetting(c echo.Context) error {
	name := c.Param("name")
	request := &UpsertSettingRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	setting, err := s.Store.UpsertSetting(c.Request().Context(), &store.Setting{Name: name, Value: request.Value})
	if err != nil {
		slog.Error("failed to upsert setting", slog.String("name", name), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to upsert setting"})
	}
	return c.JSON(http.StatusOK, setting)
}

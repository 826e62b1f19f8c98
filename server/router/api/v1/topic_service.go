package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/vocavault/vocavault/store"
)

// TopicResponse is the JSON shape of a topic.
type TopicResponse struct {
	UID            string `json:"uid"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Icon           string `json:"icon,omitempty"`
	Color          string `json:"color,omitempty"`
	IsCustom       bool   `json:"isCustom"`
	FlashcardCount int32  `json:"flashcardCount"`
	CreatedTs      int64  `json:"createdTs"`
}

// CreateTopicRequest is the payload for creating a custom topic.
type CreateTopicRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// UpdateTopicRequest is the payload for a partial topic update.
type UpdateTopicRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	// FlashcardCount is set explicitly by the client; it is never
	// derived from the flashcard table.
	FlashcardCount *int32 `json:"flashcardCount"`
}

func convertTopic(topic *store.Topic) *TopicResponse {
	return &TopicResponse{
		UID:            topic.UID,
		Name:           topic.Name,
		Description:    topic.Description,
		Icon:           topic.Icon,
		Color:          topic.Color,
		IsCustom:       topic.IsCustom,
		FlashcardCount: topic.FlashcardCount,
		CreatedTs:      topic.CreatedTs,
	}
}

// ListTopics returns all topics, optionally filtered by a search term.
// GET /api/v1/topics
func (s *APIV1Service) ListTopics(c echo.Context) error {
	find := &store.FindTopic{}
	if search := c.QueryParam("search"); search != "" {
		find.Search = &search
	}
	topics, err := s.Store.ListTopics(c.Request().Context(), find)
	if err != nil {
		slog.Error("failed to list topics", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list topics"})
	}
	list := make([]*TopicResponse, 0, len(topics))
	for _, topic := range topics {
		list = append(list, convertTopic(topic))
	}
	return c.JSON(http.StatusOK, list)
}

// CreateTopic creates a custom topic.
// POST /api/v1/topics
func (s *APIV1Service) CreateTopic(c echo.Context) error {
	request := &CreateTopicRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}

	topic, err := s.Store.CreateTopic(c.Request().Context(), &store.Topic{
		UID:         shortuuid.New(),
		Name:        request.Name,
		Description: request.Description,
		Icon:        request.Icon,
		Color:       request.Color,
		IsCustom:    true,
	})
	if err != nil {
		slog.Error("failed to create topic", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create topic"})
	}
	return c.JSON(http.StatusOK, convertTopic(topic))
}

// GetTopic returns one topic by UID.
// GET /api/v1/topics/:uid
func (s *APIV1Service) GetTopic(c echo.Context) error {
	uid := c.Param("uid")
	topic, err := s.Store.GetTopic(c.Request().Context(), &store.FindTopic{UID: &uid})
	if err != nil {
		slog.Error("failed to get topic", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get topic"})
	}
	if topic == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "topic not found"})
	}
	return c.JSON(http.StatusOK, convertTopic(topic))
}

// UpdateTopic partially updates a topic. Updating an unknown UID
// succeeds without effect.
// PATCH /api/v1/topics/:uid
func (s *APIV1Service) UpdateTopic(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	request := &UpdateTopicRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	topic, err := s.Store.GetTopic(ctx, &store.FindTopic{UID: &uid})
	if err != nil {
		slog.Error("failed to get topic", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update topic"})
	}
	if topic == nil {
		return c.JSON(http.StatusOK, nil)
	}

	if err := s.Store.UpdateTopic(ctx, &store.UpdateTopic{
		ID:             topic.ID,
		Name:           request.Name,
		Description:    request.Description,
		Icon:           request.Icon,
		Color:          request.Color,
		FlashcardCount: request.FlashcardCount,
	}); err != nil {
		slog.Error("failed to update topic", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update topic"})
	}

	topic, err = s.Store.GetTopic(ctx, &store.FindTopic{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update topic"})
	}
	return c.JSON(http.StatusOK, convertTopic(topic))
}

// DeleteTopic deletes a custom topic. Built-in topics cannot be
// deleted. Deleting an unknown UID succeeds.
// DELETE /api/v1/topics/:uid
func (s *APIV1Service) DeleteTopic(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	topic, err := s.Store.GetTopic(ctx, &store.FindTopic{UID: &uid})
	if err != nil {
		slog.Error("failed to get topic", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete topic"})
	}
	if topic == nil {
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}
	if !topic.IsCustom {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot delete built-in topic"})
	}
	if err := s.Store.DeleteTopic(ctx, &store.DeleteTopic{ID: topic.ID}); err != nil {
		slog.Error("failed to delete topic", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete topic"})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

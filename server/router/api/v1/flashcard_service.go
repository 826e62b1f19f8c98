package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/vocavault/vocavault/store"
)

// FlashcardResponse is the JSON shape of a flashcard.
type FlashcardResponse struct {
	UID             string  `json:"uid"`
	Term            string  `json:"term"`
	Translation     string  `json:"translation"`
	PartOfSpeech    string  `json:"partOfSpeech"`
	Phonetic        string  `json:"phonetic,omitempty"`
	ExampleSentence string  `json:"exampleSentence,omitempty"`
	Difficulty      string  `json:"difficulty"`
	TopicUID        string  `json:"topicUid"`
	IsLearned       bool    `json:"isLearned"`
	StarRating      int32   `json:"starRating"`
	ReviewCount     int32   `json:"reviewCount"`
	EaseFactor      float64 `json:"easeFactor"`
	NextReviewTs    int64   `json:"nextReviewTs"`
	LastReviewedTs  *int64  `json:"lastReviewedTs,omitempty"`
	CreatedTs       int64   `json:"createdTs"`
}

// CreateFlashcardRequest is the payload for creating a flashcard.
type CreateFlashcardRequest struct {
	Term            string `json:"term" validate:"required"`
	Translation     string `json:"translation" validate:"required"`
	PartOfSpeech    string `json:"partOfSpeech"`
	Phonetic        string `json:"phonetic"`
	ExampleSentence string `json:"exampleSentence"`
	Difficulty      string `json:"difficulty"`
	TopicUID        string `json:"topicUid"`
}

// UpdateFlashcardRequest is the payload for a partial flashcard update.
// Nil fields are left untouched.
type UpdateFlashcardRequest struct {
	Term            *string `json:"term"`
	Translation     *string `json:"translation"`
	PartOfSpeech    *string `json:"partOfSpeech"`
	Phonetic        *string `json:"phonetic"`
	ExampleSentence *string `json:"exampleSentence"`
	Difficulty      *string `json:"difficulty"`
	TopicUID        *string `json:"topicUid"`
	IsLearned       *bool   `json:"isLearned"`
	StarRating      *int32  `json:"starRating"`
}

// ReviewRequest is the payload for recording a review attempt.
type ReviewRequest struct {
	Correct bool `json:"correct"`
}

func convertFlashcard(card *store.Flashcard) *FlashcardResponse {
	return &FlashcardResponse{
		UID:             card.UID,
		Term:            card.Term,
		Translation:     card.Translation,
		PartOfSpeech:    string(card.PartOfSpeech),
		Phonetic:        card.Phonetic,
		ExampleSentence: card.ExampleSentence,
		Difficulty:      string(card.Difficulty),
		TopicUID:        card.TopicUID,
		IsLearned:       card.IsLearned,
		StarRating:      card.StarRating,
		ReviewCount:     card.ReviewCount,
		EaseFactor:      card.EaseFactor,
		NextReviewTs:    card.NextReviewTs,
		LastReviewedTs:  card.LastReviewedTs,
		CreatedTs:       card.CreatedTs,
	}
}

func convertFlashcardList(cards []*store.Flashcard) []*FlashcardResponse {
	list := make([]*FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		list = append(list, convertFlashcard(card))
	}
	return list
}

// ListFlashcards returns flashcards matching the query-parameter filter.
// When `search` is present every other filter parameter is ignored.
// GET /api/v1/flashcards
func (s *APIV1Service) ListFlashcards(c echo.Context) error {
	find := &store.FindFlashcard{}
	if search := c.QueryParam("search"); search != "" {
		find.Search = &search
	}
	if learned := c.QueryParam("learned"); learned != "" {
		value, err := strconv.ParseBool(learned)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid learned parameter"})
		}
		find.Learned = &value
	}
	if stars := c.QueryParam("minStars"); stars != "" {
		value, err := strconv.ParseInt(stars, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid minStars parameter"})
		}
		rating := int32(value)
		find.MinStarRating = &rating
	}
	if pos := c.QueryParam("partOfSpeech"); pos != "" {
		value := store.PartOfSpeech(pos)
		find.PartOfSpeech = &value
	}
	if difficulty := c.QueryParam("difficulty"); difficulty != "" {
		value := store.Difficulty(difficulty)
		find.Difficulty = &value
	}
	if topic := c.QueryParam("topic"); topic != "" {
		find.TopicUID = &topic
	}

	cards, err := s.Store.ListFlashcards(c.Request().Context(), find)
	if err != nil {
		slog.Error("failed to list flashcards", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list flashcards"})
	}
	return c.JSON(http.StatusOK, convertFlashcardList(cards))
}

// CreateFlashcard creates a flashcard with fresh scheduling state.
// POST /api/v1/flashcards
func (s *APIV1Service) CreateFlashcard(c echo.Context) error {
	request := &CreateFlashcardRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "term and translation are required"})
	}

	card, err := s.Store.CreateFlashcard(c.Request().Context(), &store.Flashcard{
		UID:             shortuuid.New(),
		Term:            request.Term,
		Translation:     request.Translation,
		PartOfSpeech:    store.PartOfSpeech(request.PartOfSpeech),
		Phonetic:        request.Phonetic,
		ExampleSentence: request.ExampleSentence,
		Difficulty:      store.Difficulty(request.Difficulty),
		TopicUID:        request.TopicUID,
	})
	if err != nil {
		slog.Error("failed to create flashcard", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create flashcard"})
	}
	return c.JSON(http.StatusOK, convertFlashcard(card))
}

// ListDueFlashcards returns cards whose next review is due, in
// insertion order.
// GET /api/v1/flashcards/due
func (s *APIV1Service) ListDueFlashcards(c echo.Context) error {
	cards, err := s.Scheduler.DueCards(c.Request().Context())
	if err != nil {
		slog.Error("failed to list due flashcards", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list due flashcards"})
	}
	return c.JSON(http.StatusOK, convertFlashcardList(cards))
}

// GetFlashcard returns one flashcard by UID.
// GET /api/v1/flashcards/:uid
func (s *APIV1Service) GetFlashcard(c echo.Context) error {
	uid := c.Param("uid")
	card, err := s.Store.GetFlashcard(c.Request().Context(), &store.FindFlashcard{UID: &uid})
	if err != nil {
		slog.Error("failed to get flashcard", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get flashcard"})
	}
	if card == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "flashcard not found"})
	}
	return c.JSON(http.StatusOK, convertFlashcard(card))
}

// UpdateFlashcard partially updates a flashcard. Updating an unknown
// UID succeeds without effect.
// PATCH /api/v1/flashcards/:uid
func (s *APIV1Service) UpdateFlashcard(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	request := &UpdateFlashcardRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	card, err := s.Store.GetFlashcard(ctx, &store.FindFlashcard{UID: &uid})
	if err != nil {
		slog.Error("failed to get flashcard", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update flashcard"})
	}
	if card == nil {
		return c.JSON(http.StatusOK, nil)
	}

	update := &store.UpdateFlashcard{
		ID:              card.ID,
		Term:            request.Term,
		Translation:     request.Translation,
		Phonetic:        request.Phonetic,
		ExampleSentence: request.ExampleSentence,
		TopicUID:        request.TopicUID,
		IsLearned:       request.IsLearned,
		StarRating:      request.StarRating,
	}
	if request.PartOfSpeech != nil {
		value := store.PartOfSpeech(*request.PartOfSpeech)
		update.PartOfSpeech = &value
	}
	if request.Difficulty != nil {
		value := store.Difficulty(*request.Difficulty)
		update.Difficulty = &value
	}
	if err := s.Store.UpdateFlashcard(ctx, update); err != nil {
		slog.Error("failed to update flashcard", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update flashcard"})
	}

	card, err = s.Store.GetFlashcard(ctx, &store.FindFlashcard{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to update flashcard"})
	}
	return c.JSON(http.StatusOK, convertFlashcard(card))
}

// DeleteFlashcard deletes a flashcard. Deleting an unknown UID succeeds.
// DELETE /api/v1/flashcards/:uid
func (s *APIV1Service) DeleteFlashcard(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	card, err := s.Store.GetFlashcard(ctx, &store.FindFlashcard{UID: &uid})
	if err != nil {
		slog.Error("failed to get flashcard", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete flashcard"})
	}
	if card != nil {
		if err := s.Store.DeleteFlashcard(ctx, &store.DeleteFlashcard{ID: card.ID}); err != nil {
			slog.Error("failed to delete flashcard", slog.String("uid", uid), slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete flashcard"})
		}
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// ReviewFlashcard records one review attempt and returns the card with
// recomputed scheduling fields. Reviewing an unknown UID is a no-op
// that returns null.
// POST /api/v1/flashcards/:uid/review
func (s *APIV1Service) ReviewFlashcard(c echo.Context) error {
	uid := c.Param("uid")
	request := &ReviewRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	card, err := s.Scheduler.RecordReview(c.Request().Context(), uid, request.Correct)
	if err != nil {
		slog.Error("failed to record review", slog.String("uid", uid), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to record review"})
	}
	if card == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, convertFlashcard(card))
}

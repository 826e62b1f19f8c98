package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vocavault/vocavault/server/service/quiz"
)

// StartQuizRequest is the payload for starting a quiz session.
type StartQuizRequest struct {
	FlashcardUIDs []string `json:"flashcardUids" validate:"required,min=1"`
	Type          string   `json:"type" validate:"required,oneof=multiple-choice fill-blank matching"`
}

// AnswerQuizRequest is the payload for recording an answer.
type AnswerQuizRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

// StartQuiz creates a fresh active session, replacing any existing one.
// POST /api/v1/quiz/start
func (s *APIV1Service) StartQuiz(c echo.Context) error {
	request := &StartQuizRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "flashcardUids and a valid type are required"})
	}

	session, err := s.QuizEngine.Start(c.Request().Context(), request.FlashcardUIDs, quiz.Type(request.Type))
	if err != nil {
		slog.Error("failed to start quiz session", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to start quiz session"})
	}
	return c.JSON(http.StatusOK, session)
}

// GetCurrentQuiz returns the active session, or null when none exists.
// GET /api/v1/quiz/current
func (s *APIV1Service) GetCurrentQuiz(c echo.Context) error {
	return c.JSON(http.StatusOK, s.QuizEngine.Current())
}

// AnswerQuizQuestion records or overwrites an answer in the active
// session. Without an active session this is a no-op.
// POST /api/v1/quiz/answer
func (s *APIV1Service) AnswerQuizQuestion(c echo.Context) error {
	request := &AnswerQuizRequest{}
	if err := c.Bind(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}
	if err := s.validate.Struct(request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "questionId is required"})
	}
	s.QuizEngine.Answer(request.QuestionID, request.Answer)
	return c.JSON(http.StatusOK, s.QuizEngine.Current())
}

// NextQuizQuestion advances the active session's question index,
// clamped at the last question.
// POST /api/v1/quiz/next
func (s *APIV1Service) NextQuizQuestion(c echo.Context) error {
	s.QuizEngine.Next()
	return c.JSON(http.StatusOK, s.QuizEngine.Current())
}

// CompleteQuiz scores and finishes the active session, then feeds the
// outcome into the review scheduler and daily stats. Without an active
// session it returns null.
// POST /api/v1/quiz/complete
func (s *APIV1Service) CompleteQuiz(c echo.Context) error {
	ctx := c.Request().Context()
	session := s.QuizEngine.Complete(ctx)
	if session == nil {
		return c.JSON(http.StatusOK, nil)
	}

	// Each question's correctness doubles as a review attempt.
	for _, question := range session.Questions {
		correct := session.Answers[question.ID] == question.CorrectAnswer
		if _, err := s.Scheduler.RecordReview(ctx, question.FlashcardUID, correct); err != nil {
			slog.Error("failed to record review from quiz", slog.String("flashcard", question.FlashcardUID), slog.Any("err", err))
		}
	}

	if len(session.Questions) > 0 {
		accuracy := float64(session.Score) / float64(len(session.Questions)) * 100
		elapsedMin := int32(session.EndTime.Sub(session.StartTime).Minutes())
		if err := s.StatsTracker.RecordQuizResult(ctx, accuracy, elapsedMin); err != nil {
			slog.Error("failed to record quiz stats", slog.Any("err", err))
		}
	}
	return c.JSON(http.StatusOK, session)
}

// ResetQuiz discards the active session without scoring it.
// POST /api/v1/quiz/reset
func (s *APIV1Service) ResetQuiz(c echo.Context) error {
	s.QuizEngine.Reset()
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// GetQuizHistory lists completed sessions, most recent first.
// GET /api/v1/quiz/history
func (s *APIV1Service) GetQuizHistory(c echo.Context) error {
	limit := 0
	if param := c.QueryParam("limit"); param != "" {
		value, err := strconv.Atoi(param)
		if err != nil || value < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit parameter"})
		}
		limit = value
	}
	history, err := s.QuizEngine.History(c.Request().Context(), limit)
	if err != nil {
		slog.Error("failed to list quiz history", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list quiz history"})
	}
	return c.JSON(http.StatusOK, history)
}

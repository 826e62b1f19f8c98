// Package v1 exposes the REST API consumed by the web UI.
package v1

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/vocavault/vocavault/internal/profile"
	"github.com/vocavault/vocavault/server/service/gamification"
	"github.com/vocavault/vocavault/server/service/quiz"
	"github.com/vocavault/vocavault/server/service/srs"
	"github.com/vocavault/vocavault/server/service/stats"
	"github.com/vocavault/vocavault/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store

	Scheduler    *srs.Scheduler
	QuizEngine   *quiz.Engine
	StatsTracker *stats.Tracker
	Gamification *gamification.Service

	validate *validator.Validate
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	return &APIV1Service{
		Profile:      profile,
		Store:        store,
		Scheduler:    srs.NewScheduler(store),
		QuizEngine:   quiz.NewEngine(store),
		StatsTracker: stats.NewTracker(store),
		Gamification: gamification.NewService(store),
		validate:     validator.New(),
	}
}

// RegisterRoutes mounts every v1 endpoint on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	g := echoServer.Group("/api/v1")

	g.GET("/flashcards", s.ListFlashcards)
	g.POST("/flashcards", s.CreateFlashcard)
	g.GET("/flashcards/due", s.ListDueFlashcards)
	g.GET("/flashcards/:uid", s.GetFlashcard)
	g.PATCH("/flashcards/:uid", s.UpdateFlashcard)
	g.DELETE("/flashcards/:uid", s.DeleteFlashcard)
	g.POST("/flashcards/:uid/review", s.ReviewFlashcard)

	g.GET("/topics", s.ListTopics)
	g.POST("/topics", s.CreateTopic)
	g.GET("/topics/:uid", s.GetTopic)
	g.PATCH("/topics/:uid", s.UpdateTopic)
	g.DELETE("/topics/:uid", s.DeleteTopic)

	g.POST("/quiz/start", s.StartQuiz)
	g.GET("/quiz/current", s.GetCurrentQuiz)
	g.POST("/quiz/answer", s.AnswerQuizQuestion)
	g.POST("/quiz/next", s.NextQuizQuestion)
	g.POST("/quiz/complete", s.CompleteQuiz)
	g.POST("/quiz/reset", s.ResetQuiz)
	g.GET("/quiz/history", s.GetQuizHistory)

	g.GET("/stats/overview", s.GetStatsOverview)
	g.GET("/stats/daily", s.ListDailyStats)
	g.GET("/stats/streak", s.GetStreak)
	g.GET("/stats/progress", s.GetGoalProgress)
	g.PUT("/stats/goals", s.SetGoals)
	g.POST("/stats/study-session", s.RecordStudySession)

	g.GET("/gamification", s.GetGamificationState)
	g.POST("/gamification/experience", s.AddExperience)
	g.POST("/gamification/badges/:id/unlock", s.UnlockBadge)
	g.POST("/gamification/achievements/:id/progress", s.UpdateAchievementProgress)
	g.POST("/gamification/achievements/:id/complete", s.CompleteAchievement)

	g.GET("/settings", s.ListSettings)
	g.PUT("/settings/:name", s.UpsertSetting)

	g.GET("/transfer/export", s.Export)
	g.POST("/transfer/import", s.Import)
	g.POST("/transfer/sync", s.Sync)
}

package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Flashcard model related methods.
	CreateFlashcard(ctx context.Context, create *Flashcard) (*Flashcard, error)
	ListFlashcards(ctx context.Context, find *FindFlashcard) ([]*Flashcard, error)
	UpdateFlashcard(ctx context.Context, update *UpdateFlashcard) error
	DeleteFlashcard(ctx context.Context, delete *DeleteFlashcard) error
	// ReplaceFlashcards atomically swaps the whole flashcard partition.
	ReplaceFlashcards(ctx context.Context, flashcards []*Flashcard) error

	// Topic model related methods.
	CreateTopic(ctx context.Context, create *Topic) (*Topic, error)
	ListTopics(ctx context.Context, find *FindTopic) ([]*Topic, error)
	UpdateTopic(ctx context.Context, update *UpdateTopic) error
	DeleteTopic(ctx context.Context, delete *DeleteTopic) error
	// ReplaceTopics atomically swaps the whole topic partition.
	ReplaceTopics(ctx context.Context, topics []*Topic) error

	// QuizSession model related methods.
	CreateQuizSession(ctx context.Context, create *QuizSession) (*QuizSession, error)
	ListQuizSessions(ctx context.Context, find *FindQuizSession) ([]*QuizSession, error)
	DeleteQuizSession(ctx context.Context, delete *DeleteQuizSession) error

	// DailyStat model related methods.
	UpsertDailyStat(ctx context.Context, upsert *UpsertDailyStat) (*DailyStat, error)
	ListDailyStats(ctx context.Context, find *FindDailyStat) ([]*DailyStat, error)
	// ReplaceDailyStats atomically swaps the whole stats partition.
	ReplaceDailyStats(ctx context.Context, stats []*UpsertDailyStat) error

	// Setting model related methods.
	UpsertSetting(ctx context.Context, upsert *Setting) (*Setting, error)
	ListSettings(ctx context.Context, find *FindSetting) ([]*Setting, error)
}

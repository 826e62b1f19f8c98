package store

import (
	"context"
)

// QuizSession is a completed quiz run persisted to history. Active
// sessions live in the quiz engine; only finished ones reach the store.
type QuizSession struct {
	ID        int32
	UID       string
	Kind      string
	Questions string // JSON-encoded question list
	Answers   string // JSON-encoded question-id -> answer map
	Score     int32
	Total     int32
	StartedTs int64
	EndedTs   int64
}

// FindQuizSession is the find condition for quiz history.
type FindQuizSession struct {
	ID   *int32
	UID  *string
	Kind *string

	Limit  *int
	Offset *int
}

// DeleteQuizSession is the delete request for a quiz history entry.
type DeleteQuizSession struct {
	ID int32
}

// CreateQuizSession appends a completed session to the history.
func (s *Store) CreateQuizSession(ctx context.Context, create *QuizSession) (*QuizSession, error) {
	return s.driver.CreateQuizSession(ctx, create)
}

// ListQuizSessions lists quiz history, most recent first.
func (s *Store) ListQuizSessions(ctx context.Context, find *FindQuizSession) ([]*QuizSession, error) {
	return s.driver.ListQuizSessions(ctx, find)
}

// DeleteQuizSession removes a history entry.
func (s *Store) DeleteQuizSession(ctx context.Context, delete *DeleteQuizSession) error {
	return s.driver.DeleteQuizSession(ctx, delete)
}

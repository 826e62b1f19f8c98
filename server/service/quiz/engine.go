// Package quiz holds the quiz-session state machine: question generation
// from a flashcard subset, answer collection, and scoring.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/vocavault/vocavault/store"
)

// Type selects the question-generation rule for a session.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeFillBlank      Type = "fill-blank"
	TypeMatching       Type = "matching"
)

// QuestionTimeLimit is the per-question countdown enforced by the UI.
// The engine itself is timer-agnostic; expiry just means the UI submits
// whatever answer is selected at that moment.
const QuestionTimeLimit = 30 * time.Second

// distractorCount is how many wrong options a multiple-choice question
// carries alongside the correct one.
const distractorCount = 3

const blankMarker = "_____"

// Question is one generated quiz item. Questions are derived from
// flashcards at session start and never regenerated.
type Question struct {
	ID            string   `json:"id"`
	FlashcardUID  string   `json:"flashcardUid"`
	Prompt        string   `json:"prompt"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []string `json:"options,omitempty"`
	Type          Type     `json:"type"`
}

// Session is one run of generated questions over a chosen flashcard
// subset. The question list is fixed at creation.
type Session struct {
	UID                  string            `json:"uid"`
	Type                 Type              `json:"type"`
	Questions            []*Question       `json:"questions"`
	CurrentQuestionIndex int               `json:"currentQuestionIndex"`
	Answers              map[string]string `json:"answers"`
	Score                int               `json:"score"`
	StartTime            time.Time         `json:"startTime"`
	EndTime              *time.Time        `json:"endTime,omitempty"`
	Completed            bool              `json:"completed"`
}

// clone returns a copy safe to read and serialize after the engine
// mutex is released. Questions are immutable once generated, so their
// pointers are shared.
func (s *Session) clone() *Session {
	dup := *s
	dup.Questions = append([]*Question(nil), s.Questions...)
	dup.Answers = make(map[string]string, len(s.Answers))
	for id, answer := range s.Answers {
		dup.Answers[id] = answer
	}
	if s.EndTime != nil {
		endTime := *s.EndTime
		dup.EndTime = &endTime
	}
	return &dup
}

type nower interface {
	Now() time.Time
}

type realNower struct{}

func (realNower) Now() time.Time {
	return time.Now()
}

// Store is the interface for store operations needed by the engine.
type Store interface {
	ListFlashcards(ctx context.Context, find *store.FindFlashcard) ([]*store.Flashcard, error)
	CreateQuizSession(ctx context.Context, create *store.QuizSession) (*store.QuizSession, error)
	ListQuizSessions(ctx context.Context, find *store.FindQuizSession) ([]*store.QuizSession, error)
}

// Engine owns the optional current session and the generation rules.
// There is at most one active session; starting a new one replaces it.
type Engine struct {
	mu      sync.Mutex
	store   Store
	rand    *rand.Rand
	nower   nower
	current *Session
}

// NewEngine creates a quiz engine backed by the given store.
func NewEngine(s Store) *Engine {
	return &Engine{
		store: s,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		nower: realNower{},
	}
}

// Start builds a fresh active session with one question per requested
// flashcard UID, in the given order. Unknown UIDs are skipped. Any
// previous session, finished or not, is discarded.
func (e *Engine) Start(ctx context.Context, flashcardUIDs []string, quizType Type) (*Session, error) {
	all, err := e.store.ListFlashcards(ctx, &store.FindFlashcard{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list flashcards")
	}
	byUID := make(map[string]*store.Flashcard, len(all))
	for _, card := range all {
		byUID[card.UID] = card
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	questions := make([]*Question, 0, len(flashcardUIDs))
	for _, uid := range flashcardUIDs {
		card, ok := byUID[uid]
		if !ok {
			continue
		}
		questions = append(questions, e.generateQuestion(card, all, quizType))
	}

	e.current = &Session{
		UID:       uuid.NewString(),
		Type:      quizType,
		Questions: questions,
		Answers:   map[string]string{},
		StartTime: e.nower.Now(),
	}
	return e.current.clone(), nil
}

func (e *Engine) generateQuestion(card *store.Flashcard, all []*store.Flashcard, quizType Type) *Question {
	switch quizType {
	case TypeMultipleChoice:
		others := make([]*store.Flashcard, 0, len(all)-1)
		for _, c := range all {
			if c.UID != card.UID {
				others = append(others, c)
			}
		}
		e.rand.Shuffle(len(others), func(i, j int) {
			others[i], others[j] = others[j], others[i]
		})
		n := distractorCount
		if n > len(others) {
			n = len(others)
		}
		options := make([]string, 0, n+1)
		options = append(options, card.Translation)
		for _, c := range others[:n] {
			options = append(options, c.Translation)
		}
		e.rand.Shuffle(len(options), func(i, j int) {
			options[i], options[j] = options[j], options[i]
		})
		return &Question{
			ID:            fmt.Sprintf("%s-mc", card.UID),
			FlashcardUID:  card.UID,
			Prompt:        fmt.Sprintf("What does %q mean?", card.Term),
			CorrectAnswer: card.Translation,
			Options:       options,
			Type:          TypeMultipleChoice,
		}
	case TypeFillBlank:
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(card.Term))
		sentence := pattern.ReplaceAllString(card.ExampleSentence, blankMarker)
		return &Question{
			ID:            fmt.Sprintf("%s-fb", card.UID),
			FlashcardUID:  card.UID,
			Prompt:        fmt.Sprintf("Fill in the blank: %s", sentence),
			CorrectAnswer: card.Term,
			Type:          TypeFillBlank,
		}
	default:
		return &Question{
			ID:            fmt.Sprintf("%s-match", card.UID),
			FlashcardUID:  card.UID,
			Prompt:        card.Term,
			CorrectAnswer: card.Translation,
			Type:          TypeMatching,
		}
	}
}

// Answer records or overwrites the answer for a question in the active
// session. Correctness is not checked here. Without an active session
// this is a safe no-op.
func (e *Engine) Answer(questionID, answer string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return
	}
	e.current.Answers[questionID] = answer
}

// Next advances the current question index, clamped to the last
// question. Without an active session this is a safe no-op.
func (e *Engine) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return
	}
	if e.current.CurrentQuestionIndex < len(e.current.Questions)-1 {
		e.current.CurrentQuestionIndex++
	}
}

// Complete scores the active session, appends it to the persisted
// history, and clears the active-session reference. Unanswered
// questions count as incorrect; scoring is exact case-sensitive string
// equality. Without an active session it returns nil.
//
// Persistence is best-effort: a store failure is logged and the
// completed session is still returned.
func (e *Engine) Complete(ctx context.Context) *Session {
	e.mu.Lock()
	session := e.current
	if session == nil {
		e.mu.Unlock()
		return nil
	}
	e.current = nil

	score := 0
	for _, question := range session.Questions {
		if session.Answers[question.ID] == question.CorrectAnswer {
			score++
		}
	}
	session.Score = score
	endTime := e.nower.Now()
	session.EndTime = &endTime
	session.Completed = true
	e.mu.Unlock()

	if err := e.persist(ctx, session); err != nil {
		slog.Error("failed to persist quiz session", slog.String("uid", session.UID), slog.Any("err", err))
	}
	return session.clone()
}

func (e *Engine) persist(ctx context.Context, session *Session) error {
	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return errors.Wrap(err, "failed to marshal questions")
	}
	answers, err := json.Marshal(session.Answers)
	if err != nil {
		return errors.Wrap(err, "failed to marshal answers")
	}
	_, err = e.store.CreateQuizSession(ctx, &store.QuizSession{
		UID:       session.UID,
		Kind:      string(session.Type),
		Questions: string(questions),
		Answers:   string(answers),
		Score:     int32(session.Score),
		Total:     int32(len(session.Questions)),
		StartedTs: session.StartTime.Unix(),
		EndedTs:   session.EndTime.Unix(),
	})
	return err
}

// Reset discards the active session without scoring or persisting it.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = nil
}

// Current returns a copy of the active session, or nil when there is
// none. The live session never leaves the engine, so callers can
// serialize the result without holding any lock.
func (e *Engine) Current() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	return e.current.clone()
}

// History lists persisted completed sessions, most recent first.
func (e *Engine) History(ctx context.Context, limit int) ([]*store.QuizSession, error) {
	find := &store.FindQuizSession{}
	if limit > 0 {
		find.Limit = &limit
	}
	return e.store.ListQuizSessions(ctx, find)
}

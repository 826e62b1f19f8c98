package store

import (
	"context"
	"time"
)

// PartOfSpeech is the grammatical category of a flashcard's term.
type PartOfSpeech string

const (
	Noun         PartOfSpeech = "noun"
	Verb         PartOfSpeech = "verb"
	Adjective    PartOfSpeech = "adjective"
	Adverb       PartOfSpeech = "adverb"
	Pronoun      PartOfSpeech = "pronoun"
	Preposition  PartOfSpeech = "preposition"
	Conjunction  PartOfSpeech = "conjunction"
	Interjection PartOfSpeech = "interjection"
)

// Difficulty is the self-assessed difficulty tier of a flashcard.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

const (
	// DefaultTopicUID is the topic assigned to cards created without one.
	DefaultTopicUID = "general"
	// DefaultEaseFactor is the starting ease for new cards.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor below which ease never drops.
	MinEaseFactor = 1.3
)

// Flashcard is the object representing a vocabulary flashcard.
type Flashcard struct {
	ID              int32
	UID             string
	CreatedTs       int64
	Term            string
	Translation     string
	PartOfSpeech    PartOfSpeech
	Phonetic        string
	ExampleSentence string
	Difficulty      Difficulty
	TopicUID        string

	// Learning state
	IsLearned      bool
	StarRating     int32
	ReviewCount    int32
	EaseFactor     float64
	NextReviewTs   int64
	LastReviewedTs *int64
}

// FindFlashcard is the find condition for flashcards. All fields are
// optional; unset fields impose no constraint.
//
// Search is special: when set, every other predicate field in the same
// call is bypassed and only the term/translation substring match applies.
// This mirrors the behavior the UI has always relied on.
type FindFlashcard struct {
	ID            *int32
	UID           *string
	Learned       *bool
	MinStarRating *int32
	PartOfSpeech  *PartOfSpeech
	Difficulty    *Difficulty
	TopicUID      *string
	Search        *string

	// DueBefore selects cards whose next review is at or before the
	// given instant.
	DueBefore *time.Time

	Limit  *int
	Offset *int
}

// UpdateFlashcard is the update request for a flashcard. Nil fields are
// left untouched.
type UpdateFlashcard struct {
	ID              int32
	Term            *string
	Translation     *string
	PartOfSpeech    *PartOfSpeech
	Phonetic        *string
	ExampleSentence *string
	Difficulty      *Difficulty
	TopicUID        *string
	IsLearned       *bool
	StarRating      *int32
	ReviewCount     *int32
	EaseFactor      *float64
	NextReviewTs    *int64
	LastReviewedTs  *int64
}

// DeleteFlashcard is the delete request for a flashcard.
type DeleteFlashcard struct {
	ID int32
}

// CreateFlashcard creates a new flashcard with fresh scheduling state.
func (s *Store) CreateFlashcard(ctx context.Context, create *Flashcard) (*Flashcard, error) {
	if create.TopicUID == "" {
		create.TopicUID = DefaultTopicUID
	}
	if create.EaseFactor == 0 {
		create.EaseFactor = DefaultEaseFactor
	}
	// A new card is due immediately.
	if create.NextReviewTs == 0 {
		create.NextReviewTs = time.Now().Unix()
	}
	return s.driver.CreateFlashcard(ctx, create)
}

// ListFlashcards lists flashcards with filter, in insertion order.
func (s *Store) ListFlashcards(ctx context.Context, find *FindFlashcard) ([]*Flashcard, error) {
	return s.driver.ListFlashcards(ctx, find)
}

// GetFlashcard gets a single flashcard. Returns nil, nil when absent.
func (s *Store) GetFlashcard(ctx context.Context, find *FindFlashcard) (*Flashcard, error) {
	list, err := s.driver.ListFlashcards(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateFlashcard updates a flashcard.
func (s *Store) UpdateFlashcard(ctx context.Context, update *UpdateFlashcard) error {
	return s.driver.UpdateFlashcard(ctx, update)
}

// DeleteFlashcard deletes a flashcard.
func (s *Store) DeleteFlashcard(ctx context.Context, delete *DeleteFlashcard) error {
	return s.driver.DeleteFlashcard(ctx, delete)
}

// NextReviewTime parses the card's next review timestamp.
func (f *Flashcard) NextReviewTime() time.Time {
	return time.Unix(f.NextReviewTs, 0)
}

// LastReviewedTime parses the card's last reviewed timestamp, or nil if
// the card has never been reviewed.
func (f *Flashcard) LastReviewedTime() *time.Time {
	if f.LastReviewedTs == nil {
		return nil
	}
	t := time.Unix(*f.LastReviewedTs, 0)
	return &t
}

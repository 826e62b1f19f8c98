// Package srs implements the spaced-repetition review scheduler.
//
// The algorithm is a simplified SM-2-like heuristic, ported behavior-for-
// behavior from the product's reference implementation:
//
//   - a successful review bumps the ease factor by 0.1, a failed one drops
//     it by 0.2, floored at 1.3 in both directions;
//   - the first successful review schedules 1 day out, the second 6 days,
//     and later ones round(ease) days.
//
// Note that later intervals are recomputed from a constant 1-day base
// rather than compounding the previous interval, so they plateau at
// round(ease) days. Canonical SM-2 would multiply the previous interval
// instead. The plateau is the behavior users have been scheduled with, so
// it is kept; see DESIGN.md before changing it.
package srs

import (
	"context"
	"math"
	"time"

	"github.com/vocavault/vocavault/store"
)

const (
	// easeReward is added to the ease factor after a correct answer.
	easeReward = 0.1
	// easePenalty is subtracted from the ease factor after a wrong answer.
	easePenalty = 0.2
	// firstInterval and secondInterval are the fixed early steps, in days.
	firstInterval  = 1
	secondInterval = 6
)

type nower interface {
	Now() time.Time
}

type realNower struct{}

func (realNower) Now() time.Time {
	return time.Now()
}

// Store is the interface for store operations needed by the scheduler.
type Store interface {
	GetFlashcard(ctx context.Context, find *store.FindFlashcard) (*store.Flashcard, error)
	ListFlashcards(ctx context.Context, find *store.FindFlashcard) ([]*store.Flashcard, error)
	UpdateFlashcard(ctx context.Context, update *store.UpdateFlashcard) error
}

// Scheduler updates flashcard scheduling state after reviews and serves
// the due-card queue.
type Scheduler struct {
	store Store
	nower nower
}

// NewScheduler creates a scheduler backed by the given store.
func NewScheduler(store Store) *Scheduler {
	return &Scheduler{store: store, nower: realNower{}}
}

// Outcome is the recomputed scheduling state after one review.
type Outcome struct {
	ReviewCount  int32
	EaseFactor   float64
	IntervalDays int
	NextReview   time.Time
	LastReviewed time.Time
}

// Next computes the scheduling state following a review at instant now.
// It is pure; persistence is the caller's concern.
func Next(reviewCount int32, easeFactor float64, correct bool, now time.Time) Outcome {
	newCount := reviewCount + 1
	interval := firstInterval
	newEase := easeFactor

	if correct {
		switch newCount {
		case 1:
			interval = firstInterval
		case 2:
			interval = secondInterval
		default:
			// Recomputed from the 1-day base on purpose; see package doc.
			interval = int(math.Round(firstInterval * easeFactor))
		}
		newEase = math.Max(store.MinEaseFactor, easeFactor+easeReward)
	} else {
		newEase = math.Max(store.MinEaseFactor, easeFactor-easePenalty)
		interval = firstInterval
	}

	return Outcome{
		ReviewCount:  newCount,
		EaseFactor:   newEase,
		IntervalDays: interval,
		NextReview:   now.AddDate(0, 0, interval),
		LastReviewed: now,
	}
}

// RecordReview applies one review result to the card with the given UID.
// An unknown UID is a silent no-op: the returned card is nil and err is
// nil, matching the forgiving contract the UI depends on.
func (s *Scheduler) RecordReview(ctx context.Context, cardUID string, correct bool) (*store.Flashcard, error) {
	card, err := s.store.GetFlashcard(ctx, &store.FindFlashcard{UID: &cardUID})
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, nil
	}

	outcome := Next(card.ReviewCount, card.EaseFactor, correct, s.nower.Now())
	nextReviewTs := outcome.NextReview.Unix()
	lastReviewedTs := outcome.LastReviewed.Unix()

	if err := s.store.UpdateFlashcard(ctx, &store.UpdateFlashcard{
		ID:             card.ID,
		ReviewCount:    &outcome.ReviewCount,
		EaseFactor:     &outcome.EaseFactor,
		NextReviewTs:   &nextReviewTs,
		LastReviewedTs: &lastReviewedTs,
	}); err != nil {
		return nil, err
	}

	card.ReviewCount = outcome.ReviewCount
	card.EaseFactor = outcome.EaseFactor
	card.NextReviewTs = nextReviewTs
	card.LastReviewedTs = &lastReviewedTs
	return card, nil
}

// DueCards returns every card whose next review is at or before now, in
// insertion order. Overdue cards are not promoted ahead of barely-due
// ones.
func (s *Scheduler) DueCards(ctx context.Context) ([]*store.Flashcard, error) {
	now := s.nower.Now()
	return s.store.ListFlashcards(ctx, &store.FindFlashcard{DueBefore: &now})
}

package srs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocavault/vocavault/store"
)

type fixedNower struct {
	now time.Time
}

func (f fixedNower) Now() time.Time {
	return f.now
}

// mockStore is an in-memory Store for scheduler tests.
type mockStore struct {
	cards []*store.Flashcard
}

func (m *mockStore) GetFlashcard(_ context.Context, find *store.FindFlashcard) (*store.Flashcard, error) {
	for _, card := range m.cards {
		if find.UID != nil && card.UID == *find.UID {
			return card, nil
		}
	}
	return nil, nil
}

func (m *mockStore) ListFlashcards(_ context.Context, find *store.FindFlashcard) ([]*store.Flashcard, error) {
	result := make([]*store.Flashcard, 0)
	for _, card := range m.cards {
		if find.DueBefore != nil && card.NextReviewTs > find.DueBefore.Unix() {
			continue
		}
		result = append(result, card)
	}
	return result, nil
}

func (m *mockStore) UpdateFlashcard(_ context.Context, update *store.UpdateFlashcard) error {
	for _, card := range m.cards {
		if card.ID != update.ID {
			continue
		}
		if update.ReviewCount != nil {
			card.ReviewCount = *update.ReviewCount
		}
		if update.EaseFactor != nil {
			card.EaseFactor = *update.EaseFactor
		}
		if update.NextReviewTs != nil {
			card.NextReviewTs = *update.NextReviewTs
		}
		if update.LastReviewedTs != nil {
			card.LastReviewedTs = update.LastReviewedTs
		}
	}
	return nil
}

func newTestScheduler(cards ...*store.Flashcard) (*Scheduler, *mockStore, time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock := &mockStore{cards: cards}
	scheduler := NewScheduler(mock)
	scheduler.nower = fixedNower{now: now}
	return scheduler, mock, now
}

func TestNextFirstCorrectReview(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	outcome := Next(0, store.DefaultEaseFactor, true, now)

	assert.Equal(t, int32(1), outcome.ReviewCount)
	assert.Equal(t, 1, outcome.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 1), outcome.NextReview)
	assert.Equal(t, now, outcome.LastReviewed)
	assert.InDelta(t, 2.6, outcome.EaseFactor, 1e-9)
}

func TestNextSecondCorrectReview(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	outcome := Next(1, 2.6, true, now)

	assert.Equal(t, int32(2), outcome.ReviewCount)
	assert.Equal(t, 6, outcome.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 6), outcome.NextReview)
}

func TestNextLaterReviewsUseEaseNotCompounding(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Third and later reviews recompute from the 1-day base, so the
	// interval is round(ease) regardless of how long the previous
	// interval was.
	tests := []struct {
		reviewCount  int32
		ease         float64
		wantInterval int
	}{
		{2, 2.5, 3},  // round(2.5) rounds half away from zero
		{2, 2.7, 3},
		{5, 2.2, 2},
		{10, 1.3, 1},
		{50, 3.4, 3},
	}
	for _, tt := range tests {
		outcome := Next(tt.reviewCount, tt.ease, true, now)
		assert.Equalf(t, tt.wantInterval, outcome.IntervalDays,
			"reviewCount=%d ease=%v", tt.reviewCount, tt.ease)
	}
}

func TestNextIncorrectReview(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	outcome := Next(7, 2.0, false, now)

	// A failure still counts as a review but forces the card back to a
	// 1-day interval.
	assert.Equal(t, int32(8), outcome.ReviewCount)
	assert.Equal(t, 1, outcome.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 1), outcome.NextReview)
	assert.InDelta(t, 1.8, outcome.EaseFactor, 1e-9)
}

func TestNextEaseNeverDropsBelowFloor(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	ease := store.DefaultEaseFactor
	for i := 0; i < 20; i++ {
		outcome := Next(int32(i), ease, false, now)
		require.GreaterOrEqual(t, outcome.EaseFactor, store.MinEaseFactor)
		ease = outcome.EaseFactor
	}
	assert.InDelta(t, store.MinEaseFactor, ease, 1e-9)
}

func TestRecordReviewPersistsOutcome(t *testing.T) {
	card := &store.Flashcard{ID: 1, UID: "card-1", EaseFactor: store.DefaultEaseFactor}
	scheduler, mock, now := newTestScheduler(card)

	updated, err := scheduler.RecordReview(context.Background(), "card-1", true)
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, int32(1), mock.cards[0].ReviewCount)
	assert.Equal(t, now.AddDate(0, 0, 1).Unix(), mock.cards[0].NextReviewTs)
	require.NotNil(t, mock.cards[0].LastReviewedTs)
	assert.Equal(t, now.Unix(), *mock.cards[0].LastReviewedTs)
}

func TestRecordReviewUnknownCardIsNoop(t *testing.T) {
	scheduler, mock, _ := newTestScheduler(
		&store.Flashcard{ID: 1, UID: "card-1", EaseFactor: store.DefaultEaseFactor},
	)

	updated, err := scheduler.RecordReview(context.Background(), "missing", true)
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.Equal(t, int32(0), mock.cards[0].ReviewCount)
}

func TestDueCards(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock := &mockStore{cards: []*store.Flashcard{
		{ID: 1, UID: "due-past", NextReviewTs: now.Unix() - 3600},
		{ID: 2, UID: "due-now", NextReviewTs: now.Unix()},
		{ID: 3, UID: "not-due", NextReviewTs: now.Unix() + 3600},
	}}
	scheduler := NewScheduler(mock)
	scheduler.nower = fixedNower{now: now}

	due, err := scheduler.DueCards(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "due-past", due[0].UID)
	assert.Equal(t, "due-now", due[1].UID)
}

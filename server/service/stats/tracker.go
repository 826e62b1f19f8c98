// Package stats tracks per-day study activity, the learning streak, and
// weekly/monthly word goals.
package stats

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vocavault/vocavault/store"
)

const (
	// DefaultWeeklyGoal and DefaultMonthlyGoal are words-learned targets
	// used until the user sets their own.
	DefaultWeeklyGoal  = 50
	DefaultMonthlyGoal = 200
)

const dateLayout = "2006-01-02"

// overviewTTL is how long a computed overview stays fresh. Writes
// invalidate it immediately; the TTL only guards cross-process writes.
const overviewTTL = time.Minute

type nower interface {
	Now() time.Time
}

type realNower struct{}

func (realNower) Now() time.Time {
	return time.Now()
}

// Store is the interface for store operations needed by the tracker.
type Store interface {
	GetDailyStat(ctx context.Context, date string) (*store.DailyStat, error)
	ListDailyStats(ctx context.Context, find *store.FindDailyStat) ([]*store.DailyStat, error)
	UpsertDailyStat(ctx context.Context, upsert *store.UpsertDailyStat) (*store.DailyStat, error)
	GetSetting(ctx context.Context, name string) (*store.Setting, error)
	UpsertSetting(ctx context.Context, upsert *store.Setting) (*store.Setting, error)
}

// Tracker aggregates study activity into daily rows keyed by local date.
type Tracker struct {
	store Store
	nower nower

	mu             sync.Mutex
	cachedOverview *Overview
	cachedAt       time.Time
}

// NewTracker creates a tracker backed by the given store.
func NewTracker(s Store) *Tracker {
	return &Tracker{store: s, nower: realNower{}}
}

// Overview is the aggregate view across all recorded days.
type Overview struct {
	TotalWordsLearned int32        `json:"totalWordsLearned"`
	TotalQuizzesTaken int32        `json:"totalQuizzesTaken"`
	TotalTimeSpentMin int32        `json:"totalTimeSpentMin"`
	AverageAccuracy   float64      `json:"averageAccuracy"`
	Streak            store.Streak `json:"streak"`
}

// RecordStudySession folds one study session into today's row and
// advances the streak. Accuracy folds in as a running pairwise average,
// the same way the day's value always has.
func (t *Tracker) RecordStudySession(ctx context.Context, wordsLearned, timeSpentMin int32, accuracy float64) error {
	today := t.nower.Now().Format(dateLayout)
	existing, err := t.store.GetDailyStat(ctx, today)
	if err != nil {
		return err
	}

	upsert := &store.UpsertDailyStat{Date: today, WordsLearned: wordsLearned, TimeSpentMin: timeSpentMin}
	// The day's accuracy is always a pairwise average with the stored
	// value, zero when the row is fresh; see DESIGN.md before changing it.
	upsert.Accuracy = accuracy / 2
	if existing != nil {
		upsert.WordsLearned += existing.WordsLearned
		upsert.TimeSpentMin += existing.TimeSpentMin
		upsert.QuizzesTaken = existing.QuizzesTaken
		upsert.Accuracy = (existing.Accuracy + accuracy) / 2
	}
	if _, err := t.store.UpsertDailyStat(ctx, upsert); err != nil {
		return err
	}
	t.invalidateOverview()
	_, err = t.UpdateStreak(ctx)
	return err
}

// RecordQuizResult folds one completed quiz into today's row. The streak
// only moves on study sessions.
func (t *Tracker) RecordQuizResult(ctx context.Context, accuracy float64, timeSpentMin int32) error {
	today := t.nower.Now().Format(dateLayout)
	existing, err := t.store.GetDailyStat(ctx, today)
	if err != nil {
		return err
	}

	upsert := &store.UpsertDailyStat{Date: today, QuizzesTaken: 1, TimeSpentMin: timeSpentMin}
	upsert.Accuracy = accuracy / 2
	if existing != nil {
		upsert.WordsLearned = existing.WordsLearned
		upsert.QuizzesTaken += existing.QuizzesTaken
		upsert.TimeSpentMin += existing.TimeSpentMin
		upsert.Accuracy = (existing.Accuracy + accuracy) / 2
	}
	if _, err := t.store.UpsertDailyStat(ctx, upsert); err != nil {
		return err
	}
	t.invalidateOverview()
	return nil
}

func (t *Tracker) invalidateOverview() {
	t.mu.Lock()
	t.cachedOverview = nil
	t.mu.Unlock()
}

// GetStreak reads the persisted streak, zero-valued when never studied.
func (t *Tracker) GetStreak(ctx context.Context) (*store.Streak, error) {
	setting, err := t.store.GetSetting(ctx, store.SettingKeyStreak)
	if err != nil {
		return nil, err
	}
	streak := &store.Streak{}
	if setting == nil {
		return streak, nil
	}
	if err := json.Unmarshal([]byte(setting.Value), streak); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal streak")
	}
	return streak, nil
}

// UpdateStreak marks today as studied. Studying on consecutive days
// extends the streak, a second session today keeps it, and a gap resets
// it to 1. The longest streak is tracked alongside.
func (t *Tracker) UpdateStreak(ctx context.Context) (*store.Streak, error) {
	streak, err := t.GetStreak(ctx)
	if err != nil {
		return nil, err
	}

	now := t.nower.Now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	switch streak.LastStudyDate {
	case today:
		// Already counted today.
	case yesterday:
		streak.Current++
	default:
		streak.Current = 1
	}
	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	streak.LastStudyDate = today

	value, err := json.Marshal(streak)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal streak")
	}
	if _, err := t.store.UpsertSetting(ctx, &store.Setting{Name: store.SettingKeyStreak, Value: string(value)}); err != nil {
		return nil, err
	}
	t.invalidateOverview()
	return streak, nil
}

// WeeklyProgress returns words learned in the last 7 days as a
// percentage of the weekly goal, capped at 100.
func (t *Tracker) WeeklyProgress(ctx context.Context) (float64, error) {
	goal, err := t.goal(ctx, store.SettingKeyWeeklyGoal, DefaultWeeklyGoal)
	if err != nil {
		return 0, err
	}
	return t.progress(ctx, 7, goal)
}

// MonthlyProgress returns words learned in the last 30 days as a
// percentage of the monthly goal, capped at 100.
func (t *Tracker) MonthlyProgress(ctx context.Context) (float64, error) {
	goal, err := t.goal(ctx, store.SettingKeyMonthlyGoal, DefaultMonthlyGoal)
	if err != nil {
		return 0, err
	}
	return t.progress(ctx, 30, goal)
}

func (t *Tracker) progress(ctx context.Context, days int, goal int32) (float64, error) {
	since := t.nower.Now().AddDate(0, 0, -days).Format(dateLayout)
	rows, err := t.store.ListDailyStats(ctx, &store.FindDailyStat{Since: &since})
	if err != nil {
		return 0, err
	}
	var words int32
	for _, row := range rows {
		words += row.WordsLearned
	}
	if goal <= 0 {
		return 0, nil
	}
	percent := float64(words) / float64(goal) * 100
	if percent > 100 {
		percent = 100
	}
	return percent, nil
}

func (t *Tracker) goal(ctx context.Context, key string, fallback int32) (int32, error) {
	setting, err := t.store.GetSetting(ctx, key)
	if err != nil {
		return 0, err
	}
	if setting == nil {
		return fallback, nil
	}
	var goal int32
	if err := json.Unmarshal([]byte(setting.Value), &goal); err != nil || goal <= 0 {
		return fallback, nil
	}
	return goal, nil
}

// SetWeeklyGoal stores the weekly words-learned target.
func (t *Tracker) SetWeeklyGoal(ctx context.Context, goal int32) error {
	return t.setGoal(ctx, store.SettingKeyWeeklyGoal, goal)
}

// SetMonthlyGoal stores the monthly words-learned target.
func (t *Tracker) SetMonthlyGoal(ctx context.Context, goal int32) error {
	return t.setGoal(ctx, store.SettingKeyMonthlyGoal, goal)
}

func (t *Tracker) setGoal(ctx context.Context, key string, goal int32) error {
	if goal <= 0 {
		return errors.Errorf("goal must be positive, got %d", goal)
	}
	value, err := json.Marshal(goal)
	if err != nil {
		return err
	}
	_, err = t.store.UpsertSetting(ctx, &store.Setting{Name: key, Value: string(value)})
	return err
}

// GetOverview aggregates every recorded day plus the current streak.
// The result is cached briefly; local writes invalidate it right away.
func (t *Tracker) GetOverview(ctx context.Context) (*Overview, error) {
	t.mu.Lock()
	if t.cachedOverview != nil && t.nower.Now().Sub(t.cachedAt) < overviewTTL {
		cached := *t.cachedOverview
		t.mu.Unlock()
		return &cached, nil
	}
	t.mu.Unlock()

	rows, err := t.store.ListDailyStats(ctx, &store.FindDailyStat{})
	if err != nil {
		return nil, err
	}
	overview := &Overview{}
	for _, row := range rows {
		overview.TotalWordsLearned += row.WordsLearned
		overview.TotalQuizzesTaken += row.QuizzesTaken
		overview.TotalTimeSpentMin += row.TimeSpentMin
		overview.AverageAccuracy += row.Accuracy
	}
	if len(rows) > 0 {
		overview.AverageAccuracy /= float64(len(rows))
	}
	streak, err := t.GetStreak(ctx)
	if err != nil {
		return nil, err
	}
	overview.Streak = *streak

	t.mu.Lock()
	t.cachedOverview = overview
	t.cachedAt = t.nower.Now()
	t.mu.Unlock()
	return overview, nil
}

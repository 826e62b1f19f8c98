package stats

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

type mockStore struct {
	stats    map[string]*store.DailyStat
	settings map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{
		stats:    map[string]*store.DailyStat{},
		settings: map[string]string{},
	}
}

func (m *mockStore) GetDailyStat(_ context.Context, date string) (*store.DailyStat, error) {
	return m.stats[date], nil
}

func (m *mockStore) ListDailyStats(_ context.Context, find *store.FindDailyStat) ([]*store.DailyStat, error) {
	result := make([]*store.DailyStat, 0)
	for _, stat := range m.stats {
		if find.Since != nil && stat.Date < *find.Since {
			continue
		}
		result = append(result, stat)
	}
	return result, nil
}

func (m *mockStore) UpsertDailyStat(_ context.Context, upsert *store.UpsertDailyStat) (*store.DailyStat, error) {
	stat := &store.DailyStat{
		Date:         upsert.Date,
		WordsLearned: upsert.WordsLearned,
		QuizzesTaken: upsert.QuizzesTaken,
		TimeSpentMin: upsert.TimeSpentMin,
		Accuracy:     upsert.Accuracy,
	}
	m.stats[upsert.Date] = stat
	return stat, nil
}

func (m *mockStore) GetSetting(_ context.Context, name string) (*store.Setting, error) {
	value, ok := m.settings[name]
	if !ok {
		return nil, nil
	}
	return &store.Setting{Name: name, Value: value}, nil
}

func (m *mockStore) UpsertSetting(_ context.Context, upsert *store.Setting) (*store.Setting, error) {
	m.settings[upsert.Name] = upsert.Value
	return upsert, nil
}

func newTestTracker(now time.Time) (*Tracker, *mockStore) {
	mock := newMockStore()
	tracker := NewTracker(mock)
	tracker.nower = fixedNower{now: now}
	return tracker, mock
}

func TestRecordStudySessionAccumulates(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, mock := newTestTracker(now)
	ctx := context.Background()

	require.NoError(t, tracker.RecordStudySession(ctx, 10, 15, 80))
	require.NoError(t, tracker.RecordStudySession(ctx, 5, 10, 100))

	stat := mock.stats["2025-06-10"]
	require.NotNil(t, stat)
	assert.Equal(t, int32(15), stat.WordsLearned)
	assert.Equal(t, int32(25), stat.TimeSpentMin)
	// Accuracy is a pairwise running average seeded from zero, not a
	// weighted mean: (0+80)/2 = 40, then (40+100)/2 = 70.
	assert.InDelta(t, 70, stat.Accuracy, 1e-9)
}

func TestRecordStudySessionFirstAccuracyAveragesWithZero(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, mock := newTestTracker(now)

	require.NoError(t, tracker.RecordStudySession(context.Background(), 10, 15, 80))

	stat := mock.stats["2025-06-10"]
	require.NotNil(t, stat)
	assert.InDelta(t, 40, stat.Accuracy, 1e-9)
}

func TestRecordQuizResultCountsQuizzes(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, mock := newTestTracker(now)
	ctx := context.Background()

	require.NoError(t, tracker.RecordQuizResult(ctx, 60, 5))
	require.NoError(t, tracker.RecordQuizResult(ctx, 100, 5))

	stat := mock.stats["2025-06-10"]
	require.NotNil(t, stat)
	assert.Equal(t, int32(2), stat.QuizzesTaken)
	assert.Equal(t, int32(0), stat.WordsLearned)
	assert.InDelta(t, 65, stat.Accuracy, 1e-9)
}

func TestStreakStartsAtOne(t *testing.T) {
	tracker, _ := newTestTracker(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))

	streak, err := tracker.UpdateStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), streak.Current)
	assert.Equal(t, int32(1), streak.Longest)
	assert.Equal(t, "2025-06-10", streak.LastStudyDate)
}

func TestStreakExtendsAcrossConsecutiveDays(t *testing.T) {
	mock := newMockStore()
	tracker := NewTracker(mock)
	ctx := context.Background()

	for day := 10; day <= 13; day++ {
		tracker.nower = fixedNower{now: time.Date(2025, 6, day, 9, 0, 0, 0, time.UTC)}
		_, err := tracker.UpdateStreak(ctx)
		require.NoError(t, err)
	}

	streak, err := tracker.GetStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), streak.Current)
	assert.Equal(t, int32(4), streak.Longest)
}

func TestStreakSameDayIsIdempotent(t *testing.T) {
	tracker, _ := newTestTracker(time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := tracker.UpdateStreak(ctx)
	require.NoError(t, err)
	streak, err := tracker.UpdateStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), streak.Current)
}

func TestStreakResetsAfterGap(t *testing.T) {
	mock := newMockStore()
	tracker := NewTracker(mock)
	ctx := context.Background()

	tracker.nower = fixedNower{now: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)}
	_, err := tracker.UpdateStreak(ctx)
	require.NoError(t, err)
	tracker.nower = fixedNower{now: time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)}
	_, err = tracker.UpdateStreak(ctx)
	require.NoError(t, err)

	// Two days of silence.
	tracker.nower = fixedNower{now: time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)}
	streak, err := tracker.UpdateStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), streak.Current)
	assert.Equal(t, int32(2), streak.Longest)
}

func TestWeeklyProgressCapsAtHundred(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, mock := newTestTracker(now)
	ctx := context.Background()

	mock.stats["2025-06-09"] = &store.DailyStat{Date: "2025-06-09", WordsLearned: 30}
	mock.stats["2025-06-10"] = &store.DailyStat{Date: "2025-06-10", WordsLearned: 10}
	// Outside the 7-day window.
	mock.stats["2025-05-20"] = &store.DailyStat{Date: "2025-05-20", WordsLearned: 500}

	progress, err := tracker.WeeklyProgress(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 80, progress, 1e-9) // 40 of the default goal of 50

	mock.stats["2025-06-08"] = &store.DailyStat{Date: "2025-06-08", WordsLearned: 100}
	progress, err = tracker.WeeklyProgress(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100, progress, 1e-9)
}

func TestMonthlyProgressUsesStoredGoal(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, mock := newTestTracker(now)
	ctx := context.Background()

	require.NoError(t, tracker.SetMonthlyGoal(ctx, 100))
	mock.stats["2025-06-01"] = &store.DailyStat{Date: "2025-06-01", WordsLearned: 25}

	progress, err := tracker.MonthlyProgress(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 25, progress, 1e-9)
}

func TestSetGoalRejectsNonPositive(t *testing.T) {
	tracker, _ := newTestTracker(time.Now())
	assert.Error(t, tracker.SetWeeklyGoal(context.Background(), 0))
	assert.Error(t, tracker.SetMonthlyGoal(context.Background(), -5))
}

func TestGetOverview(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, mock := newTestTracker(now)
	ctx := context.Background()

	mock.stats["2025-06-09"] = &store.DailyStat{Date: "2025-06-09", WordsLearned: 10, QuizzesTaken: 1, TimeSpentMin: 20, Accuracy: 70}
	mock.stats["2025-06-10"] = &store.DailyStat{Date: "2025-06-10", WordsLearned: 5, QuizzesTaken: 2, TimeSpentMin: 10, Accuracy: 90}

	overview, err := tracker.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(15), overview.TotalWordsLearned)
	assert.Equal(t, int32(3), overview.TotalQuizzesTaken)
	assert.Equal(t, int32(30), overview.TotalTimeSpentMin)
	assert.InDelta(t, 80, overview.AverageAccuracy, 1e-9)
}

func TestGetOverviewCacheInvalidatedByWrites(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	tracker, _ := newTestTracker(now)
	ctx := context.Background()

	overview, err := tracker.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(0), overview.TotalWordsLearned)

	require.NoError(t, tracker.RecordStudySession(ctx, 7, 5, 100))

	overview, err = tracker.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(7), overview.TotalWordsLearned)
}

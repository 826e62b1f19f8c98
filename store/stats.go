package store

import (
	"context"
)

// DailyStat is one day's aggregated study activity. Date is a
// YYYY-MM-DD string in the user's local time.
type DailyStat struct {
	ID           int32
	Date         string
	WordsLearned int32
	QuizzesTaken int32
	TimeSpentMin int32
	// Accuracy is a running-average percentage for the day.
	Accuracy float64
}

// FindDailyStat is the find condition for daily stats.
type FindDailyStat struct {
	Date *string
	// Since selects stats with date >= the given YYYY-MM-DD string.
	Since *string
}

// UpsertDailyStat replaces the row for its date.
type UpsertDailyStat struct {
	Date         string
	WordsLearned int32
	QuizzesTaken int32
	TimeSpentMin int32
	Accuracy     float64
}

// Streak is the persisted learning-streak state.
type Streak struct {
	Current       int32  `json:"current"`
	Longest       int32  `json:"longest"`
	LastStudyDate string `json:"lastStudyDate"`
}

// UpsertDailyStat creates or replaces the stat row for a date.
func (s *Store) UpsertDailyStat(ctx context.Context, upsert *UpsertDailyStat) (*DailyStat, error) {
	return s.driver.UpsertDailyStat(ctx, upsert)
}

// ListDailyStats lists daily stats ordered by date ascending.
func (s *Store) ListDailyStats(ctx context.Context, find *FindDailyStat) ([]*DailyStat, error) {
	return s.driver.ListDailyStats(ctx, find)
}

// GetDailyStat gets the stat row for one date. Returns nil, nil when absent.
func (s *Store) GetDailyStat(ctx context.Context, date string) (*DailyStat, error) {
	list, err := s.driver.ListDailyStats(ctx, &FindDailyStat{Date: &date})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ReplaceDailyStats wipes and reloads the whole stats partition. Used by
// import, which is all-or-nothing per partition.
func (s *Store) ReplaceDailyStats(ctx context.Context, stats []*UpsertDailyStat) error {
	return s.driver.ReplaceDailyStats(ctx, stats)
}

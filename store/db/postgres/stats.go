package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/vocavault/vocavault/store"
)

func (d *DB) UpsertDailyStat(ctx context.Context, upsert *store.UpsertDailyStat) (*store.DailyStat, error) {
	stmt := `INSERT INTO daily_stat (date, words_learned, quizzes_taken, time_spent_min, accuracy)
		VALUES (` + placeholders(5) + `)
		ON CONFLICT (date) DO UPDATE SET
			words_learned = EXCLUDED.words_learned,
			quizzes_taken = EXCLUDED.quizzes_taken,
			time_spent_min = EXCLUDED.time_spent_min,
			accuracy = EXCLUDED.accuracy
		RETURNING id`

	stat := &store.DailyStat{
		Date:         upsert.Date,
		WordsLearned: upsert.WordsLearned,
		QuizzesTaken: upsert.QuizzesTaken,
		TimeSpentMin: upsert.TimeSpentMin,
		Accuracy:     upsert.Accuracy,
	}
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.Date, upsert.WordsLearned, upsert.QuizzesTaken, upsert.TimeSpentMin, upsert.Accuracy,
	).Scan(&stat.ID); err != nil {
		return nil, fmt.Errorf("failed to upsert daily stat for %s: %w", upsert.Date, err)
	}

	return stat, nil
}

func (d *DB) ListDailyStats(ctx context.Context, find *store.FindDailyStat) ([]*store.DailyStat, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find != nil {
		if v := find.Date; v != nil {
			where, args = append(where, "daily_stat.date = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Since; v != nil {
			where, args = append(where, "daily_stat.date >= "+placeholder(len(args)+1)), append(args, *v)
		}
	}

	query := `
		SELECT id, date, words_learned, quizzes_taken, time_spent_min, accuracy
		FROM daily_stat
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY daily_stat.date ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	list := make([]*store.DailyStat, 0)
	for rows.Next() {
		var stat store.DailyStat
		if err := rows.Scan(
			&stat.ID,
			&stat.Date,
			&stat.WordsLearned,
			&stat.QuizzesTaken,
			&stat.TimeSpentMin,
			&stat.Accuracy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat row: %w", err)
		}
		list = append(list, &stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily stat rows: %w", err)
	}

	return list, nil
}

func (d *DB) ReplaceDailyStats(ctx context.Context, stats []*store.UpsertDailyStat) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_stat`); err != nil {
		return fmt.Errorf("failed to clear daily stats: %w", err)
	}
	stmt := `INSERT INTO daily_stat (date, words_learned, quizzes_taken, time_spent_min, accuracy)
		VALUES (` + placeholders(5) + `)`
	for _, stat := range stats {
		if _, err := tx.ExecContext(ctx, stmt,
			stat.Date, stat.WordsLearned, stat.QuizzesTaken, stat.TimeSpentMin, stat.Accuracy,
		); err != nil {
			return fmt.Errorf("failed to insert daily stat %q: %w", stat.Date, err)
		}
	}
	return tx.Commit()
}

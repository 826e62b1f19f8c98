package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/vocavault/vocavault/store"
)

func (d *DB) CreateQuizSession(ctx context.Context, create *store.QuizSession) (*store.QuizSession, error) {
	stmt := `INSERT INTO quiz_session (uid, kind, questions, answers, score, total, started_ts, ended_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id`

	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.Kind, create.Questions, create.Answers,
		create.Score, create.Total, create.StartedTs, create.EndedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create quiz session: %w", err)
	}

	return create, nil
}

func (d *DB) ListQuizSessions(ctx context.Context, find *store.FindQuizSession) ([]*store.QuizSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find != nil {
		if v := find.ID; v != nil {
			where, args = append(where, "quiz_session.id = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.UID; v != nil {
			where, args = append(where, "quiz_session.uid = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Kind; v != nil {
			where, args = append(where, "quiz_session.kind = "+placeholder(len(args)+1)), append(args, *v)
		}
	}

	query := `
		SELECT id, uid, kind, questions, answers, score, total, started_ts, ended_ts
		FROM quiz_session
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY quiz_session.started_ts DESC`

	if find != nil && find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.QuizSession, 0)
	for rows.Next() {
		var session store.QuizSession
		if err := rows.Scan(
			&session.ID,
			&session.UID,
			&session.Kind,
			&session.Questions,
			&session.Answers,
			&session.Score,
			&session.Total,
			&session.StartedTs,
			&session.EndedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quiz session row: %w", err)
		}
		list = append(list, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz session rows: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteQuizSession(ctx context.Context, delete *store.DeleteQuizSession) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM quiz_session WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete quiz session %d: %w", delete.ID, err)
	}
	return nil
}

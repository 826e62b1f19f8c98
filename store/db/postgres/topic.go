package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/vocavault/vocavault/store"
)

func (d *DB) CreateTopic(ctx context.Context, create *store.Topic) (*store.Topic, error) {
	fields := []string{"uid", "name", "description", "icon", "color", "is_custom", "flashcard_count"}
	placeholderValues := []any{
		create.UID, create.Name, create.Description, create.Icon, create.Color,
		create.IsCustom, create.FlashcardCount,
	}
	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO topic (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	return create, nil
}

func (d *DB) ListTopics(ctx context.Context, find *store.FindTopic) ([]*store.Topic, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find != nil {
		if v := find.ID; v != nil {
			where, args = append(where, "topic.id = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.UID; v != nil {
			where, args = append(where, "topic.uid = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.IsCustom; v != nil {
			where, args = append(where, "topic.is_custom = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Search; v != nil {
			pattern := "%" + strings.ToLower(*v) + "%"
			where = append(where, "(LOWER(topic.name) LIKE "+placeholder(len(args)+1)+" OR LOWER(topic.description) LIKE "+placeholder(len(args)+2)+")")
			args = append(args, pattern, pattern)
		}
	}

	query := `
		SELECT id, uid, created_ts, name, description, icon, color, is_custom, flashcard_count
		FROM topic
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY topic.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Topic, 0)
	for rows.Next() {
		var topic store.Topic
		if err := rows.Scan(
			&topic.ID,
			&topic.UID,
			&topic.CreatedTs,
			&topic.Name,
			&topic.Description,
			&topic.Icon,
			&topic.Color,
			&topic.IsCustom,
			&topic.FlashcardCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		list = append(list, &topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate topic rows: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateTopic(ctx context.Context, update *store.UpdateTopic) error {
	set, args := []string{}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Icon; v != nil {
		set, args = append(set, "icon = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Color; v != nil {
		set, args = append(set, "color = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.FlashcardCount; v != nil {
		set, args = append(set, "flashcard_count = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE topic SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update topic %d: %w", update.ID, err)
	}
	return nil
}

func (d *DB) DeleteTopic(ctx context.Context, delete *store.DeleteTopic) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM topic WHERE id = $1`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete topic %d: %w", delete.ID, err)
	}
	return nil
}

func (d *DB) ReplaceTopics(ctx context.Context, topics []*store.Topic) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM topic`); err != nil {
		return fmt.Errorf("failed to clear topics: %w", err)
	}
	stmt := `INSERT INTO topic (uid, created_ts, name, description, icon, color, is_custom, flashcard_count)
		VALUES (` + placeholders(8) + `)`
	for _, topic := range topics {
		if _, err := tx.ExecContext(ctx, stmt,
			topic.UID, topic.CreatedTs, topic.Name, topic.Description,
			topic.Icon, topic.Color, topic.IsCustom, topic.FlashcardCount,
		); err != nil {
			return fmt.Errorf("failed to insert topic %q: %w", topic.UID, err)
		}
	}
	return tx.Commit()
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vocavault/vocavault/store"
)

func (d *DB) CreateFlashcard(ctx context.Context, create *store.Flashcard) (*store.Flashcard, error) {
	fields := []string{
		"uid", "term", "translation", "part_of_speech", "phonetic",
		"example_sentence", "difficulty", "topic_uid",
		"is_learned", "star_rating", "review_count", "ease_factor", "next_review_ts",
	}
	placeholderValues := []any{
		create.UID, create.Term, create.Translation, create.PartOfSpeech, create.Phonetic,
		create.ExampleSentence, create.Difficulty, create.TopicUID,
		create.IsLearned, create.StarRating, create.ReviewCount, create.EaseFactor, create.NextReviewTs,
	}
	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}
	if create.LastReviewedTs != nil {
		fields = append(fields, "last_reviewed_ts")
		placeholderValues = append(placeholderValues, *create.LastReviewedTs)
	}

	stmt := `INSERT INTO flashcard (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create flashcard: %w", err)
	}

	return create, nil
}

func (d *DB) ListFlashcards(ctx context.Context, find *store.FindFlashcard) ([]*store.Flashcard, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.Search; v != nil {
		// Free-text search replaces every other predicate. The UI has
		// always relied on this short-circuit; do not "fix" it here.
		pattern := "%" + strings.ToLower(*v) + "%"
		where = []string{"(LOWER(flashcard.term) LIKE " + placeholder(1) + " OR LOWER(flashcard.translation) LIKE " + placeholder(2) + ")"}
		args = []any{pattern, pattern}
	} else {
		if v := find.ID; v != nil {
			where, args = append(where, "flashcard.id = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.UID; v != nil {
			where, args = append(where, "flashcard.uid = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Learned; v != nil {
			where, args = append(where, "flashcard.is_learned = "+placeholder(len(args)+1)), append(args, boolValue(*v))
		}
		if v := find.MinStarRating; v != nil {
			where, args = append(where, "flashcard.star_rating >= "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.PartOfSpeech; v != nil {
			where, args = append(where, "flashcard.part_of_speech = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.Difficulty; v != nil {
			where, args = append(where, "flashcard.difficulty = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.TopicUID; v != nil {
			where, args = append(where, "flashcard.topic_uid = "+placeholder(len(args)+1)), append(args, *v)
		}
		if v := find.DueBefore; v != nil {
			where, args = append(where, "flashcard.next_review_ts <= "+placeholder(len(args)+1)), append(args, v.Unix())
		}
	}

	// Insertion order, never re-sorted.
	query := `
		SELECT
			id, uid, created_ts, term, translation, part_of_speech,
			phonetic, example_sentence, difficulty, topic_uid,
			is_learned, star_rating, review_count, ease_factor,
			next_review_ts, last_reviewed_ts
		FROM flashcard
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY flashcard.id ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Flashcard, 0)
	for rows.Next() {
		var flashcard store.Flashcard
		var lastReviewedTs sql.NullInt64

		if err := rows.Scan(
			&flashcard.ID,
			&flashcard.UID,
			&flashcard.CreatedTs,
			&flashcard.Term,
			&flashcard.Translation,
			&flashcard.PartOfSpeech,
			&flashcard.Phonetic,
			&flashcard.ExampleSentence,
			&flashcard.Difficulty,
			&flashcard.TopicUID,
			&flashcard.IsLearned,
			&flashcard.StarRating,
			&flashcard.ReviewCount,
			&flashcard.EaseFactor,
			&flashcard.NextReviewTs,
			&lastReviewedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		if lastReviewedTs.Valid {
			ts := lastReviewedTs.Int64
			flashcard.LastReviewedTs = &ts
		}
		list = append(list, &flashcard)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flashcard rows: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateFlashcard(ctx context.Context, update *store.UpdateFlashcard) error {
	set, args := []string{}, []any{}

	if v := update.Term; v != nil {
		set, args = append(set, "term = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Translation; v != nil {
		set, args = append(set, "translation = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PartOfSpeech; v != nil {
		set, args = append(set, "part_of_speech = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Phonetic; v != nil {
		set, args = append(set, "phonetic = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ExampleSentence; v != nil {
		set, args = append(set, "example_sentence = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Difficulty; v != nil {
		set, args = append(set, "difficulty = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.TopicUID; v != nil {
		set, args = append(set, "topic_uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.IsLearned; v != nil {
		set, args = append(set, "is_learned = "+placeholder(len(args)+1)), append(args, boolValue(*v))
	}
	if v := update.StarRating; v != nil {
		set, args = append(set, "star_rating = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ReviewCount; v != nil {
		set, args = append(set, "review_count = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.EaseFactor; v != nil {
		set, args = append(set, "ease_factor = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.NextReviewTs; v != nil {
		set, args = append(set, "next_review_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LastReviewedTs; v != nil {
		set, args = append(set, "last_reviewed_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE flashcard SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update flashcard %d: %w", update.ID, err)
	}
	return nil
}

func (d *DB) DeleteFlashcard(ctx context.Context, delete *store.DeleteFlashcard) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM flashcard WHERE id = ?`, delete.ID); err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", delete.ID, err)
	}
	return nil
}

func (d *DB) ReplaceFlashcards(ctx context.Context, flashcards []*store.Flashcard) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flashcard`); err != nil {
		return fmt.Errorf("failed to clear flashcards: %w", err)
	}
	stmt := `INSERT INTO flashcard (
			uid, created_ts, term, translation, part_of_speech, phonetic,
			example_sentence, difficulty, topic_uid, is_learned, star_rating,
			review_count, ease_factor, next_review_ts, last_reviewed_ts
		) VALUES (` + placeholders(15) + `)`
	for _, flashcard := range flashcards {
		var lastReviewedTs any
		if flashcard.LastReviewedTs != nil {
			lastReviewedTs = *flashcard.LastReviewedTs
		}
		if _, err := tx.ExecContext(ctx, stmt,
			flashcard.UID, flashcard.CreatedTs, flashcard.Term, flashcard.Translation,
			flashcard.PartOfSpeech, flashcard.Phonetic, flashcard.ExampleSentence,
			flashcard.Difficulty, flashcard.TopicUID, flashcard.IsLearned,
			flashcard.StarRating, flashcard.ReviewCount, flashcard.EaseFactor,
			flashcard.NextReviewTs, lastReviewedTs,
		); err != nil {
			return fmt.Errorf("failed to insert flashcard %q: %w", flashcard.UID, err)
		}
	}
	return tx.Commit()
}

// boolValue maps Go bools to SQLite's integer representation.
func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}

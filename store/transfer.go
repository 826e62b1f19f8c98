package store

import (
	"context"
)

// ReplaceFlashcards wipes and reloads the whole flashcard partition.
// Import is all-or-nothing: on error nothing is kept.
func (s *Store) ReplaceFlashcards(ctx context.Context, flashcards []*Flashcard) error {
	return s.driver.ReplaceFlashcards(ctx, flashcards)
}

// ReplaceTopics wipes and reloads the whole topic partition.
func (s *Store) ReplaceTopics(ctx context.Context, topics []*Topic) error {
	if err := s.driver.ReplaceTopics(ctx, topics); err != nil {
		return err
	}
	s.topicCache.Delete(topicListCacheKey)
	return nil
}

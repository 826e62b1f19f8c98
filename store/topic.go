package store

import (
	"context"
)

// Topic is the object representing a vocabulary topic.
type Topic struct {
	ID          int32
	UID         string
	CreatedTs   int64
	Name        string
	Description string
	Icon        string
	Color       string
	IsCustom    bool
	// FlashcardCount is denormalized; it is maintained by explicit calls
	// from the flashcard flow, never derived automatically.
	FlashcardCount int32
}

// FindTopic is the find condition for topics.
type FindTopic struct {
	ID  *int32
	UID *string
	// Search matches a case-insensitive substring of name or description.
	Search   *string
	IsCustom *bool
}

// UpdateTopic is the update request for a topic.
type UpdateTopic struct {
	ID             int32
	Name           *string
	Description    *string
	Icon           *string
	Color          *string
	FlashcardCount *int32
}

// DeleteTopic is the delete request for a topic.
type DeleteTopic struct {
	ID int32
}

// CreateTopic creates a new custom topic.
func (s *Store) CreateTopic(ctx context.Context, create *Topic) (*Topic, error) {
	topic, err := s.driver.CreateTopic(ctx, create)
	if err != nil {
		return nil, err
	}
	s.topicCache.Delete(topicListCacheKey)
	return topic, nil
}

// ListTopics lists topics with filter.
func (s *Store) ListTopics(ctx context.Context, find *FindTopic) ([]*Topic, error) {
	if unfiltered(find) {
		if cached, ok := s.topicCache.Get(topicListCacheKey); ok {
			if list, ok := cached.([]*Topic); ok {
				return list, nil
			}
		}
	}
	list, err := s.driver.ListTopics(ctx, find)
	if err != nil {
		return nil, err
	}
	if unfiltered(find) {
		s.topicCache.Set(topicListCacheKey, list)
	}
	return list, nil
}

// GetTopic gets a single topic. Returns nil, nil when absent.
func (s *Store) GetTopic(ctx context.Context, find *FindTopic) (*Topic, error) {
	list, err := s.driver.ListTopics(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateTopic updates a topic.
func (s *Store) UpdateTopic(ctx context.Context, update *UpdateTopic) error {
	if err := s.driver.UpdateTopic(ctx, update); err != nil {
		return err
	}
	s.topicCache.Delete(topicListCacheKey)
	return nil
}

// DeleteTopic deletes a topic. Flashcards referencing the topic keep
// their (now orphaned) topic reference.
func (s *Store) DeleteTopic(ctx context.Context, delete *DeleteTopic) error {
	if err := s.driver.DeleteTopic(ctx, delete); err != nil {
		return err
	}
	s.topicCache.Delete(topicListCacheKey)
	return nil
}

const topicListCacheKey = "topics/all"

func unfiltered(find *FindTopic) bool {
	return find == nil || (find.ID == nil && find.UID == nil && find.Search == nil && find.IsCustom == nil)
}

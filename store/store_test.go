package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocavault/vocavault/internal/profile"
	"github.com/vocavault/vocavault/store"
	"github.com/vocavault/vocavault/store/db/sqlite"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode:    "dev",
		Driver:  "sqlite",
		Data:    dir,
		DSN:     filepath.Join(dir, "vocavault_test.db"),
		Version: "0.1.0",
	}
	driver, err := sqlite.NewDB(testProfile)
	require.NoError(t, err)

	s := store.New(driver, testProfile)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func createCard(t *testing.T, s *store.Store, card *store.Flashcard) *store.Flashcard {
	t.Helper()
	created, err := s.CreateFlashcard(context.Background(), card)
	require.NoError(t, err)
	return created
}

func TestCreateFlashcardDefaults(t *testing.T) {
	s := newTestStore(t)

	card := createCard(t, s, &store.Flashcard{UID: "c1", Term: "cat", Translation: "con mèo"})
	assert.Equal(t, store.DefaultTopicUID, card.TopicUID)
	assert.Equal(t, store.DefaultEaseFactor, card.EaseFactor)
	assert.NotZero(t, card.ID)
	assert.NotZero(t, card.CreatedTs)
}

func TestListFlashcardsInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createCard(t, s, &store.Flashcard{UID: "c1", Term: "zebra", Translation: "con ngựa vằn"})
	createCard(t, s, &store.Flashcard{UID: "c2", Term: "apple", Translation: "quả táo"})
	createCard(t, s, &store.Flashcard{UID: "c3", Term: "mango", Translation: "quả xoài"})

	cards, err := s.ListFlashcards(ctx, &store.FindFlashcard{})
	require.NoError(t, err)
	require.Len(t, cards, 3)
	// Never re-sorted alphabetically or by due date.
	assert.Equal(t, "c1", cards[0].UID)
	assert.Equal(t, "c2", cards[1].UID)
	assert.Equal(t, "c3", cards[2].UID)
}

func TestListFlashcardsCombinedFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createCard(t, s, &store.Flashcard{UID: "c1", Term: "cat", Translation: "con mèo", Difficulty: store.Beginner, TopicUID: "food"})
	createCard(t, s, &store.Flashcard{UID: "c2", Term: "dog", Translation: "con chó", Difficulty: store.Beginner, TopicUID: "travel"})
	createCard(t, s, &store.Flashcard{UID: "c3", Term: "fish", Translation: "con cá", Difficulty: store.Advanced, TopicUID: "food"})

	difficulty := store.Beginner
	topic := "food"
	cards, err := s.ListFlashcards(ctx, &store.FindFlashcard{Difficulty: &difficulty, TopicUID: &topic})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "c1", cards[0].UID)
}

func TestSearchShortCircuitsOtherFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createCard(t, s, &store.Flashcard{UID: "c1", Term: "cat", Translation: "con mèo", Difficulty: store.Beginner})
	createCard(t, s, &store.Flashcard{UID: "c2", Term: "catalog", Translation: "danh mục", Difficulty: store.Advanced})
	createCard(t, s, &store.Flashcard{UID: "c3", Term: "dog", Translation: "con chó", Difficulty: store.Beginner})

	// The difficulty filter would exclude c2, but search bypasses it.
	search := "CAT"
	difficulty := store.Beginner
	cards, err := s.ListFlashcards(ctx, &store.FindFlashcard{Search: &search, Difficulty: &difficulty})
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "c1", cards[0].UID)
	assert.Equal(t, "c2", cards[1].UID)
}

func TestSearchMatchesTranslation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createCard(t, s, &store.Flashcard{UID: "c1", Term: "cat", Translation: "con mèo"})
	createCard(t, s, &store.Flashcard{UID: "c2", Term: "dog", Translation: "con chó"})

	search := "mèo"
	cards, err := s.ListFlashcards(ctx, &store.FindFlashcard{Search: &search})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "c1", cards[0].UID)
}

func TestListFlashcardsDueBefore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	createCard(t, s, &store.Flashcard{UID: "due", Term: "cat", Translation: "con mèo", NextReviewTs: now.Unix() - 3600})
	createCard(t, s, &store.Flashcard{UID: "not-due", Term: "dog", Translation: "con chó", NextReviewTs: now.Unix() + 3600})

	cards, err := s.ListFlashcards(ctx, &store.FindFlashcard{DueBefore: &now})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "due", cards[0].UID)
}

func TestUpdateFlashcardPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	card := createCard(t, s, &store.Flashcard{UID: "c1", Term: "cat", Translation: "con mèo"})

	learned := true
	count := int32(3)
	require.NoError(t, s.UpdateFlashcard(ctx, &store.UpdateFlashcard{ID: card.ID, IsLearned: &learned, ReviewCount: &count}))

	uid := "c1"
	got, err := s.GetFlashcard(ctx, &store.FindFlashcard{UID: &uid})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsLearned)
	assert.Equal(t, int32(3), got.ReviewCount)
	// Untouched fields survive.
	assert.Equal(t, "cat", got.Term)
	assert.Equal(t, store.DefaultEaseFactor, got.EaseFactor)
}

func TestGetFlashcardAbsentReturnsNil(t *testing.T) {
	s := newTestStore(t)

	uid := "missing"
	card, err := s.GetFlashcard(context.Background(), &store.FindFlashcard{UID: &uid})
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestBuiltinTopicsSeeded(t *testing.T) {
	s := newTestStore(t)

	topics, err := s.ListTopics(context.Background(), &store.FindTopic{})
	require.NoError(t, err)
	require.NotEmpty(t, topics)

	byUID := map[string]*store.Topic{}
	for _, topic := range topics {
		byUID[topic.UID] = topic
	}
	general, ok := byUID[store.DefaultTopicUID]
	require.True(t, ok)
	assert.False(t, general.IsCustom)
	assert.Contains(t, byUID, "food")
	assert.Contains(t, byUID, "travel")
}

func TestCreateAndDeleteCustomTopic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	topic, err := s.CreateTopic(ctx, &store.Topic{UID: "music", Name: "Music", IsCustom: true})
	require.NoError(t, err)

	uid := "music"
	got, err := s.GetTopic(ctx, &store.FindTopic{UID: &uid})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Music", got.Name)

	require.NoError(t, s.DeleteTopic(ctx, &store.DeleteTopic{ID: topic.ID}))
	got, err = s.GetTopic(ctx, &store.FindTopic{UID: &uid})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReplaceFlashcardsSwapsPartition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createCard(t, s, &store.Flashcard{UID: "old-1", Term: "cat", Translation: "con mèo"})
	createCard(t, s, &store.Flashcard{UID: "old-2", Term: "dog", Translation: "con chó"})

	require.NoError(t, s.ReplaceFlashcards(ctx, []*store.Flashcard{
		{UID: "new-1", Term: "fish", Translation: "con cá", TopicUID: store.DefaultTopicUID, EaseFactor: store.DefaultEaseFactor},
	}))

	cards, err := s.ListFlashcards(ctx, &store.FindFlashcard{})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "new-1", cards[0].UID)
}

func TestUpsertDailyStatReplacesRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertDailyStat(ctx, &store.UpsertDailyStat{Date: "2025-06-10", WordsLearned: 5, Accuracy: 80})
	require.NoError(t, err)
	_, err = s.UpsertDailyStat(ctx, &store.UpsertDailyStat{Date: "2025-06-10", WordsLearned: 9, QuizzesTaken: 1, Accuracy: 90})
	require.NoError(t, err)

	row, err := s.GetDailyStat(ctx, "2025-06-10")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int32(9), row.WordsLearned)
	assert.Equal(t, int32(1), row.QuizzesTaken)
	assert.InDelta(t, 90, row.Accuracy, 1e-9)
}

func TestListDailyStatsSince(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2025-06-01", "2025-06-05", "2025-06-10"} {
		_, err := s.UpsertDailyStat(ctx, &store.UpsertDailyStat{Date: date, WordsLearned: 1})
		require.NoError(t, err)
	}

	since := "2025-06-05"
	rows, err := s.ListDailyStats(ctx, &store.FindDailyStat{Since: &since})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-06-05", rows[0].Date)
	assert.Equal(t, "2025-06-10", rows[1].Date)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertSetting(ctx, &store.Setting{Name: store.SettingKeyTheme, Value: "dark"})
	require.NoError(t, err)
	_, err = s.UpsertSetting(ctx, &store.Setting{Name: store.SettingKeyTheme, Value: "light"})
	require.NoError(t, err)

	setting, err := s.GetSetting(ctx, store.SettingKeyTheme)
	require.NoError(t, err)
	require.NotNil(t, setting)
	assert.Equal(t, "light", setting.Value)

	absent, err := s.GetSetting(ctx, "no-such-setting")
	require.NoError(t, err)
	assert.Nil(t, absent)
}

func TestQuizSessionHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateQuizSession(ctx, &store.QuizSession{
		UID: "s1", Kind: "matching", Questions: "[]", Answers: "{}",
		Score: 1, Total: 2, StartedTs: 100, EndedTs: 200,
	})
	require.NoError(t, err)
	_, err = s.CreateQuizSession(ctx, &store.QuizSession{
		UID: "s2", Kind: "multiple-choice", Questions: "[]", Answers: "{}",
		Score: 2, Total: 2, StartedTs: 300, EndedTs: 400,
	})
	require.NoError(t, err)

	sessions, err := s.ListQuizSessions(ctx, &store.FindQuizSession{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// Most recent first.
	assert.Equal(t, "s2", sessions[0].UID)
	assert.Equal(t, "s1", sessions[1].UID)
}

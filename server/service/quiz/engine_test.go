package quiz

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"sync"
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
	cards     []*store.Flashcard
	persisted []*store.QuizSession
}

func (m *mockStore) ListFlashcards(_ context.Context, _ *store.FindFlashcard) ([]*store.Flashcard, error) {
	return m.cards, nil
}

func (m *mockStore) CreateQuizSession(_ context.Context, create *store.QuizSession) (*store.QuizSession, error) {
	m.persisted = append(m.persisted, create)
	return create, nil
}

func (m *mockStore) ListQuizSessions(_ context.Context, _ *store.FindQuizSession) ([]*store.QuizSession, error) {
	return m.persisted, nil
}

func testCards() []*store.Flashcard {
	return []*store.Flashcard{
		{ID: 1, UID: "c1", Term: "cat", Translation: "con mèo", ExampleSentence: "The cat sleeps. A CAT purrs."},
		{ID: 2, UID: "c2", Term: "dog", Translation: "con chó", ExampleSentence: "The dog barks."},
		{ID: 3, UID: "c3", Term: "fish", Translation: "con cá", ExampleSentence: "A fish swims."},
		{ID: 4, UID: "c4", Term: "bird", Translation: "con chim", ExampleSentence: "The bird sings."},
		{ID: 5, UID: "c5", Term: "horse", Translation: "con ngựa", ExampleSentence: "A horse runs."},
	}
}

func newTestEngine(cards []*store.Flashcard) (*Engine, *mockStore) {
	mock := &mockStore{cards: cards}
	engine := NewEngine(mock)
	engine.rand = rand.New(rand.NewSource(42))
	engine.nower = fixedNower{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return engine, mock
}

func TestStartMultipleChoice(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c2", "c1"}, TypeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, session.Questions, 2)

	// Input order is preserved, not collection order.
	first := session.Questions[0]
	assert.Equal(t, "c2-mc", first.ID)
	assert.Equal(t, "c2", first.FlashcardUID)
	assert.Equal(t, `What does "dog" mean?`, first.Prompt)
	assert.Equal(t, "con chó", first.CorrectAnswer)
	require.Len(t, first.Options, 4)
	assert.Contains(t, first.Options, "con chó")
	assert.NotContains(t, first.Options, "dog")

	assert.Equal(t, 0, session.CurrentQuestionIndex)
	assert.False(t, session.Completed)
	assert.Empty(t, session.Answers)
}

func TestStartMultipleChoiceSmallCollection(t *testing.T) {
	engine, _ := newTestEngine(testCards()[:2])

	session, err := engine.Start(context.Background(), []string{"c1"}, TypeMultipleChoice)
	require.NoError(t, err)
	// Only one other card exists, so only one distractor is available.
	require.Len(t, session.Questions[0].Options, 2)
}

func TestStartFillBlank(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1"}, TypeFillBlank)
	require.NoError(t, err)
	require.Len(t, session.Questions, 1)

	question := session.Questions[0]
	assert.Equal(t, "c1-fb", question.ID)
	// Every occurrence of the term is blanked, case-insensitively.
	assert.Equal(t, "Fill in the blank: The _____ sleeps. A _____ purrs.", question.Prompt)
	assert.Equal(t, "cat", question.CorrectAnswer)
	assert.Empty(t, question.Options)
}

func TestStartMatching(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c3"}, TypeMatching)
	require.NoError(t, err)

	question := session.Questions[0]
	assert.Equal(t, "c3-match", question.ID)
	assert.Equal(t, "fish", question.Prompt)
	assert.Equal(t, "con cá", question.CorrectAnswer)
}

func TestStartSkipsUnknownUIDs(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1", "ghost", "c2"}, TypeMatching)
	require.NoError(t, err)
	require.Len(t, session.Questions, 2)
	assert.Equal(t, "c1", session.Questions[0].FlashcardUID)
	assert.Equal(t, "c2", session.Questions[1].FlashcardUID)
}

func TestQuizRoundTrip(t *testing.T) {
	engine, mock := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1", "c2"}, TypeMultipleChoice)
	require.NoError(t, err)

	for _, question := range session.Questions {
		engine.Answer(question.ID, question.CorrectAnswer)
		engine.Next()
	}

	completed := engine.Complete(context.Background())
	require.NotNil(t, completed)
	assert.Equal(t, 2, completed.Score)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.EndTime)
	assert.Nil(t, engine.Current())

	require.Len(t, mock.persisted, 1)
	assert.Equal(t, int32(2), mock.persisted[0].Score)
	assert.Equal(t, int32(2), mock.persisted[0].Total)
	assert.Equal(t, string(TypeMultipleChoice), mock.persisted[0].Kind)
}

func TestQuizPartialAnswers(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1", "c2", "c3"}, TypeMatching)
	require.NoError(t, err)

	// Answer only the first question, then complete without advancing.
	engine.Answer(session.Questions[0].ID, session.Questions[0].CorrectAnswer)

	completed := engine.Complete(context.Background())
	require.NotNil(t, completed)
	assert.Equal(t, 1, completed.Score)
}

func TestScoringIsCaseSensitive(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1"}, TypeFillBlank)
	require.NoError(t, err)

	engine.Answer(session.Questions[0].ID, "CAT")

	completed := engine.Complete(context.Background())
	assert.Equal(t, 0, completed.Score)
}

func TestNextClampsAtLastQuestion(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	_, err := engine.Start(context.Background(), []string{"c1", "c2", "c3"}, TypeMatching)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		engine.Next()
	}
	assert.Equal(t, 2, engine.Current().CurrentQuestionIndex)
}

func TestNoActiveSessionIsNoop(t *testing.T) {
	engine, mock := newTestEngine(testCards())

	assert.NotPanics(t, func() {
		engine.Answer("c1-mc", "whatever")
		engine.Next()
		engine.Reset()
	})
	assert.Nil(t, engine.Complete(context.Background()))
	assert.Nil(t, engine.Current())
	assert.Empty(t, mock.persisted)
}

func TestStartReplacesPreviousSession(t *testing.T) {
	engine, mock := newTestEngine(testCards())

	first, err := engine.Start(context.Background(), []string{"c1"}, TypeMatching)
	require.NoError(t, err)

	second, err := engine.Start(context.Background(), []string{"c2", "c3"}, TypeMatching)
	require.NoError(t, err)

	assert.NotEqual(t, first.UID, second.UID)
	assert.Equal(t, second.UID, engine.Current().UID)
	// The first session was abandoned, not completed, so history stays empty.
	assert.Empty(t, mock.persisted)
}

func TestCurrentIsSafeToSerializeConcurrently(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1", "c2", "c3"}, TypeMatching)
	require.NoError(t, err)
	questionID := session.Questions[0].ID

	// Answers and the question index mutate while another goroutine
	// marshals the snapshot that Current returns. Fails under -race if
	// the live session ever escapes the engine.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			engine.Answer(questionID, strconv.Itoa(i))
			engine.Next()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, err := json.Marshal(engine.Current()); err != nil {
				t.Error(err)
			}
		}
	}()
	wg.Wait()

	completed := engine.Complete(context.Background())
	require.NotNil(t, completed)
	assert.Equal(t, strconv.Itoa(499), completed.Answers[questionID])
}

func TestAnswerOverwrites(t *testing.T) {
	engine, _ := newTestEngine(testCards())

	session, err := engine.Start(context.Background(), []string{"c1"}, TypeMatching)
	require.NoError(t, err)

	questionID := session.Questions[0].ID
	engine.Answer(questionID, "wrong")
	engine.Answer(questionID, "con mèo")

	completed := engine.Complete(context.Background())
	assert.Equal(t, 1, completed.Score)
}

package v1

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/vocavault/vocavault/store"
)

// ExportDocument is the full-database transfer format: one partition
// per entity type, field-for-field, with no version tag.
type ExportDocument struct {
	Flashcards []*FlashcardResponse `json:"flashcards"`
	Topics     []*TopicResponse     `json:"topics"`
	Stats      []*DailyStatRecord   `json:"stats"`
	Settings   map[string]string    `json:"settings"`
}

// ImportDocument mirrors ExportDocument with validation constraints.
// A nil partition means "leave that partition alone".
type ImportDocument struct {
	Flashcards []*ImportFlashcard `json:"flashcards" validate:"omitempty,dive"`
	Topics     []*ImportTopic     `json:"topics" validate:"omitempty,dive"`
	Stats      []*DailyStatRecord `json:"stats" validate:"omitempty,dive"`
	Settings   map[string]string  `json:"settings"`
}

// ImportFlashcard is one flashcard row in an import payload.
type ImportFlashcard struct {
	UID             string  `json:"uid"`
	Term            string  `json:"term" validate:"required"`
	Translation     string  `json:"translation" validate:"required"`
	PartOfSpeech    string  `json:"partOfSpeech"`
	Phonetic        string  `json:"phonetic"`
	ExampleSentence string  `json:"exampleSentence"`
	Difficulty      string  `json:"difficulty"`
	TopicUID        string  `json:"topicUid"`
	IsLearned       bool    `json:"isLearned"`
	StarRating      int32   `json:"starRating" validate:"gte=0,lte=5"`
	ReviewCount     int32   `json:"reviewCount" validate:"gte=0"`
	EaseFactor      float64 `json:"easeFactor"`
	NextReviewTs    int64   `json:"nextReviewTs"`
	LastReviewedTs  *int64  `json:"lastReviewedTs"`
	CreatedTs       int64   `json:"createdTs"`
}

// ImportTopic is one topic row in an import payload.
type ImportTopic struct {
	UID            string `json:"uid"`
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
	IsCustom       bool   `json:"isCustom"`
	FlashcardCount int32  `json:"flashcardCount" validate:"gte=0"`
	CreatedTs      int64  `json:"createdTs"`
}

// DailyStatRecord is one daily-stat row in the transfer format.
type DailyStatRecord struct {
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	WordsLearned int32   `json:"wordsLearned" validate:"gte=0"`
	QuizzesTaken int32   `json:"quizzesTaken" validate:"gte=0"`
	TimeSpentMin int32   `json:"timeSpentMin" validate:"gte=0"`
	Accuracy     float64 `json:"accuracy" validate:"gte=0,lte=100"`
}

// Export dumps every partition as one JSON document.
// GET /api/v1/transfer/export
func (s *APIV1Service) Export(c echo.Context) error {
	ctx := c.Request().Context()

	cards, err := s.Store.ListFlashcards(ctx, &store.FindFlashcard{})
	if err != nil {
		slog.Error("failed to export flashcards", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}
	topics, err := s.Store.ListTopics(ctx, &store.FindTopic{})
	if err != nil {
		slog.Error("failed to export topics", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}
	stats, err := s.Store.ListDailyStats(ctx, &store.FindDailyStat{})
	if err != nil {
		slog.Error("failed to export stats", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}
	settings, err := s.Store.ListSettings(ctx, &store.FindSetting{})
	if err != nil {
		slog.Error("failed to export settings", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}

	document := &ExportDocument{
		Flashcards: convertFlashcardList(cards),
		Topics:     make([]*TopicResponse, 0, len(topics)),
		Stats:      make([]*DailyStatRecord, 0, len(stats)),
		Settings:   make(map[string]string, len(settings)),
	}
	for _, topic := range topics {
		document.Topics = append(document.Topics, convertTopic(topic))
	}
	for _, row := range stats {
		document.Stats = append(document.Stats, &DailyStatRecord{
			Date:         row.Date,
			WordsLearned: row.WordsLearned,
			QuizzesTaken: row.QuizzesTaken,
			TimeSpentMin: row.TimeSpentMin,
			Accuracy:     row.Accuracy,
		})
	}
	for _, setting := range settings {
		document.Settings[setting.Name] = setting.Value
	}
	return c.JSON(http.StatusOK, document)
}

// Import replaces whole partitions from an export document. Each
// present partition is swapped atomically; a malformed payload is
// rejected before anything is touched.
// POST /api/v1/transfer/import
func (s *APIV1Service) Import(c echo.Context) error {
	ctx := c.Request().Context()
	document := &ImportDocument{}
	if err := c.Bind(document); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "import failed"})
	}
	if err := s.validate.Struct(document); err != nil {
		slog.Warn("rejected import payload", slog.Any("err", err))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "import failed"})
	}

	if document.Topics != nil {
		topics := make([]*store.Topic, 0, len(document.Topics))
		for _, row := range document.Topics {
			if row.UID == "" {
				row.UID = shortuuid.New()
			}
			topics = append(topics, &store.Topic{
				UID:            row.UID,
				CreatedTs:      row.CreatedTs,
				Name:           row.Name,
				Description:    row.Description,
				Icon:           row.Icon,
				Color:          row.Color,
				IsCustom:       row.IsCustom,
				FlashcardCount: row.FlashcardCount,
			})
		}
		if err := s.Store.ReplaceTopics(ctx, topics); err != nil {
			slog.Error("failed to import topics", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
		}
	}

	if document.Flashcards != nil {
		cards := make([]*store.Flashcard, 0, len(document.Flashcards))
		for _, row := range document.Flashcards {
			if row.UID == "" {
				row.UID = shortuuid.New()
			}
			ease := row.EaseFactor
			if ease == 0 {
				ease = store.DefaultEaseFactor
			}
			cards = append(cards, &store.Flashcard{
				UID:             row.UID,
				CreatedTs:       row.CreatedTs,
				Term:            row.Term,
				Translation:     row.Translation,
				PartOfSpeech:    store.PartOfSpeech(row.PartOfSpeech),
				Phonetic:        row.Phonetic,
				ExampleSentence: row.ExampleSentence,
				Difficulty:      store.Difficulty(row.Difficulty),
				TopicUID:        row.TopicUID,
				IsLearned:       row.IsLearned,
				StarRating:      row.StarRating,
				ReviewCount:     row.ReviewCount,
				EaseFactor:      ease,
				NextReviewTs:    row.NextReviewTs,
				LastReviewedTs:  row.LastReviewedTs,
			})
		}
		if err := s.Store.ReplaceFlashcards(ctx, cards); err != nil {
			slog.Error("failed to import flashcards", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
		}
	}

	if document.Stats != nil {
		stats := make([]*store.UpsertDailyStat, 0, len(document.Stats))
		for _, row := range document.Stats {
			stats = append(stats, &store.UpsertDailyStat{
				Date:         row.Date,
				WordsLearned: row.WordsLearned,
				QuizzesTaken: row.QuizzesTaken,
				TimeSpentMin: row.TimeSpentMin,
				Accuracy:     row.Accuracy,
			})
		}
		if err := s.Store.ReplaceDailyStats(ctx, stats); err != nil {
			slog.Error("failed to import stats", slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
		}
	}

	for name, value := range document.Settings {
		if _, err := s.Store.UpsertSetting(ctx, &store.Setting{Name: name, Value: value}); err != nil {
			slog.Error("failed to import setting", slog.String("name", name), slog.Any("err", err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "import failed"})
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Sync records a remote-sync attempt. The remote call itself is mocked;
// only the last-sync timestamp moves.
// POST /api/v1/transfer/sync
func (s *APIV1Service) Sync(c echo.Context) error {
	now := time.Now().Unix()
	if _, err := s.Store.UpsertSetting(c.Request().Context(), &store.Setting{
		Name:  store.SettingKeyLastSync,
		Value: strconv.FormatInt(now, 10),
	}); err != nil {
		slog.Error("failed to record sync", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "sync failed"})
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "syncedTs": now})
}

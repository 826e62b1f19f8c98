// Package gamification tracks experience, levels, points, badges, and
// achievements earned through study activity.
package gamification

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/vocavault/vocavault/store"
)

// xpPerLevel is the flat experience cost of each level.
const xpPerLevel = 100

// BadgeType groups badges by the stat that unlocks them.
type BadgeType string

const (
	BadgeWordsLearned BadgeType = "words-learned"
	BadgeQuizStreak   BadgeType = "quiz-streak"
	BadgeDailyStreak  BadgeType = "daily-streak"
	BadgeAccuracy     BadgeType = "accuracy"
)

// Badge is one entry in the fixed badge catalog plus its unlock state.
type Badge struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Requirement int32      `json:"requirement"`
	Type        BadgeType  `json:"type"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// Achievement is a long-running goal with incremental progress.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Points      int32      `json:"points"`
	Type        string     `json:"type"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Progress    int32      `json:"progress"`
	MaxProgress int32      `json:"maxProgress"`
}

// State is the full persisted gamification state.
type State struct {
	Level            int32          `json:"level"`
	Experience       int32          `json:"experience"`
	ExperienceToNext int32          `json:"experienceToNext"`
	TotalPoints      int32          `json:"totalPoints"`
	Badges           []*Badge       `json:"badges"`
	Achievements     []*Achievement `json:"achievements"`
}

func defaultBadges() []*Badge {
	return []*Badge{
		{ID: "first-word", Name: "First Steps", Description: "Learn your first word", Icon: "Star", Color: "#FFD700", Requirement: 1, Type: BadgeWordsLearned},
		{ID: "word-master-10", Name: "Word Apprentice", Description: "Learn 10 words", Icon: "BookOpen", Color: "#4ECDC4", Requirement: 10, Type: BadgeWordsLearned},
		{ID: "word-master-50", Name: "Word Scholar", Description: "Learn 50 words", Icon: "GraduationCap", Color: "#45B7D1", Requirement: 50, Type: BadgeWordsLearned},
		{ID: "quiz-streak-5", Name: "Quiz Champion", Description: "Complete 5 quizzes in a row", Icon: "Trophy", Color: "#FF6B6B", Requirement: 5, Type: BadgeQuizStreak},
		{ID: "daily-streak-7", Name: "Weekly Warrior", Description: "Study for 7 days straight", Icon: "Calendar", Color: "#96CEB4", Requirement: 7, Type: BadgeDailyStreak},
		{ID: "accuracy-master", Name: "Accuracy Master", Description: "Achieve 90% accuracy in 10 quizzes", Icon: "Target", Color: "#FECA57", Requirement: 90, Type: BadgeAccuracy},
	}
}

func defaultAchievements() []*Achievement {
	return []*Achievement{
		{ID: "vocabulary-builder", Title: "Vocabulary Builder", Description: "Learn 100 new words", Points: 500, Type: "learning", MaxProgress: 100},
		{ID: "quiz-master", Title: "Quiz Master", Description: "Complete 50 quizzes", Points: 300, Type: "quiz", MaxProgress: 50},
		{ID: "consistency-king", Title: "Consistency King", Description: "Study for 30 consecutive days", Points: 1000, Type: "streak", MaxProgress: 30},
	}
}

type nower interface {
	Now() time.Time
}

type realNower struct{}

func (realNower) Now() time.Time {
	return time.Now()
}

// Store is the interface for store operations needed by the service.
type Store interface {
	GetSetting(ctx context.Context, name string) (*store.Setting, error)
	UpsertSetting(ctx context.Context, upsert *store.Setting) (*store.Setting, error)
}

// Service owns the gamification state, persisted as one settings entry.
type Service struct {
	store Store
	nower nower
}

// NewService creates a gamification service backed by the given store.
func NewService(s Store) *Service {
	return &Service{store: s, nower: realNower{}}
}

// GetState loads the persisted state, seeding the default catalogs on
// first use.
func (g *Service) GetState(ctx context.Context) (*State, error) {
	setting, err := g.store.GetSetting(ctx, store.SettingKeyGamification)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return &State{
			Level:            1,
			ExperienceToNext: xpPerLevel,
			Badges:           defaultBadges(),
			Achievements:     defaultAchievements(),
		}, nil
	}
	state := &State{}
	if err := json.Unmarshal([]byte(setting.Value), state); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal gamification state")
	}
	return state, nil
}

func (g *Service) save(ctx context.Context, state *State) error {
	value, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to marshal gamification state")
	}
	_, err = g.store.UpsertSetting(ctx, &store.Setting{Name: store.SettingKeyGamification, Value: string(value)})
	return err
}

// levelFor converts total experience into a level, a flat 100 xp each.
func levelFor(experience int32) int32 {
	return experience/xpPerLevel + 1
}

// AddExperience grants xp and recomputes level and distance to the next.
func (g *Service) AddExperience(ctx context.Context, amount int32) (*State, error) {
	state, err := g.GetState(ctx)
	if err != nil {
		return nil, err
	}
	g.applyExperience(state, amount)
	if err := g.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (g *Service) applyExperience(state *State, amount int32) {
	state.Experience += amount
	state.Level = levelFor(state.Experience)
	state.ExperienceToNext = state.Level*xpPerLevel - state.Experience
}

// AddPoints grants points without touching experience.
func (g *Service) AddPoints(ctx context.Context, amount int32) (*State, error) {
	state, err := g.GetState(ctx)
	if err != nil {
		return nil, err
	}
	state.TotalPoints += amount
	if err := g.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// UnlockBadge marks a badge unlocked. Unknown IDs and already-unlocked
// badges are no-ops.
func (g *Service) UnlockBadge(ctx context.Context, badgeID string) (*State, error) {
	state, err := g.GetState(ctx)
	if err != nil {
		return nil, err
	}
	for _, badge := range state.Badges {
		if badge.ID == badgeID && !badge.Unlocked {
			badge.Unlocked = true
			now := g.nower.Now()
			badge.UnlockedAt = &now
		}
	}
	if err := g.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// UpdateAchievementProgress sets an achievement's progress, clamped to
// its max. Crossing the max does not auto-complete; completion is an
// explicit call so the award happens exactly once.
func (g *Service) UpdateAchievementProgress(ctx context.Context, achievementID string, progress int32) (*State, error) {
	state, err := g.GetState(ctx)
	if err != nil {
		return nil, err
	}
	for _, achievement := range state.Achievements {
		if achievement.ID != achievementID {
			continue
		}
		if progress > achievement.MaxProgress {
			progress = achievement.MaxProgress
		}
		achievement.Progress = progress
	}
	if err := g.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// CompleteAchievement completes an achievement and awards its points
// plus half that as experience. Completing an already-completed
// achievement awards nothing.
func (g *Service) CompleteAchievement(ctx context.Context, achievementID string) (*State, error) {
	state, err := g.GetState(ctx)
	if err != nil {
		return nil, err
	}
	for _, achievement := range state.Achievements {
		if achievement.ID != achievementID || achievement.Completed {
			continue
		}
		achievement.Completed = true
		now := g.nower.Now()
		achievement.CompletedAt = &now
		state.TotalPoints += achievement.Points
		g.applyExperience(state, achievement.Points/2)
	}
	if err := g.save(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

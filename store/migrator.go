package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/vocavault/vocavault/internal/version"
)

// Migration system overview:
//
// Fresh databases get the full LATEST.sql schema for their driver plus the
// built-in topic seed. The schema version is recorded in the setting
// partition afterwards; already-initialized databases only have their
// recorded version checked against the running binary.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the name of the latest schema file, used to
// initialize fresh installations with the current schema.
const LatestSchemaFileName = "LATEST.sql"

// Migrate initializes or upgrades the database schema.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}

	if !initialized {
		if err := s.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		if err := s.seedBuiltinTopics(ctx); err != nil {
			return errors.Wrap(err, "failed to seed built-in topics")
		}
		if _, err := s.UpsertSetting(ctx, &Setting{
			Name:  SettingKeySchemaVersion,
			Value: s.profile.Version,
		}); err != nil {
			return errors.Wrap(err, "failed to record schema version")
		}
		slog.Info("database initialized", slog.String("version", s.profile.Version))
		return nil
	}

	setting, err := s.GetSetting(ctx, SettingKeySchemaVersion)
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	currentVersion := "0.0.0"
	if setting != nil && setting.Value != "" {
		currentVersion = setting.Value
	}
	if version.IsVersionGreaterOrEqualThan(currentVersion, s.profile.Version) {
		return nil
	}

	// Schema is append-only so far; bump the recorded version.
	if _, err := s.UpsertSetting(ctx, &Setting{
		Name:  SettingKeySchemaVersion,
		Value: s.profile.Version,
	}); err != nil {
		return errors.Wrap(err, "failed to bump schema version")
	}
	slog.Info("schema version bumped",
		slog.String("from", currentVersion),
		slog.String("to", s.profile.Version))
	return nil
}

func (s *Store) applyLatestSchema(ctx context.Context) error {
	filePath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(bytes)); err != nil {
		return errors.Wrapf(err, "failed to execute latest schema for %s", s.profile.Driver)
	}
	return nil
}

// builtinTopics are seeded into every fresh database. They cannot be
// deleted through the API.
var builtinTopics = []*Topic{
	{UID: "general", Name: "General", Description: "Common everyday vocabulary", Icon: "Book", Color: "#1E90FF"},
	{UID: "food", Name: "Food & Dining", Description: "Food, restaurants, and cooking terms", Icon: "UtensilsCrossed", Color: "#FF6B6B"},
	{UID: "travel", Name: "Travel", Description: "Transportation, hotels, and tourism", Icon: "Plane", Color: "#4ECDC4"},
	{UID: "business", Name: "Business", Description: "Professional and workplace vocabulary", Icon: "Briefcase", Color: "#45B7D1"},
	{UID: "technology", Name: "Technology", Description: "Computers, internet, and digital terms", Icon: "Laptop", Color: "#96CEB4"},
	{UID: "health", Name: "Health & Medicine", Description: "Medical and health-related terms", Icon: "Heart", Color: "#FECA57"},
}

func (s *Store) seedBuiltinTopics(ctx context.Context) error {
	for _, topic := range builtinTopics {
		create := *topic
		create.IsCustom = false
		if _, err := s.driver.CreateTopic(ctx, &create); err != nil {
			return errors.Wrapf(err, "failed to seed topic %q", topic.UID)
		}
	}
	return nil
}

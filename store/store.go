// Package store provides database access to all raw objects.
package store

import (
	"time"

	"github.com/vocavault/vocavault/internal/profile"
	"github.com/vocavault/vocavault/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Caches
	topicCache   *cache.Cache // cache for the full topic list
	settingCache *cache.Cache // cache for settings
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:       driver,
		profile:      profile,
		cacheConfig:  cacheConfig,
		topicCache:   cache.New(cacheConfig),
		settingCache: cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.topicCache.Close()
	s.settingCache.Close()

	return s.driver.Close()
}

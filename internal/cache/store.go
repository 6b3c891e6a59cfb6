package cache

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// Store is a database-backed cache. Values are stored as JSON so entries
// survive restarts, which matters for caches gating expensive external calls.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore creates a database-backed cache.
func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// Get retrieves a value from the cache.
func (s *Store[T]) Get(key string) (T, bool, error) {
	var zero T

	var entry models.CacheEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, false, nil
		}
		return zero, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var data T
	if err := json.Unmarshal([]byte(entry.Value), &data); err != nil {
		// A stale entry from an older value shape reads as a miss.
		return zero, false, nil
	}
	return data, true, nil
}

// Set stores a value, overwriting any existing entry for the key.
func (s *Store[T]) Set(key string, data T) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := models.CacheEntry{Key: key, Value: string(raw)}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Delete removes a key from the cache.
func (s *Store[T]) Delete(key string) error {
	if err := s.db.Delete(&models.CacheEntry{}, "key = ?", key).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

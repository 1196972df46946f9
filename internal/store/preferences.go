package store

import (
	"context"
	"fmt"

	"domain-panel/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// PreferenceStore is a string key/value store for client preferences.
type PreferenceStore interface {
	Get(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, values map[string]string) error
}

// LoadPreferences reads the client preferences, defaulting absent keys.
func LoadPreferences(ctx context.Context, ps PreferenceStore) (models.ClientPreferences, error) {
	m, err := ps.Get(ctx, models.PreferenceKeys...)
	if err != nil {
		return models.DefaultPreferences(), err
	}
	return models.PreferencesFromMap(m), nil
}

// SavePreferences writes every preference key.
func SavePreferences(ctx context.Context, ps PreferenceStore, p models.ClientPreferences) error {
	return ps.Set(ctx, p.ToMap())
}

// GormPreferenceStore keeps preferences in the settings table.
type GormPreferenceStore struct {
	db *gorm.DB
}

// NewGormPreferenceStore creates a store over db.
func NewGormPreferenceStore(db *gorm.DB) *GormPreferenceStore {
	return &GormPreferenceStore{db: db}
}

// Get returns the stored values of keys; missing keys are absent from the map.
func (s *GormPreferenceStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Where("`key` IN ?", keys).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Set upserts every pair.
func (s *GormPreferenceStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			if err := tx.Save(&models.Setting{Key: k, Value: v}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// All returns every settings row as a map.
func (s *GormPreferenceStore) All(ctx context.Context) (map[string]string, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// RedisPreferenceStore keeps preferences in one Redis hash.
type RedisPreferenceStore struct {
	client *redis.Client
	key    string
}

// NewRedisPreferenceStore creates a store writing to hash key.
func NewRedisPreferenceStore(client *redis.Client, key string) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client, key: key}
}

// Get returns the stored values of keys; missing keys are absent from the map.
func (s *RedisPreferenceStore) Get(ctx context.Context, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	vals, err := s.client.HMGet(ctx, s.key, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget %s: %w", s.key, err)
	}
	out := make(map[string]string, len(keys))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

// Set writes every pair into the hash.
func (s *RedisPreferenceStore) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, 2*len(values))
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, s.key, args...).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", s.key, err)
	}
	return nil
}

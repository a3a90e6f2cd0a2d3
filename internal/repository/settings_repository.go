package repository

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const autoReplyEnabledKey = "support:settings:auto_reply_enabled"

// SettingsRepository exposes the tenant-level engine toggles.
type SettingsRepository interface {
	AutoReplyEnabled(ctx context.Context, fallback bool) (bool, error)
	SetAutoReplyEnabled(ctx context.Context, enabled bool) error
}

type settingsRepository struct {
	client *redis.Client
}

// NewSettingsRepository builds the redis-backed settings store.
func NewSettingsRepository(client *redis.Client) SettingsRepository {
	return &settingsRepository{client: client}
}

func (r *settingsRepository) AutoReplyEnabled(ctx context.Context, fallback bool) (bool, error) {
	val, err := r.client.Get(ctx, autoReplyEnabledKey).Result()
	if err == redis.Nil {
		return fallback, nil
	}
	if err != nil {
		return fallback, err
	}
	enabled, err := strconv.ParseBool(val)
	if err != nil {
		return fallback, nil
	}
	return enabled, nil
}

func (r *settingsRepository) SetAutoReplyEnabled(ctx context.Context, enabled bool) error {
	return r.client.Set(ctx, autoReplyEnabledKey, strconv.FormatBool(enabled), 0).Err()
}

package repository

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-engine/internal/domain"
)

const templateHashKey = "support:templates"

// TemplateRepository is a pass-through to the tenant configuration
// store. Templates are keyed by title.
type TemplateRepository interface {
	List(ctx context.Context) ([]domain.ReplyTemplate, error)
	Get(ctx context.Context, title string) (*domain.ReplyTemplate, error)
	Upsert(ctx context.Context, tpl domain.ReplyTemplate) error
	Delete(ctx context.Context, title string) error
}

type templateRepository struct {
	client *redis.Client
}

// NewTemplateRepository builds the redis-backed store.
func NewTemplateRepository(client *redis.Client) TemplateRepository {
	return &templateRepository{client: client}
}

func (r *templateRepository) List(ctx context.Context) ([]domain.ReplyTemplate, error) {
	raw, err := r.client.HGetAll(ctx, templateHashKey).Result()
	if err != nil {
		return nil, err
	}
	templates := make([]domain.ReplyTemplate, 0, len(raw))
	for _, val := range raw {
		var tpl domain.ReplyTemplate
		if err := json.Unmarshal([]byte(val), &tpl); err != nil {
			continue
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}

func (r *templateRepository) Get(ctx context.Context, title string) (*domain.ReplyTemplate, error) {
	val, err := r.client.HGet(ctx, templateHashKey, title).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tpl domain.ReplyTemplate
	if err := json.Unmarshal([]byte(val), &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) Upsert(ctx context.Context, tpl domain.ReplyTemplate) error {
	data, err := json.Marshal(tpl)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, templateHashKey, tpl.Title, data).Err()
}

func (r *templateRepository) Delete(ctx context.Context, title string) error {
	return r.client.HDel(ctx, templateHashKey, title).Err()
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/domain"
)

const (
	projectKeyPrefix = "logo:project:"         // project with logos: logo:project:{id}
	recentKeyPrefix  = "logo:projects:recent:" // recent listing: logo:projects:recent:{limit}
	recentIndexKey   = "logo:projects:recent"  // set of cached listing keys
)

// ProjectCache caches read views of projects in Redis.
type ProjectCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProjectCache(client *redis.Client, ttl time.Duration) *ProjectCache {
	return &ProjectCache{client: client, ttl: ttl}
}

func (c *ProjectCache) projectKey(id string) string {
	return projectKeyPrefix + id
}

func (c *ProjectCache) recentKey(limit int) string {
	return fmt.Sprintf("%s%d", recentKeyPrefix, limit)
}

// GetProject returns the cached project, or ok=false on a miss.
func (c *ProjectCache) GetProject(ctx context.Context, id string) (*domain.ProjectWithLogos, bool, error) {
	data, err := c.client.Get(ctx, c.projectKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached project: %w", err)
	}

	var p domain.ProjectWithLogos
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached project: %w", err)
	}
	return &p, true, nil
}

func (c *ProjectCache) SetProject(ctx context.Context, p *domain.ProjectWithLogos) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := c.client.Set(ctx, c.projectKey(p.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache project: %w", err)
	}
	return nil
}

// GetRecent returns a cached listing for limit, or ok=false on a miss.
func (c *ProjectCache) GetRecent(ctx context.Context, limit int) ([]domain.ProjectSummary, bool, error) {
	data, err := c.client.Get(ctx, c.recentKey(limit)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached listing: %w", err)
	}

	var out []domain.ProjectSummary
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached listing: %w", err)
	}
	return out, true, nil
}

func (c *ProjectCache) SetRecent(ctx context.Context, limit int, projects []domain.ProjectSummary) error {
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	key := c.recentKey(limit)
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, c.ttl)
	pipe.SAdd(ctx, recentIndexKey, key)
	pipe.Expire(ctx, recentIndexKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache listing: %w", err)
	}
	return nil
}

// Invalidate drops the project entry and every cached listing.
func (c *ProjectCache) Invalidate(ctx context.Context, projectID string) error {
	keys, err := c.client.SMembers(ctx, recentIndexKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to read listing index: %w", err)
	}

	keys = append(keys, recentIndexKey)
	if projectID != "" {
		keys = append(keys, c.projectKey(projectID))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/propertyhub/transaction-service/internal/domain/entity"
	"github.com/propertyhub/transaction-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	propertyCacheKeyPrefix = "property:"
)

type propertyCache struct {
	client *redis.Client
}

func NewPropertyCache(client *redis.Client) repository.PropertyCache {
	return &propertyCache{
		client: client,
	}
}

func (r *propertyCache) getPropertyKey(propertyID string) string {
	return propertyCacheKeyPrefix + propertyID
}

func (r *propertyCache) Get(ctx context.Context, propertyID string) (*entity.Property, error) {
	key := r.getPropertyKey(propertyID)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get property %s from redis: %w", propertyID, err)
	}

	var property entity.Property
	err = json.Unmarshal([]byte(val), &property)
	if err != nil {
		_ = r.Delete(ctx, propertyID)
		return nil, fmt.Errorf("failed to unmarshal cached property %s: %w", propertyID, err)
	}
	return &property, nil
}

func (r *propertyCache) Set(ctx context.Context, property *entity.Property, ttl time.Duration) error {
	if property == nil || property.ID == "" {
		return errors.New("cannot cache nil property or property with empty ID")
	}
	key := r.getPropertyKey(property.ID)

	data, err := json.Marshal(property)
	if err != nil {
		return fmt.Errorf("failed to marshal property %s: %w", property.ID, err)
	}

	err = r.client.Set(ctx, key, data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set property %s to redis: %w", property.ID, err)
	}
	return nil
}

func (r *propertyCache) Delete(ctx context.Context, propertyID string) error {
	key := r.getPropertyKey(propertyID)
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete property %s from redis: %w", propertyID, err)
	}
	return nil
}

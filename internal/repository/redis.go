package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{
		client: client,
		ttl:    ttl,
	}
}

func listingKey(ownerID int64) string {
	return fmt.Sprintf("listing:%d", ownerID)
}

func (r *RedisListingCache) GetListing(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, listingKey(ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing from redis: %w", err)
	}

	var items []*models.AnnotatedItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	return items, nil
}

func (r *RedisListingCache) SetListing(ctx context.Context, ownerID int64, items []*models.AnnotatedItem) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal listing: %w", err)
	}

	if err := r.client.Set(ctx, listingKey(ownerID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set listing in redis: %w", err)
	}

	return nil
}

func (r *RedisListingCache) InvalidateListing(ctx context.Context, ownerID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, listingKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete listing from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}

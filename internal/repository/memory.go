package repository

import (
	"context"
	"sync"
	"time"

	"shareit/internal/models"
)

type memoryEntry struct {
	items     []*models.AnnotatedItem
	expiresAt time.Time
}

type MemoryListingCache struct {
	listings sync.Map
	ttl      time.Duration
}

func NewMemoryListingCache(ttl time.Duration) *MemoryListingCache {
	return &MemoryListingCache{
		ttl: ttl,
	}
}

func (r *MemoryListingCache) GetListing(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error) {
	val, ok := r.listings.Load(ownerID)
	if !ok {
		return nil, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.listings.Delete(ownerID)
		return nil, nil
	}
	return entry.items, nil
}

func (r *MemoryListingCache) SetListing(ctx context.Context, ownerID int64, items []*models.AnnotatedItem) error {
	r.listings.Store(ownerID, &memoryEntry{
		items:     items,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryListingCache) InvalidateListing(ctx context.Context, ownerID int64) error {
	r.listings.Delete(ownerID)
	return nil
}

package repository

import (
	"context"
	"sync/atomic"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// FailoverListingCache serves from the primary cache until it errors,
// then falls back to the in-memory cache and retries the primary after
// a cooldown.
type FailoverListingCache struct {
	primary   domain.ListingCache
	fallback  domain.ListingCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverListingCache(primary, fallback domain.ListingCache, logger *zerolog.Logger) *FailoverListingCache {
	return &FailoverListingCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverListingCache) GetListing(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error) {
	if !r.isDown.Load() {
		items, err := r.primary.GetListing(ctx, ownerID)
		if err == nil {
			return items, nil
		}
		r.logger.Error().Err(err).Msg("Primary listing cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		items, err := r.primary.GetListing(ctx, ownerID)
		if err == nil {
			r.isDown.Store(false)
			return items, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetListing(ctx, ownerID)
}

func (r *FailoverListingCache) SetListing(ctx context.Context, ownerID int64, items []*models.AnnotatedItem) error {
	if !r.isDown.Load() {
		err := r.primary.SetListing(ctx, ownerID, items)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("Primary listing cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetListing(ctx, ownerID, items)
}

func (r *FailoverListingCache) InvalidateListing(ctx context.Context, ownerID int64) error {
	if !r.isDown.Load() {
		err := r.primary.InvalidateListing(ctx, ownerID)
		if err == nil {
			// Keep the fallback coherent in case we flip over later.
			return r.fallback.InvalidateListing(ctx, ownerID)
		}
		r.logger.Error().Err(err).Msg("Primary listing cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.InvalidateListing(ctx, ownerID)
}

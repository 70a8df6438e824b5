package service

import (
	"context"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// ItemService manages the item catalog and the annotated owner views.
type ItemService struct {
	repo     domain.Repository
	clock    domain.Clock
	cache    domain.ListingCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, clock domain.Clock, cache domain.ListingCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		clock:    clock,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Add(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(item.Name) == "" {
		return nil, domain.Validationf("item name is required")
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, ownerID)
	s.publishItemEvent(item)
	return item, nil
}

// Update applies a partial update. A non-owner gets not-found rather than
// forbidden, so the response does not confirm the item exists.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, update models.ItemUpdate) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.NotFoundf("item %d for user %d", itemID, ownerID)
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Description != nil {
		item.Description = *update.Description
	}
	if update.Available != nil {
		item.Available = *update.Available
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, ownerID)
	s.publishItemEvent(item)
	return item, nil
}

// Get returns the item with comments; the owner additionally sees the nearest
// past and upcoming bookings.
func (s *ItemService) Get(ctx context.Context, actorID, itemID int64) (*models.AnnotatedItem, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	annotated := &models.AnnotatedItem{Item: item, Comments: comments}
	if item.OwnerID != actorID {
		return annotated, nil
	}

	bookings, err := s.repo.GetBookingsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	annotated.LastBooking, annotated.NextBooking = pickAnnotations(bookings, s.clock.Now())
	return annotated, nil
}

// ListOwned returns the caller's items with booking annotations and comments.
// Results are served from the listing cache when fresh.
func (s *ItemService) ListOwned(ctx context.Context, ownerID int64) ([]*models.AnnotatedItem, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetListing(ctx, ownerID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("listing cache read failed")
		} else if cached != nil {
			metrics.IncCache("hit")
			return cached, nil
		}
		metrics.IncCache("miss")
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []*models.AnnotatedItem{}, nil
	}

	itemIDs := make([]int64, len(items))
	for i, item := range items {
		itemIDs[i] = item.ID
	}

	bookings, err := s.repo.GetBookingsByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.GetCommentsByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	bookingsByItem := groupBookingsByItem(bookings)
	commentsByItem := groupCommentsByItem(comments)
	now := s.clock.Now()

	annotated := make([]*models.AnnotatedItem, len(items))
	for i, item := range items {
		entry := &models.AnnotatedItem{Item: item, Comments: commentsByItem[item.ID]}
		entry.LastBooking, entry.NextBooking = pickAnnotations(bookingsByItem[item.ID], now)
		annotated[i] = entry
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, ownerID, annotated); err != nil {
			s.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("listing cache write failed")
		}
	}

	return annotated, nil
}

// Search finds available items whose name or description contains the text.
// A blank query returns an empty result without touching the store.
func (s *ItemService) Search(ctx context.Context, actorID int64, text string) ([]*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text)
}

// AddComment accepts a review from a user whose rental of the item has
// already finished.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	author, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.Validationf("comment text is required")
	}

	finished, err := s.repo.HasFinishedBooking(ctx, itemID, authorID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, domain.ErrNoPastBooking
	}

	comment := &models.Comment{
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Text:       text,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.invalidateListing(ctx, item.OwnerID)
	if s.eventBus != nil {
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, comment); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}

func (s *ItemService) invalidateListing(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListing(ctx, ownerID); err != nil {
		s.logger.Warn().Err(err).Int64("owner_id", ownerID).Msg("listing cache invalidation failed")
	}
}

func (s *ItemService) publishItemEvent(item *models.Item) {
	if s.eventBus == nil {
		return
	}
	payload := events.ItemEventPayload{ItemID: item.ID, OwnerID: item.OwnerID}
	if err := s.eventBus.PublishJSON(events.EventItemChanged, payload); err != nil {
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("publish event error")
	}
}

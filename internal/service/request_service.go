package service

import (
	"context"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, clock domain.Clock, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, clock: clock, logger: logger}
}

func (s *RequestService) Add(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, domain.Validationf("request description is required")
	}
	if _, err := s.repo.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		RequesterID: requesterID,
		Description: description,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("request_id", request.ID).Int64("requester_id", requesterID).Msg("item request created")
	return request, nil
}

// ListOwn returns the requester's requests, newest first, each with the
// items offered in response.
func (s *RequestService) ListOwn(ctx context.Context, requesterID int64) ([]*models.RequestWithItems, error) {
	if _, err := s.repo.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.repo.GetRequestsByUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// ListOthers pages through requests posted by everyone except the caller.
func (s *RequestService) ListOthers(ctx context.Context, requesterID int64, page models.Page) ([]*models.ItemRequest, error) {
	if !page.Valid() {
		return nil, domain.ErrBadPage
	}
	if _, err := s.repo.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.repo.ListRequestsExcept(ctx, requesterID, page)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []*models.ItemRequest{}
	}
	return requests, nil
}

func (s *RequestService) Get(ctx context.Context, actorID, requestID int64) (*models.RequestWithItems, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, err
	}
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	withItems, err := s.attachItems(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return withItems[0], nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.RequestWithItems, error) {
	result := make([]*models.RequestWithItems, 0, len(requests))
	if len(requests) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.ID)
	}
	items, err := s.repo.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]*models.Item, len(requests))
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}
	for _, r := range requests {
		grouped := byRequest[r.ID]
		if grouped == nil {
			grouped = []*models.Item{}
		}
		result = append(result, &models.RequestWithItems{Request: r, Items: grouped})
	}
	return result, nil
}

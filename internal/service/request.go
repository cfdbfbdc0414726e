package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
	"github.com/shareit/shareit-service/internal/repository"
)

const defaultRequestPageSize = 10

// RequestService records item requests and aggregates the items listed
// in response to them.
type RequestService struct {
	log      *zap.Logger
	requests repository.RequestRepository
	items    repository.ItemRepository
	users    repository.UserRepository
}

func NewRequestService(
	requests repository.RequestRepository,
	items repository.ItemRepository,
	users repository.UserRepository,
	log *zap.Logger,
) *RequestService {
	return &RequestService{
		log:      log.Named("request-svc"),
		requests: requests,
		items:    items,
		users:    users,
	}
}

func (s *RequestService) Create(ctx context.Context, requestorID int64, req model.CreateItemRequestRequest) (model.ItemRequestResponse, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return model.ItemRequestResponse{}, err
	}
	created, err := s.requests.Create(ctx, requestorID, req.Description)
	if err != nil {
		return model.ItemRequestResponse{}, err
	}
	return model.ItemRequestResponse{ItemRequest: created, Items: []model.ItemForRequest{}}, nil
}

// ListOwn returns the caller's requests, newest first.
func (s *RequestService) ListOwn(ctx context.Context, requestorID int64) ([]model.ItemRequestResponse, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, requests)
}

// ListOthers returns other users' requests, newest first, paginated.
func (s *RequestService) ListOthers(ctx context.Context, requestorID int64, from, size int) ([]model.ItemRequestResponse, error) {
	if err := s.requireUser(ctx, requestorID); err != nil {
		return nil, err
	}
	if from < 0 || size < 0 {
		return nil, errs.BadRequest("invalid pagination parameters")
	}
	if size == 0 {
		size = defaultRequestPageSize
	}
	requests, err := s.requests.ListOthers(ctx, requestorID, from, size)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, requests)
}

func (s *RequestService) Get(ctx context.Context, requestID, requesterID int64) (model.ItemRequestResponse, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return model.ItemRequestResponse{}, err
	}
	request, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return model.ItemRequestResponse{}, err
	}
	enriched, err := s.enrich(ctx, []model.ItemRequest{request})
	if err != nil {
		return model.ItemRequestResponse{}, err
	}
	return enriched[0], nil
}

// enrich attaches, via one bulk query, the items whose request
// reference points at each request.
func (s *RequestService) enrich(ctx context.Context, requests []model.ItemRequest) ([]model.ItemRequestResponse, error) {
	if len(requests) == 0 {
		return []model.ItemRequestResponse{}, nil
	}
	requestIDs := make([]int64, 0, len(requests))
	for _, r := range requests {
		requestIDs = append(requestIDs, r.ID)
	}
	items, err := s.items.ListByRequestIDs(ctx, requestIDs)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[int64][]model.ItemForRequest, len(requests))
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}
	resp := make([]model.ItemRequestResponse, 0, len(requests))
	for _, r := range requests {
		itemsFor := byRequest[r.ID]
		if itemsFor == nil {
			itemsFor = []model.ItemForRequest{}
		}
		resp = append(resp, model.ItemRequestResponse{ItemRequest: r, Items: itemsFor})
	}
	return resp, nil
}

func (s *RequestService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NotFound("user not found")
	}
	return nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
	"github.com/shareit/shareit-service/internal/repository"
)

// ItemService owns item CRUD, search, the owner-only last/next booking
// projections and the comment gate.
type ItemService struct {
	log      *zap.Logger
	items    repository.ItemRepository
	users    repository.UserRepository
	bookings repository.BookingRepository
	comments repository.CommentRepository
	requests repository.RequestRepository
}

func NewItemService(
	items repository.ItemRepository,
	users repository.UserRepository,
	bookings repository.BookingRepository,
	comments repository.CommentRepository,
	requests repository.RequestRepository,
	log *zap.Logger,
) *ItemService {
	return &ItemService{
		log:      log.Named("item-svc"),
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
	}
}

func (s *ItemService) Add(ctx context.Context, ownerID int64, req model.CreateItemRequest) (model.Item, error) {
	if _, err := s.users.Get(ctx, ownerID); err != nil {
		return model.Item{}, err
	}
	var requestID *int64
	if req.RequestID != nil {
		// an unknown originating request is dropped, not an error
		if _, err := s.requests.Get(ctx, *req.RequestID); err == nil {
			requestID = req.RequestID
		} else if !errors.Is(err, errs.ErrNotFound) {
			return model.Item{}, err
		} else {
			s.log.Warn("originating request not found", zap.Int64("requestID", *req.RequestID))
		}
	}
	return s.items.Create(ctx, model.Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		OwnerID:     ownerID,
		RequestID:   requestID,
	})
}

// Update applies PATCH-merge semantics: nil or blank fields keep the
// stored value. Only the owner may edit.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, req model.UpdateItemRequest) (model.Item, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return model.Item{}, err
	}
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return model.Item{}, err
	}
	if item.OwnerID != ownerID {
		return model.Item{}, errs.AccessDenied("only the owner can edit an item")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		item.Name = *req.Name
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		item.Description = *req.Description
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	return s.items.Update(ctx, item)
}

// Get returns the item detail view. Booking history stays hidden from
// non-owners: last/next are only populated for the item owner.
func (s *ItemService) Get(ctx context.Context, itemID, requesterID int64) (model.ItemDetails, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return model.ItemDetails{}, err
	}
	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return model.ItemDetails{}, err
	}
	comments, err := s.comments.ListByItem(ctx, itemID)
	if err != nil {
		return model.ItemDetails{}, err
	}

	view := model.ItemView{Item: item}
	if item.OwnerID == requesterID {
		now := time.Now()
		if view.LastBooking, err = s.bookings.LastForItem(ctx, itemID, now); err != nil {
			return model.ItemDetails{}, err
		}
		if view.NextBooking, err = s.bookings.NextForItem(ctx, itemID, now); err != nil {
			return model.ItemDetails{}, err
		}
	}
	return model.ItemDetails{ItemView: view, Comments: comments}, nil
}

// ListByOwner returns all of the owner's items with last/next booking
// projections resolved through a single bulk query.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64) ([]model.ItemView, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.items.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []model.ItemView{}, nil
	}

	itemIDs := make([]int64, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	approved, err := s.bookings.ApprovedForItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]model.ItemView, 0, len(items))
	for _, item := range items {
		last, next := lastNext(approved, item.ID, now)
		views = append(views, model.ItemView{
			Item:        item,
			LastBooking: last,
			NextBooking: next,
		})
	}
	return views, nil
}

// Search finds available items by substring match over name and
// description. Blank text yields an empty result.
func (s *ItemService) Search(ctx context.Context, text string) ([]model.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	return s.items.Search(ctx, text)
}

// AddComment lets a user comment only after an approved booking of
// theirs on the item has finished.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID int64, req model.CreateCommentRequest) (model.CommentResponse, error) {
	if _, err := s.users.Get(ctx, authorID); err != nil {
		return model.CommentResponse{}, err
	}
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return model.CommentResponse{}, err
	}
	has, err := s.bookings.HasFinishedBooking(ctx, itemID, authorID, time.Now())
	if err != nil {
		return model.CommentResponse{}, err
	}
	if !has {
		return model.CommentResponse{}, errs.BadRequest("user has no finished booking for this item")
	}
	return s.comments.Create(ctx, itemID, authorID, req.Text)
}

func (s *ItemService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NotFound("user not found")
	}
	return nil
}

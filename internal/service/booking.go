package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/events"
	"github.com/shareit/shareit-service/internal/model"
	"github.com/shareit/shareit-service/internal/repository"
)

// BookingService validates and persists bookings and drives the
// WAITING -> APPROVED/REJECTED state machine.
type BookingService struct {
	log      *zap.Logger
	bookings repository.BookingRepository
	items    repository.ItemRepository
	users    repository.UserRepository
	events   events.Publisher
}

func NewBookingService(
	bookings repository.BookingRepository,
	items repository.ItemRepository,
	users repository.UserRepository,
	publisher events.Publisher,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		log:      log.Named("booking-svc"),
		bookings: bookings,
		items:    items,
		users:    users,
		events:   publisher,
	}
}

// Create checks the booking preconditions in order, first failure wins.
// The overlap check against existing bookings of any status runs inside
// the repository transaction together with the insert.
func (s *BookingService) Create(ctx context.Context, bookerID int64, req model.CreateBookingRequest) (model.BookingResponse, error) {
	if _, err := s.users.Get(ctx, bookerID); err != nil {
		return model.BookingResponse{}, err
	}
	item, err := s.items.Get(ctx, req.ItemID)
	if err != nil {
		return model.BookingResponse{}, err
	}
	if item.OwnerID == bookerID {
		return model.BookingResponse{}, errs.BadRequest("owner cannot book own item")
	}
	if !item.Available {
		return model.BookingResponse{}, errs.BadRequest("item is not available for booking")
	}
	if !req.End.After(req.Start) {
		return model.BookingResponse{}, errs.BadRequest("booking end must be after start")
	}

	created, err := s.bookings.Create(ctx, model.Booking{
		Start:    req.Start,
		End:      req.End,
		ItemID:   req.ItemID,
		BookerID: bookerID,
	})
	if err != nil {
		return model.BookingResponse{}, err
	}
	s.log.Info("booking created",
		zap.Int64("bookingID", created.ID),
		zap.Int64("itemID", created.ItemID),
		zap.Int64("bookerID", created.BookerID))
	s.events.PublishBooking(ctx, created.Booking)
	return model.NewBookingResponse(created), nil
}

// Decide approves or rejects a WAITING booking on behalf of the item
// owner. The lookup is owner-scoped, so a foreign booking id is
// indistinguishable from a missing one.
func (s *BookingService) Decide(ctx context.Context, bookingID, ownerID int64, approved bool) (model.BookingResponse, error) {
	booking, err := s.bookings.GetForOwner(ctx, bookingID, ownerID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.BookingResponse{}, errs.BadRequest("booking not found or access denied")
		}
		return model.BookingResponse{}, err
	}
	if booking.Status != model.StatusWaiting {
		return model.BookingResponse{}, errs.BadRequest("only waiting bookings can be decided")
	}
	status := model.StatusRejected
	if approved {
		status = model.StatusApproved
	}
	updated, err := s.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return model.BookingResponse{}, err
	}
	s.log.Info("booking decided",
		zap.Int64("bookingID", bookingID), zap.String("status", string(status)))
	s.events.PublishBooking(ctx, updated.Booking)
	return model.NewBookingResponse(updated), nil
}

// Get returns a booking to its booker or to the item owner.
func (s *BookingService) Get(ctx context.Context, bookingID, requesterID int64) (model.BookingResponse, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return model.BookingResponse{}, err
	}
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return model.BookingResponse{}, err
	}
	if requesterID != booking.BookerID && requesterID != booking.OwnerID {
		return model.BookingResponse{}, errs.AccessDenied("only the booker or the item owner may view a booking")
	}
	return model.NewBookingResponse(booking), nil
}

// ListForBooker returns the caller's bookings filtered by state,
// newest start first.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, stateStr string) ([]model.BookingResponse, error) {
	if err := s.requireUser(ctx, bookerID); err != nil {
		return nil, err
	}
	state, err := model.ParseState(stateStr)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByBooker(ctx, bookerID, state, time.Now())
	if err != nil {
		return nil, err
	}
	return model.NewBookingResponses(bookings), nil
}

// ListForOwner returns bookings on the caller's items filtered by
// state, newest start first.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, stateStr string) ([]model.BookingResponse, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	state, err := model.ParseState(stateStr)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByOwner(ctx, ownerID, state, time.Now())
	if err != nil {
		return nil, err
	}
	return model.NewBookingResponses(bookings), nil
}

func (s *BookingService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NotFound("user not found")
	}
	return nil
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/events"
	"github.com/shareit/shareit-service/internal/model"
	"github.com/shareit/shareit-service/internal/service"
)

type env struct {
	store    *memStore
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
}

func newEnv() *env {
	store := newMemStore()
	log := zap.NewExample().Named("test")
	userRepo := &fakeUserRepo{s: store}
	itemRepo := &fakeItemRepo{s: store}
	bookingRepo := &fakeBookingRepo{s: store}
	commentRepo := &fakeCommentRepo{s: store}
	requestRepo := &fakeRequestRepo{s: store}
	return &env{
		store:    store,
		users:    service.NewUserService(userRepo, log),
		items:    service.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, log),
		bookings: service.NewBookingService(bookingRepo, itemRepo, userRepo, events.NopPublisher{}, log),
		requests: service.NewRequestService(requestRepo, itemRepo, userRepo, log),
	}
}

func (e *env) user(t *testing.T, name, email string) model.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), model.CreateUserRequest{Name: name, Email: email})
	require.NoError(t, err)
	return user
}

func (e *env) item(t *testing.T, ownerID int64, name string, available bool) model.Item {
	t.Helper()
	item, err := e.items.Add(context.Background(), ownerID, model.CreateItemRequest{
		Name:        name,
		Description: name + " description",
		Available:   &available,
	})
	require.NoError(t, err)
	return item
}

func (e *env) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) model.BookingResponse {
	t.Helper()
	booking, err := e.bookings.Create(context.Background(), bookerID, model.CreateBookingRequest{
		ItemID: itemID,
		Start:  start,
		End:    end,
	})
	require.NoError(t, err)
	return booking
}

func (e *env) approve(t *testing.T, bookingID, ownerID int64) model.BookingResponse {
	t.Helper()
	booking, err := e.bookings.Decide(context.Background(), bookingID, ownerID, true)
	require.NoError(t, err)
	return booking
}

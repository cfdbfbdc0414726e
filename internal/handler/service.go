package handler

import (
	"context"

	"github.com/shareit/shareit-service/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type UserService interface {
	Create(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	Update(ctx context.Context, userID int64, req model.UpdateUserRequest) (model.User, error)
	Get(ctx context.Context, userID int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, userID int64) error
}

type ItemService interface {
	Add(ctx context.Context, ownerID int64, req model.CreateItemRequest) (model.Item, error)
	Update(ctx context.Context, ownerID, itemID int64, req model.UpdateItemRequest) (model.Item, error)
	Get(ctx context.Context, itemID, requesterID int64) (model.ItemDetails, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.ItemView, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	AddComment(ctx context.Context, itemID, authorID int64, req model.CreateCommentRequest) (model.CommentResponse, error)
}

type BookingService interface {
	Create(ctx context.Context, bookerID int64, req model.CreateBookingRequest) (model.BookingResponse, error)
	Decide(ctx context.Context, bookingID, ownerID int64, approved bool) (model.BookingResponse, error)
	Get(ctx context.Context, bookingID, requesterID int64) (model.BookingResponse, error)
	ListForBooker(ctx context.Context, bookerID int64, state string) ([]model.BookingResponse, error)
	ListForOwner(ctx context.Context, ownerID int64, state string) ([]model.BookingResponse, error)
}

type RequestService interface {
	Create(ctx context.Context, requestorID int64, req model.CreateItemRequestRequest) (model.ItemRequestResponse, error)
	ListOwn(ctx context.Context, requestorID int64) ([]model.ItemRequestResponse, error)
	ListOthers(ctx context.Context, requestorID int64, from, size int) ([]model.ItemRequestResponse, error)
	Get(ctx context.Context, requestID, requesterID int64) (model.ItemRequestResponse, error)
}

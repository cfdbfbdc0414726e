package model

import (
	"time"
)

type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateUserRequest carries a partial update; nil fields keep the
// stored value.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Available   bool   `json:"available" db:"available"`
	OwnerID     int64  `json:"ownerId" db:"owner_id"`
	RequestID   *int64 `json:"requestId,omitempty" db:"request_id"`
}

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest carries a partial update; nil or blank fields keep
// the stored value.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// ItemView is the owner-facing item shape: the item plus its
// last/next approved bookings.
type ItemView struct {
	Item
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
}

// ItemDetails extends ItemView with the item's comments.
type ItemDetails struct {
	ItemView
	Comments []CommentResponse `json:"comments"`
}

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Booking struct {
	ID       int64     `json:"id" db:"id"`
	Start    time.Time `json:"start" db:"start_date"`
	End      time.Time `json:"end" db:"end_date"`
	ItemID   int64     `json:"-" db:"item_id"`
	BookerID int64     `json:"-" db:"booker_id"`
	Status   Status    `json:"status" db:"status"`
}

// BookingDetails is the booking row joined with item owner and the
// item/booker names.
type BookingDetails struct {
	Booking
	OwnerID    int64  `json:"-" db:"owner_id"`
	ItemName   string `json:"-" db:"item_name"`
	BookerName string `json:"-" db:"booker_name"`
}

// BookingShort is the projection shape embedded into item views.
type BookingShort struct {
	ID       int64     `json:"id" db:"id"`
	BookerID int64     `json:"bookerId" db:"booker_id"`
	Start    time.Time `json:"start" db:"start_date"`
	End      time.Time `json:"end" db:"end_date"`
}

type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" validate:"required"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
}

type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Booker UserShort `json:"booker"`
	Item   ItemShort `json:"item"`
}

func NewBookingResponse(d BookingDetails) BookingResponse {
	return BookingResponse{
		ID:     d.ID,
		Start:  d.Start,
		End:    d.End,
		Status: d.Status,
		Booker: UserShort{ID: d.BookerID, Name: d.BookerName},
		Item:   ItemShort{ID: d.ItemID, Name: d.ItemName},
	}
}

func NewBookingResponses(details []BookingDetails) []BookingResponse {
	resp := make([]BookingResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, NewBookingResponse(d))
	}
	return resp
}

type Comment struct {
	ID       int64     `json:"id" db:"id"`
	Text     string    `json:"text" db:"text"`
	ItemID   int64     `json:"-" db:"item_id"`
	AuthorID int64     `json:"-" db:"author_id"`
	Created  time.Time `json:"created" db:"created"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

type CommentResponse struct {
	ID         int64     `json:"id" db:"id"`
	Text       string    `json:"text" db:"text"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Created    time.Time `json:"created" db:"created"`
}

type ItemRequest struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	RequestorID int64     `json:"requestorId" db:"requestor_id"`
	Created     time.Time `json:"created" db:"created"`
}

type CreateItemRequestRequest struct {
	Description string `json:"description" validate:"required"`
}

// ItemForRequest is the item shape aggregated under a request.
type ItemForRequest struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	OwnerID   int64  `json:"ownerId" db:"owner_id"`
	RequestID int64  `json:"requestId" db:"request_id"`
}

type ItemRequestResponse struct {
	ItemRequest
	Items []ItemForRequest `json:"items"`
}

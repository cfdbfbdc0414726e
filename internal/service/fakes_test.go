package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
)

// memStore is a shared in-memory backing for the fake repositories, so
// service tests run against the same repository interfaces the real
// postgres implementations satisfy.
type memStore struct {
	mu       sync.Mutex
	users    map[int64]model.User
	items    map[int64]model.Item
	bookings map[int64]model.Booking
	comments map[int64]model.Comment
	requests map[int64]model.ItemRequest
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]model.User),
		items:    make(map[int64]model.Item),
		bookings: make(map[int64]model.Booking),
		comments: make(map[int64]model.Comment),
		requests: make(map[int64]model.ItemRequest),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, name, email string) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return model.User{}, errs.Conflict("email " + email + " is already in use")
		}
	}
	user := model.User{ID: r.s.id(), Name: name, Email: email}
	r.s.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user model.User) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return model.User{}, errs.NotFound("user not found")
	}
	for _, u := range r.s.users {
		if u.Email == user.Email && u.ID != user.ID {
			return model.User{}, errs.Conflict("email " + user.Email + " is already in use")
		}
	}
	r.s.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Get(_ context.Context, id int64) (model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return model.User{}, errs.NotFound("user not found")
	}
	return user, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return errs.NotFound("user not found")
	}
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

type fakeItemRepo struct{ s *memStore }

func (r *fakeItemRepo) Create(_ context.Context, item model.Item) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item.ID = r.s.id()
	r.s.items[item.ID] = item
	return item, nil
}

func (r *fakeItemRepo) Update(_ context.Context, item model.Item) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return model.Item{}, errs.NotFound("item not found")
	}
	r.s.items[item.ID] = item
	return item, nil
}

func (r *fakeItemRepo) Get(_ context.Context, id int64) (model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return model.Item{}, errs.NotFound("item not found")
	}
	return item, nil
}

func (r *fakeItemRepo) ListByOwner(_ context.Context, ownerID int64) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]model.Item, 0)
	for _, item := range r.s.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeItemRepo) Search(_ context.Context, text string) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]model.Item, 0)
	for _, item := range r.s.items {
		if item.Available && (containsFold(item.Name, text) || containsFold(item.Description, text)) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *fakeItemRepo) ListByRequestIDs(_ context.Context, requestIDs []int64) ([]model.ItemForRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[int64]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	items := make([]model.ItemForRequest, 0)
	for _, item := range r.s.items {
		if item.RequestID != nil && wanted[*item.RequestID] {
			items = append(items, model.ItemForRequest{
				ID:        item.ID,
				Name:      item.Name,
				OwnerID:   item.OwnerID,
				RequestID: *item.RequestID,
			})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

type fakeBookingRepo struct{ s *memStore }

func (r *fakeBookingRepo) details(b model.Booking) model.BookingDetails {
	item := r.s.items[b.ItemID]
	return model.BookingDetails{
		Booking:    b,
		OwnerID:    item.OwnerID,
		ItemName:   item.Name,
		BookerName: r.s.users[b.BookerID].Name,
	}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking model.Booking) (model.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[booking.ItemID]; !ok {
		return model.BookingDetails{}, errs.NotFound("item not found")
	}
	for _, b := range r.s.bookings {
		if b.ItemID == booking.ItemID && b.End.After(booking.Start) && b.Start.Before(booking.End) {
			return model.BookingDetails{}, errs.Conflict("item is already booked for these dates")
		}
	}
	booking.ID = r.s.id()
	booking.Status = model.StatusWaiting
	r.s.bookings[booking.ID] = booking
	return r.details(booking), nil
}

func (r *fakeBookingRepo) Get(_ context.Context, id int64) (model.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking, ok := r.s.bookings[id]
	if !ok {
		return model.BookingDetails{}, errs.NotFound("booking not found")
	}
	return r.details(booking), nil
}

func (r *fakeBookingRepo) GetForOwner(_ context.Context, id, ownerID int64) (model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking, ok := r.s.bookings[id]
	if !ok || r.s.items[booking.ItemID].OwnerID != ownerID {
		return model.Booking{}, errs.NotFound("booking not found")
	}
	return booking, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status model.Status) (model.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking, ok := r.s.bookings[id]
	if !ok {
		return model.BookingDetails{}, errs.NotFound("booking not found")
	}
	booking.Status = status
	r.s.bookings[id] = booking
	return r.details(booking), nil
}

func (r *fakeBookingRepo) list(match func(model.Booking) bool, state model.State, now time.Time) []model.BookingDetails {
	out := make([]model.BookingDetails, 0)
	for _, b := range r.s.bookings {
		if !match(b) {
			continue
		}
		switch state {
		case model.StateCurrent:
			if b.Start.After(now) || !b.End.After(now) {
				continue
			}
		case model.StatePast:
			if !b.End.Before(now) {
				continue
			}
		case model.StateFuture:
			if !b.Start.After(now) {
				continue
			}
		case model.StateWaiting:
			if b.Status != model.StatusWaiting {
				continue
			}
		case model.StateRejected:
			if b.Status != model.StatusRejected {
				continue
			}
		}
		out = append(out, r.details(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.After(out[j].Start) })
	return out
}

func (r *fakeBookingRepo) ListByBooker(_ context.Context, bookerID int64, state model.State, now time.Time) ([]model.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(b model.Booking) bool { return b.BookerID == bookerID }, state, now), nil
}

func (r *fakeBookingRepo) ListByOwner(_ context.Context, ownerID int64, state model.State, now time.Time) ([]model.BookingDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(b model.Booking) bool { return r.s.items[b.ItemID].OwnerID == ownerID }, state, now), nil
}

func (r *fakeBookingRepo) LastForItem(_ context.Context, itemID int64, now time.Time) (*model.BookingShort, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var last *model.Booking
	for _, b := range r.s.bookings {
		b := b
		if b.ItemID != itemID || b.Status != model.StatusApproved || !b.End.Before(now) {
			continue
		}
		if last == nil || b.End.After(last.End) {
			last = &b
		}
	}
	return short(last), nil
}

func (r *fakeBookingRepo) NextForItem(_ context.Context, itemID int64, now time.Time) (*model.BookingShort, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var next *model.Booking
	for _, b := range r.s.bookings {
		b := b
		if b.ItemID != itemID || b.Status != model.StatusApproved || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = &b
		}
	}
	return short(next), nil
}

func (r *fakeBookingRepo) ApprovedForItems(_ context.Context, itemIDs []int64) ([]model.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	out := make([]model.Booking, 0)
	for _, b := range r.s.bookings {
		if b.Status == model.StatusApproved && wanted[b.ItemID] {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *fakeBookingRepo) HasFinishedBooking(_ context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.ItemID == itemID && b.BookerID == bookerID && b.Status == model.StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func short(b *model.Booking) *model.BookingShort {
	if b == nil {
		return nil
	}
	return &model.BookingShort{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}

type fakeCommentRepo struct{ s *memStore }

func (r *fakeCommentRepo) Create(_ context.Context, itemID, authorID int64, text string) (model.CommentResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment := model.Comment{
		ID:       r.s.id(),
		Text:     text,
		ItemID:   itemID,
		AuthorID: authorID,
		Created:  time.Now(),
	}
	r.s.comments[comment.ID] = comment
	return model.CommentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: r.s.users[authorID].Name,
		Created:    comment.Created,
	}, nil
}

func (r *fakeCommentRepo) ListByItem(_ context.Context, itemID int64) ([]model.CommentResponse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.CommentResponse, 0)
	for _, c := range r.s.comments {
		if c.ItemID == itemID {
			out = append(out, model.CommentResponse{
				ID:         c.ID,
				Text:       c.Text,
				AuthorName: r.s.users[c.AuthorID].Name,
				Created:    c.Created,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeRequestRepo struct{ s *memStore }

func (r *fakeRequestRepo) Create(_ context.Context, requestorID int64, description string) (model.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req := model.ItemRequest{
		ID:          r.s.id(),
		Description: description,
		RequestorID: requestorID,
		Created:     time.Now(),
	}
	r.s.requests[req.ID] = req
	return req, nil
}

func (r *fakeRequestRepo) Get(_ context.Context, id int64) (model.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return model.ItemRequest{}, errs.NotFound("request not found")
	}
	return req, nil
}

func (r *fakeRequestRepo) ListByRequestor(_ context.Context, requestorID int64) ([]model.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.ItemRequest, 0)
	for _, req := range r.s.requests {
		if req.RequestorID == requestorID {
			out = append(out, req)
		}
	}
	sortRequestsDesc(out)
	return out, nil
}

func (r *fakeRequestRepo) ListOthers(_ context.Context, excludeRequestorID int64, from, size int) ([]model.ItemRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.ItemRequest, 0)
	for _, req := range r.s.requests {
		if req.RequestorID != excludeRequestorID {
			out = append(out, req)
		}
	}
	sortRequestsDesc(out)
	if from >= len(out) {
		return []model.ItemRequest{}, nil
	}
	out = out[from:]
	if size < len(out) {
		out = out[:size]
	}
	return out, nil
}

func sortRequestsDesc(reqs []model.ItemRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].Created.Equal(reqs[j].Created) {
			return reqs[i].ID > reqs[j].ID
		}
		return reqs[i].Created.After(reqs[j].Created)
	})
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	lower := func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}
outer:
	for i := 0; i+len(n) <= len(h); i++ {
		for j := range n {
			if lower(h[i+j]) != lower(n[j]) {
				continue outer
			}
		}
		return true
	}
	return false
}

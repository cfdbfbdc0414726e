package service

import (
	"time"

	"github.com/shareit/shareit-service/internal/model"
)

// lastNext selects, among approved bookings of one item, the booking
// with the latest end still before now and the one with the earliest
// start still after now. Either may be absent.
func lastNext(approved []model.Booking, itemID int64, now time.Time) (last, next *model.BookingShort) {
	for i := range approved {
		b := approved[i]
		if b.ItemID != itemID {
			continue
		}
		if b.End.Before(now) {
			if last == nil || b.End.After(last.End) {
				last = toShort(b)
			}
		}
		if b.Start.After(now) {
			if next == nil || b.Start.Before(next.Start) {
				next = toShort(b)
			}
		}
	}
	return last, next
}

func toShort(b model.Booking) *model.BookingShort {
	return &model.BookingShort{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

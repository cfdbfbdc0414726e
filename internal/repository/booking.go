package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
)

type BookingRepository interface {
	Create(ctx context.Context, booking model.Booking) (model.BookingDetails, error)
	Get(ctx context.Context, id int64) (model.BookingDetails, error)
	GetForOwner(ctx context.Context, id, ownerID int64) (model.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (model.BookingDetails, error)
	ListByBooker(ctx context.Context, bookerID int64, state model.State, now time.Time) ([]model.BookingDetails, error)
	ListByOwner(ctx context.Context, ownerID int64, state model.State, now time.Time) ([]model.BookingDetails, error)
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*model.BookingShort, error)
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*model.BookingShort, error)
	ApprovedForItems(ctx context.Context, itemIDs []int64) ([]model.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type bookingRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookingRepository(db *sqlx.DB, log *zap.Logger) *bookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.Named("booking-repo"),
	}
}

func bookingDetailsQB() sq.SelectBuilder {
	return qb.Select(
		"b.id", "b.start_date", "b.end_date", "b.item_id", "b.booker_id", "b.status",
		"i.owner_id as owner_id", "i.name as item_name", "u.name as booker_name").
		From(bookingsTableName + " b").
		Join(itemsTableName + " i on i.id = b.item_id").
		Join(usersTableName + " u on u.id = b.booker_id")
}

// Create inserts a WAITING booking after re-checking the overlap rule
// inside a transaction. The item row is locked for update so two
// concurrent creates on the same item serialize on the check.
func (r *bookingRepository) Create(ctx context.Context, booking model.Booking) (model.BookingDetails, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.BookingDetails{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var itemID int64
	if err := tx.GetContext(ctx, &itemID,
		`select id from items where id = $1 for update`, booking.ItemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingDetails{}, errs.NotFound("item not found")
		}
		return model.BookingDetails{}, err
	}

	var overlapping int
	if err := tx.GetContext(ctx, &overlapping,
		`select count(*) from bookings
		 where item_id = $1 and end_date > $2 and start_date < $3`,
		booking.ItemID, booking.Start, booking.End); err != nil {
		return model.BookingDetails{}, err
	}
	if overlapping > 0 {
		return model.BookingDetails{}, errs.Conflict("item is already booked for these dates")
	}

	q, args, err := qb.Insert(bookingsTableName).
		Columns("start_date", "end_date", "item_id", "booker_id", "status").
		Values(booking.Start, booking.End, booking.ItemID, booking.BookerID, model.StatusWaiting).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.BookingDetails{}, err
	}
	var id int64
	if err := tx.GetContext(ctx, &id, q, args...); err != nil {
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.BookingDetails{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.BookingDetails{}, err
	}
	return r.Get(ctx, id)
}

func (r *bookingRepository) Get(ctx context.Context, id int64) (model.BookingDetails, error) {
	q, args, err := bookingDetailsQB().
		Where(sq.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return model.BookingDetails{}, err
	}
	var booking model.BookingDetails
	if err := r.db.GetContext(ctx, &booking, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookingDetails{}, errs.NotFound("booking not found")
		}
		return model.BookingDetails{}, err
	}
	return booking, nil
}

// GetForOwner resolves a booking only when the caller owns the booked
// item; a miss does not distinguish "absent" from "not yours".
func (r *bookingRepository) GetForOwner(ctx context.Context, id, ownerID int64) (model.Booking, error) {
	q, args, err := qb.Select("b.id", "b.start_date", "b.end_date", "b.item_id", "b.booker_id", "b.status").
		From(bookingsTableName + " b").
		Join(itemsTableName + " i on i.id = b.item_id").
		Where(sq.Eq{"b.id": id}).
		Where(sq.Eq{"i.owner_id": ownerID}).
		ToSql()
	if err != nil {
		return model.Booking{}, err
	}
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, errs.NotFound("booking not found")
		}
		return model.Booking{}, err
	}
	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status model.Status) (model.BookingDetails, error) {
	q, args, err := qb.Update(bookingsTableName).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.BookingDetails{}, err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return model.BookingDetails{}, err
	}
	return r.Get(ctx, id)
}

func applyState(q sq.SelectBuilder, state model.State, now time.Time) sq.SelectBuilder {
	switch state {
	case model.StateCurrent:
		q = q.Where(sq.LtOrEq{"b.start_date": now}).Where(sq.Gt{"b.end_date": now})
	case model.StatePast:
		q = q.Where(sq.Lt{"b.end_date": now})
	case model.StateFuture:
		q = q.Where(sq.Gt{"b.start_date": now})
	case model.StateWaiting:
		q = q.Where(sq.Eq{"b.status": model.StatusWaiting})
	case model.StateRejected:
		q = q.Where(sq.Eq{"b.status": model.StatusRejected})
	}
	return q
}

func (r *bookingRepository) ListByBooker(ctx context.Context, bookerID int64, state model.State, now time.Time) ([]model.BookingDetails, error) {
	q, args, err := applyState(bookingDetailsQB().Where(sq.Eq{"b.booker_id": bookerID}), state, now).
		OrderBy("b.start_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	bookings := make([]model.BookingDetails, 0)
	if err := r.db.SelectContext(ctx, &bookings, q, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, state model.State, now time.Time) ([]model.BookingDetails, error) {
	q, args, err := applyState(bookingDetailsQB().Where(sq.Eq{"i.owner_id": ownerID}), state, now).
		OrderBy("b.start_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	bookings := make([]model.BookingDetails, 0)
	if err := r.db.SelectContext(ctx, &bookings, q, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*model.BookingShort, error) {
	q, args, err := qb.Select("id", "booker_id", "start_date", "end_date").
		From(bookingsTableName).
		Where(sq.Eq{"item_id": itemID, "status": model.StatusApproved}).
		Where(sq.Lt{"end_date": now}).
		OrderBy("end_date desc").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	var booking model.BookingShort
	if err := r.db.GetContext(ctx, &booking, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*model.BookingShort, error) {
	q, args, err := qb.Select("id", "booker_id", "start_date", "end_date").
		From(bookingsTableName).
		Where(sq.Eq{"item_id": itemID, "status": model.StatusApproved}).
		Where(sq.Gt{"start_date": now}).
		OrderBy("start_date asc").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	var booking model.BookingShort
	if err := r.db.GetContext(ctx, &booking, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ApprovedForItems(ctx context.Context, itemIDs []int64) ([]model.Booking, error) {
	if len(itemIDs) == 0 {
		return []model.Booking{}, nil
	}
	q, args, err := qb.Select("id", "start_date", "end_date", "item_id", "booker_id", "status").
		From(bookingsTableName).
		Where(sq.Eq{"item_id": itemIDs, "status": model.StatusApproved}).
		OrderBy("start_date asc").
		ToSql()
	if err != nil {
		return nil, err
	}
	bookings := make([]model.Booking, 0)
	if err := r.db.SelectContext(ctx, &bookings, q, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var has bool
	err := r.db.GetContext(ctx, &has,
		`select exists(
			select 1 from bookings
			where item_id = $1 and booker_id = $2 and status = $3 and end_date < $4)`,
		itemID, bookerID, model.StatusApproved, now)
	return has, err
}

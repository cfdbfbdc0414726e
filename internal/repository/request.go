package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
)

type RequestRepository interface {
	Create(ctx context.Context, requestorID int64, description string) (model.ItemRequest, error)
	Get(ctx context.Context, id int64) (model.ItemRequest, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error)
	ListOthers(ctx context.Context, excludeRequestorID int64, from, size int) ([]model.ItemRequest, error)
}

type requestRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRequestRepository(db *sqlx.DB, log *zap.Logger) *requestRepository {
	return &requestRepository{
		db:  db,
		log: log.Named("request-repo"),
	}
}

const requestColumns = "id, description, requestor_id, created"

func (r *requestRepository) Create(ctx context.Context, requestorID int64, description string) (model.ItemRequest, error) {
	q, args, err := qb.Insert(requestsTableName).
		Columns("description", "requestor_id").
		Values(description, requestorID).
		Suffix("returning " + requestColumns).
		ToSql()
	if err != nil {
		return model.ItemRequest{}, err
	}
	var req model.ItemRequest
	if err := r.db.GetContext(ctx, &req, q, args...); err != nil {
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.ItemRequest{}, err
	}
	return req, nil
}

func (r *requestRepository) Get(ctx context.Context, id int64) (model.ItemRequest, error) {
	q, args, err := qb.Select(requestColumns).
		From(requestsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.ItemRequest{}, err
	}
	var req model.ItemRequest
	if err := r.db.GetContext(ctx, &req, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ItemRequest{}, errs.NotFound("request not found")
		}
		return model.ItemRequest{}, err
	}
	return req, nil
}

func (r *requestRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]model.ItemRequest, error) {
	q, args, err := qb.Select(requestColumns).
		From(requestsTableName).
		Where(sq.Eq{"requestor_id": requestorID}).
		OrderBy("created desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	requests := make([]model.ItemRequest, 0)
	if err := r.db.SelectContext(ctx, &requests, q, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) ListOthers(ctx context.Context, excludeRequestorID int64, from, size int) ([]model.ItemRequest, error) {
	q, args, err := qb.Select(requestColumns).
		From(requestsTableName).
		Where(sq.NotEq{"requestor_id": excludeRequestorID}).
		OrderBy("created desc").
		Offset(uint64(from)).
		Limit(uint64(size)).
		ToSql()
	if err != nil {
		return nil, err
	}
	requests := make([]model.ItemRequest, 0)
	if err := r.db.SelectContext(ctx, &requests, q, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

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

type ItemRepository interface {
	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, item model.Item) (model.Item, error)
	Get(ctx context.Context, id int64) (model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.ItemForRequest, error)
}

type itemRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewItemRepository(db *sqlx.DB, log *zap.Logger) *itemRepository {
	return &itemRepository{
		db:  db,
		log: log.Named("item-repo"),
	}
}

const itemColumns = "id, name, description, available, owner_id, request_id"

func (r *itemRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	q, args, err := qb.Insert(itemsTableName).
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(item.Name, item.Description, item.Available, item.OwnerID, item.RequestID).
		Suffix("returning " + itemColumns).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var created model.Item
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		r.log.Error("Create", zap.String("q", q), zap.Any("args", args))
		return model.Item{}, err
	}
	return created, nil
}

func (r *itemRepository) Update(ctx context.Context, item model.Item) (model.Item, error) {
	q, args, err := qb.Update(itemsTableName).
		Set("name", item.Name).
		Set("description", item.Description).
		Set("available", item.Available).
		Where(sq.Eq{"id": item.ID}).
		Suffix("returning " + itemColumns).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var updated model.Item
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.NotFound("item not found")
		}
		return model.Item{}, err
	}
	return updated, nil
}

func (r *itemRepository) Get(ctx context.Context, id int64) (model.Item, error) {
	q, args, err := qb.Select(itemColumns).
		From(itemsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Item{}, err
	}
	var item model.Item
	if err := r.db.GetContext(ctx, &item, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, errs.NotFound("item not found")
		}
		return model.Item{}, err
	}
	return item, nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	q, args, err := qb.Select(itemColumns).
		From(itemsTableName).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches available items whose name or description contains the
// text, case-insensitively. Blank text is handled by the service.
func (r *itemRepository) Search(ctx context.Context, text string) ([]model.Item, error) {
	pattern := "%" + text + "%"
	q, args, err := qb.Select(itemColumns).
		From(itemsTableName).
		Where(sq.Eq{"available": true}).
		Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.ItemForRequest, error) {
	if len(requestIDs) == 0 {
		return []model.ItemForRequest{}, nil
	}
	q, args, err := qb.Select("id", "name", "owner_id", "request_id").
		From(itemsTableName).
		Where(sq.Eq{"request_id": requestIDs}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.ItemForRequest, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, itemID, authorID int64, text string) (model.CommentResponse, error)
	ListByItem(ctx context.Context, itemID int64) ([]model.CommentResponse, error)
}

type commentRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewCommentRepository(db *sqlx.DB, log *zap.Logger) *commentRepository {
	return &commentRepository{
		db:  db,
		log: log.Named("comment-repo"),
	}
}

func (r *commentRepository) Create(ctx context.Context, itemID, authorID int64, text string) (model.CommentResponse, error) {
	q := `
	with inserted as (
		insert into comments (text, item_id, author_id)
		values ($1, $2, $3)
		returning id, text, author_id, created
	)
	select c.id, c.text, u.name as author_name, c.created
	from inserted c
	join users u on u.id = c.author_id`

	var comment model.CommentResponse
	if err := r.db.GetContext(ctx, &comment, q, text, itemID, authorID); err != nil {
		r.log.Error("Create", zap.String("q", q), zap.Error(err))
		return model.CommentResponse{}, err
	}
	return comment, nil
}

func (r *commentRepository) ListByItem(ctx context.Context, itemID int64) ([]model.CommentResponse, error) {
	q, args, err := qb.Select("c.id", "c.text", "u.name as author_name", "c.created").
		From(commentsTableName + " c").
		Join(usersTableName + " u on u.id = c.author_id").
		Where(sq.Eq{"c.item_id": itemID}).
		OrderBy("c.created").
		ToSql()
	if err != nil {
		return nil, err
	}
	comments := make([]model.CommentResponse, 0)
	if err := r.db.SelectContext(ctx, &comments, q, args...); err != nil {
		return nil, err
	}
	return comments, nil
}

package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, name, email string) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) *userRepository {
	return &userRepository{
		db:  db,
		log: log.Named("user-repo"),
	}
}

// isUniqueViolation reports whether err is the postgres unique-constraint
// error, which the users.email index raises on duplicates.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *userRepository) Create(ctx context.Context, name, email string) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("name", "email").
		Values(name, email).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.Conflict("email " + email + " is already in use")
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Update(usersTableName).
		Set("name", user.Name).
		Set("email", user.Email).
		Where(sq.Eq{"id": user.ID}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var updated model.User
	if err := r.db.GetContext(ctx, &updated, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.Conflict("email " + user.Email + " is already in use")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.NotFound("user not found")
		}
		return model.User{}, err
	}
	return updated, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (model.User, error) {
	q, args, err := qb.Select("id", "name", "email").
		From(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.NotFound("user not found")
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	q, args, err := qb.Select("id", "name", "email").
		From(usersTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0)
	if err := r.db.SelectContext(ctx, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	q, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`select exists(select 1 from users where id = $1)`, id)
	return exists, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q, args, err := qb.Select("id", "name", "email").
		From(usersTableName).
		Where(sq.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

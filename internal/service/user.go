package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shareit/shareit-service/internal/errs"
	"github.com/shareit/shareit-service/internal/model"
	"github.com/shareit/shareit-service/internal/repository"
)

type UserService struct {
	log   *zap.Logger
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		log:   log.Named("user-svc"),
		users: users,
	}
}

func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	user, err := s.users.Create(ctx, req.Name, req.Email)
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user registered", zap.Int64("userID", user.ID))
	return user, nil
}

// Update merges non-nil fields into the stored user. A new email must
// not belong to another user.
func (s *UserService) Update(ctx context.Context, userID int64, req model.UpdateUserRequest) (model.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if req.Email != nil && *req.Email != user.Email {
		holder, err := s.users.FindByEmail(ctx, *req.Email)
		if err != nil {
			return model.User{}, err
		}
		if holder != nil && holder.ID != userID {
			return model.User{}, errs.Conflict("email " + *req.Email + " is already in use")
		}
		user.Email = *req.Email
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = *req.Name
	}
	return s.users.Update(ctx, user)
}

func (s *UserService) Get(ctx context.Context, userID int64) (model.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Int64("userID", userID))
	return nil
}

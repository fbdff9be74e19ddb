// api/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

// IUserService defines the interface for user operations
type IUserService interface {
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUser(ctx context.Context, userID int) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

// UserLookup answers whether a user exists, locally or across the network.
type UserLookup interface {
	UserExists(ctx context.Context, userID int) (bool, error)
}

// UserService handles business logic for user operations
type UserService struct {
	userDAO        *dao.UserDAO
	reader         *CacheAside[model.User]
	validationUtil *util.ValidationUtil
}

var (
	_ IUserService = &UserService{}
	_ UserLookup   = &UserService{}
)

func NewUserService(userDAO *dao.UserDAO, reader *CacheAside[model.User], validationUtil *util.ValidationUtil) *UserService {
	return &UserService{
		userDAO:        userDAO,
		reader:         reader,
		validationUtil: validationUtil,
	}
}

func (s *UserService) CreateUser(ctx context.Context, user model.User) (*model.User, error) {
	if err := s.validationUtil.ValidateStruct(user); err != nil {
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrInvalidUserData, err)
	}
	user.ID = 0

	created, err := s.userDAO.Create(ctx, user)
	if err != nil {
		logger.Error("Error creating user", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *UserService) GetUser(ctx context.Context, userID int) (*model.User, error) {
	return s.reader.Get(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userDAO.List(ctx)
}

func (s *UserService) UserExists(ctx context.Context, userID int) (bool, error) {
	_, err := s.userDAO.Get(ctx, userID)
	if errors.Is(err, fleet_errors.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

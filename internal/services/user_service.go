package services

import (
	"context"
	"strings"

	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/repositories"
	"campusjobs_backend/internal/services/dto"
	"campusjobs_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	// ResolveActor превращает id из токена в Actor; пустой id - аноним
	ResolveActor(ctx context.Context, db *gorm.DB, userID string) (auth.Actor, error)
	GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) ResolveActor(ctx context.Context, db *gorm.DB, userID string) (auth.Actor, error) {
	if userID == "" {
		return auth.Anonymous{}, nil
	}
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		// токен подписан, но пользователя уже нет
		return nil, notFoundOr(err, repositories.ErrUserNotFound, apperrors.ErrInvalidToken)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}
	return auth.ActorFromUser(user), nil
}

func (s *UserServiceImpl) GetMe(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrUserNotFound, apperrors.ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *UserServiceImpl) UpdateMe(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, notFoundOr(err, repositories.ErrUserNotFound, apperrors.ErrUserNotFound)
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}

	if err := s.userRepo.UpdateContact(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"spark-journal-be/internal/dto"
	"spark-journal-be/internal/repository/specification"
	"spark-journal-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateFullName(ctx context.Context, userId uuid.UUID, fullName string) error
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewUserService(uowFactory unitofwork.RepositoryFactory) IUserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	res := &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}

	// Avatar rides on the provider row when the account came from OAuth.
	provider, err := uow.UserRepository().FindUserProvider(ctx, specification.UserOwnedBy{UserID: userId})
	if err == nil && provider != nil {
		res.AvatarURL = provider.AvatarURL
	}

	return res, nil
}

func (s *userService) UpdateFullName(ctx context.Context, userId uuid.UUID, fullName string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	user.FullName = fullName
	user.UpdatedAt = time.Now()
	return uow.UserRepository().Update(ctx, user)
}

func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().Delete(ctx, userId)
}

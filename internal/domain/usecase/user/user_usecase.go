package user

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
)

// UserUseCase implements the user business logic
type UserUseCase struct {
	userRepo     persistence.UserRepository
	hasher       coreport.PasswordHasher
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewUserUseCase creates a new user use case instance
func NewUserUseCase(
	userRepo persistence.UserRepository,
	hasher coreport.PasswordHasher,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) usecase.UserUseCase {
	return &UserUseCase{
		userRepo:     userRepo,
		hasher:       hasher,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetUser returns a user by id
func (u *UserUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errs.ErrUserNotFound
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

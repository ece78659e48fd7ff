package usecase

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// UserUseCase defines user registration operations
type UserUseCase interface {
	// Register validates, hashes the password and stores a new user
	Register(ctx context.Context, reg entity.UserRegistration) (*entity.User, error)

	// Authenticate checks a mobile number and password
	Authenticate(ctx context.Context, mobileNumber, password string) (*entity.User, error)

	// GetUser returns a user by id
	GetUser(ctx context.Context, userID string) (*entity.User, error)
}

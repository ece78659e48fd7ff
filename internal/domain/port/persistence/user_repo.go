package persistence

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// UserRepository defines methods to interact with registered users
type UserRepository interface {
	// Create stores a new user
	//
	// Possible errors:
	// - ErrDuplicateUser: If email, mobile number, BVN or NIN is already registered
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// FindByLookupKey resolves a user by id, email or mobile number
	//
	// Possible errors:
	// - ErrUserNotFound: If no user matches the key
	// - ErrDatabaseConnection: If database connection fails
	FindByLookupKey(ctx context.Context, key string) (*entity.User, error)

	// FindConflicting returns users sharing any of the unique identity fields
	FindConflicting(ctx context.Context, email, mobileNumber, bvn, nin string) ([]*entity.User, error)
}

package user

import (
	"context"
	"errors"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

// Authenticate checks a mobile number and password. Unknown numbers and
// wrong passwords both yield ErrInvalidCredentials.
func (u *UserUseCase) Authenticate(ctx context.Context, mobileNumber, password string) (*entity.User, error) {
	mobileNumber = strings.TrimSpace(mobileNumber)
	if mobileNumber == "" || password == "" {
		return nil, errs.ErrInvalidCredentials
	}

	user, err := u.userRepo.FindByLookupKey(ctx, mobileNumber)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.MobileNumber != mobileNumber {
		return nil, errs.ErrInvalidCredentials
	}

	if err := u.hasher.Compare(user.PasswordHash, password); err != nil {
		u.logger.Info("Authentication failed", map[string]any{
			"user_id": user.ID,
		})
		return nil, errs.ErrInvalidCredentials
	}
	return user, nil
}

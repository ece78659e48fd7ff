package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

// Register validates a registration, hashes the password and stores the user
func (u *UserUseCase) Register(ctx context.Context, reg entity.UserRegistration) (*entity.User, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	conflicts, err := u.userRepo.FindConflicting(ctx, reg.Email, reg.MobileNumber, reg.BVN, reg.NIN)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		fields := conflictingFields(conflicts, reg)
		u.logger.Info("Registration conflicts with an existing user", map[string]any{
			"email":  reg.Email,
			"fields": fields,
		})
		return nil, fmt.Errorf("%w: %s already registered", errs.ErrDuplicateUser, strings.Join(fields, ", "))
	}

	hash, err := u.hasher.Hash(reg.Password)
	if err != nil {
		u.logger.Error("Failed to hash password", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
	}

	user, err := entity.NewUser(u.idGenerator.NewID(), reg, hash, u.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration can win between the check and the insert
		if !errors.Is(err, errs.ErrDuplicateUser) {
			u.logger.Error("Failed to create user", map[string]any{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
		return nil, err
	}

	u.logger.Info("User registered", map[string]any{
		"user_id": user.ID,
	})
	return user, nil
}

// conflictingFields names the unique fields a registration shares with existing users
func conflictingFields(users []*entity.User, reg entity.UserRegistration) []string {
	var email, mobile, bvn, nin bool
	for _, user := range users {
		email = email || user.Email == reg.Email
		mobile = mobile || user.MobileNumber == reg.MobileNumber
		bvn = bvn || user.BVN == reg.BVN
		nin = nin || user.NIN == reg.NIN
	}

	var fields []string
	if email {
		fields = append(fields, "email")
	}
	if mobile {
		fields = append(fields, "mobile number")
	}
	if bvn {
		fields = append(fields, "BVN")
	}
	if nin {
		fields = append(fields, "NIN")
	}
	return fields
}

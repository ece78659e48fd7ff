package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	coremocks "github.com/amirhossein-jamali/cashely/mocks/port/core"
	persistencemocks "github.com/amirhossein-jamali/cashely/mocks/port/persistence"
)

type userMocks struct {
	repo   *persistencemocks.MockUserRepository
	hasher *coremocks.MockPasswordHasher
	ids    *coremocks.MockIDGenerator
	time   *coremocks.MockTimeProvider
}

func newUserUseCase(t *testing.T) (*UserUseCase, userMocks) {
	m := userMocks{
		repo:   persistencemocks.NewMockUserRepository(t),
		hasher: coremocks.NewMockPasswordHasher(t),
		ids:    coremocks.NewMockIDGenerator(t),
		time:   coremocks.NewMockTimeProvider(t),
	}
	uc := NewUserUseCase(m.repo, m.hasher, m.ids, m.time, logger.NewNoopLogger()).(*UserUseCase)
	return uc, m
}

func registration() entity.UserRegistration {
	return entity.UserRegistration{
		FullName:     "Ada Obi",
		Email:        " Ada.Obi@Example.com",
		MobileNumber: "08031234567",
		BVN:          "22212345678",
		NIN:          "12345678901",
		DateOfBirth:  time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Password:     "s3cretpass",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Successful registration", func(t *testing.T) {
		uc, m := newUserUseCase(t)

		m.repo.EXPECT().FindConflicting(mock.Anything, "ada.obi@example.com", "08031234567", "22212345678", "12345678901").
			Return(nil, nil).Once()
		m.hasher.EXPECT().Hash("s3cretpass").Return("bcrypt-hash", nil).Once()
		m.ids.EXPECT().NewID().Return("user-1").Once()
		m.time.EXPECT().Now().Return(fixedTime).Once()
		m.repo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.ID == "user-1" && u.PasswordHash == "bcrypt-hash" && u.Email == "ada.obi@example.com"
		})).Return(nil).Once()

		user, err := uc.Register(ctx, registration())

		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, fixedTime, user.CreatedAt)
	})

	t.Run("Invalid registration never reaches the repository", func(t *testing.T) {
		uc, _ := newUserUseCase(t)
		reg := registration()
		reg.Password = "short"

		user, err := uc.Register(ctx, reg)

		assert.ErrorIs(t, err, errs.ErrWeakPassword)
		assert.Nil(t, user)
	})

	t.Run("Conflict names the shared fields", func(t *testing.T) {
		uc, m := newUserUseCase(t)
		existing := &entity.User{ID: "user-0", Email: "ada.obi@example.com", BVN: "22212345678"}
		m.repo.EXPECT().FindConflicting(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*entity.User{existing}, nil).Once()

		user, err := uc.Register(ctx, registration())

		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
		assert.Contains(t, err.Error(), "email, BVN")
		assert.Nil(t, user)
	})

	t.Run("Concurrent registration wins the insert", func(t *testing.T) {
		uc, m := newUserUseCase(t)
		m.repo.EXPECT().FindConflicting(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil).Once()
		m.hasher.EXPECT().Hash(mock.Anything).Return("hash", nil).Once()
		m.ids.EXPECT().NewID().Return("user-2").Once()
		m.time.EXPECT().Now().Return(fixedTime).Once()
		m.repo.EXPECT().Create(mock.Anything, mock.Anything).Return(errs.ErrDuplicateUser).Once()

		_, err := uc.Register(ctx, registration())

		assert.ErrorIs(t, err, errs.ErrDuplicateUser)
	})

	t.Run("Hashing failure", func(t *testing.T) {
		uc, m := newUserUseCase(t)
		m.repo.EXPECT().FindConflicting(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, nil).Once()
		m.hasher.EXPECT().Hash(mock.Anything).Return("", errors.New("password too long")).Once()

		_, err := uc.Register(ctx, registration())

		assert.ErrorIs(t, err, errs.ErrInternalServer)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	uc, m := newUserUseCase(t)

	m.repo.EXPECT().GetByID(mock.Anything, "user-1").Return(&entity.User{ID: "user-1"}, nil).Once()
	m.repo.EXPECT().GetByID(mock.Anything, "missing").Return(nil, errs.ErrUserNotFound).Once()

	user, err := uc.GetUser(ctx, " user-1 ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = uc.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)

	_, err = uc.GetUser(ctx, "")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

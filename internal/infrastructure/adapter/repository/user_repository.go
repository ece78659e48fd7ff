package repository

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// UserRepository implements the UserRepository port using GORM
type UserRepository struct {
	db          *gorm.DB
	logger      coreport.Logger
	errorMapper *ErrorMapper
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:          db,
		logger:      logger,
		errorMapper: NewErrorMapper(),
	}
}

// handleDatabaseError logs and maps a database error to a domain error
func (r *UserRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	mapped := r.errorMapper.MapError(err, EntityUser)
	fields["operation"] = operation
	fields["error"] = err.Error()
	if isExpected(mapped) {
		r.logger.Debug("User lookup or insert rejected", fields)
	} else {
		r.logger.Error("Database error on users", fields)
	}
	return mapped
}

// Create stores a new user
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(model.UserFromEntity(user)).Error; err != nil {
		return r.handleDatabaseError("create", err, map[string]any{"user_id": user.ID})
	}

	r.logger.Info("User created", map[string]any{
		"user_id": user.ID,
	})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).First(&userModel, "id = ?", id).Error; err != nil {
		return nil, r.handleDatabaseError("get", err, map[string]any{"user_id": id})
	}
	return userModel.ToEntity(), nil
}

// FindByLookupKey resolves a user by id, email or mobile number
func (r *UserRepository) FindByLookupKey(ctx context.Context, key string) (*entity.User, error) {
	key = strings.TrimSpace(key)

	var userModel model.User
	err := r.db.WithContext(ctx).
		Where("id = ? OR email = ? OR mobile_number = ?", key, strings.ToLower(key), key).
		First(&userModel).Error
	if err != nil {
		return nil, r.handleDatabaseError("lookup", err, map[string]any{"key": key})
	}
	return userModel.ToEntity(), nil
}

// FindConflicting returns users sharing any of the unique identity fields
func (r *UserRepository) FindConflicting(ctx context.Context, email, mobileNumber, bvn, nin string) ([]*entity.User, error) {
	var userModels []model.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR mobile_number = ? OR bvn = ? OR nin = ?", email, mobileNumber, bvn, nin).
		Order("created_at, id").
		Find(&userModels).Error
	if err != nil {
		return nil, r.handleDatabaseError("find conflicting", err, map[string]any{"email": email})
	}

	users := make([]*entity.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userModels[i].ToEntity())
	}
	return users, nil
}

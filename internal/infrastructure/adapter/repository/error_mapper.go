package repository

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"gorm.io/gorm"
)

// EntityType names the table family an error came from
type EntityType string

const (
	EntityUser           EntityType = "user"
	EntityWallet         EntityType = "wallet"
	EntityTransaction    EntityType = "transaction"
	EntityVirtualAccount EntityType = "virtual_account"
	EntityInventory      EntityType = "inventory"
)

// ErrorMapper maps database errors to domain errors
type ErrorMapper struct {
	classifier *ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{classifier: NewErrorClassifier()}
}

// MapError maps a database error raised while working on entity to a domain error
func (m *ErrorMapper) MapError(err error, entity EntityType) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFoundFor(entity)
	case m.classifier.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %s", duplicateFor(entity), err.Error())
	case m.classifier.IsForeignKeyError(err):
		return fmt.Errorf("%w: %s", missingParentFor(entity), err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s operation interrupted: %s", errs.ErrDatabaseConnection, entity, err.Error())
	case m.classifier.IsConstraintError(err):
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	default:
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
}

func notFoundFor(entity EntityType) error {
	switch entity {
	case EntityUser:
		return errs.ErrUserNotFound
	case EntityWallet:
		return errs.ErrWalletNotFound
	case EntityTransaction:
		return errs.ErrTransactionNotFound
	case EntityVirtualAccount:
		return errs.ErrVirtualAccountNotFound
	case EntityInventory:
		return errs.ErrUnknownItem
	default:
		return errs.ErrNotFound
	}
}

func duplicateFor(entity EntityType) error {
	switch entity {
	case EntityUser:
		return errs.ErrDuplicateUser
	case EntityWallet:
		return errs.ErrDuplicateWallet
	case EntityTransaction, EntityInventory:
		return errs.ErrDuplicateReference
	default:
		return errs.ErrConstraintViolation
	}
}

// missingParentFor names the row a foreign key pointed at
func missingParentFor(entity EntityType) error {
	switch entity {
	case EntityWallet:
		return errs.ErrUserNotFound
	case EntityTransaction, EntityVirtualAccount:
		return errs.ErrWalletNotFound
	case EntityInventory:
		return errs.ErrUnknownItem
	default:
		return errs.ErrConstraintViolation
	}
}

// isExpected reports errors that describe a normal answer rather than a fault
func isExpected(err error) bool {
	return !errors.Is(err, errs.ErrDatabaseConnection) && !errors.Is(err, errs.ErrConstraintViolation)
}

package model

import (
	"time"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// User represents the database model for registered users
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	FullName     string    `gorm:"not null;size:255"`
	Email        string    `gorm:"not null;size:255;uniqueIndex"`
	MobileNumber string    `gorm:"not null;size:20;uniqueIndex"`
	BVN          string    `gorm:"column:bvn;not null;size:11;uniqueIndex"`
	NIN          string    `gorm:"column:nin;not null;size:11;uniqueIndex"`
	DateOfBirth  time.Time `gorm:"not null"`
	PasswordHash string    `gorm:"not null;size:100"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// UserFromEntity converts a user entity to its database model
func UserFromEntity(u *entity.User) *User {
	return &User{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		MobileNumber: u.MobileNumber,
		BVN:          u.BVN,
		NIN:          u.NIN,
		DateOfBirth:  u.DateOfBirth,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

// ToEntity converts the model to a user entity
func (m *User) ToEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		MobileNumber: m.MobileNumber,
		BVN:          m.BVN,
		NIN:          m.NIN,
		DateOfBirth:  m.DateOfBirth,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

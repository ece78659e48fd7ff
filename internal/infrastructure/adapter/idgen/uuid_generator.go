package idgen

import (
	"github.com/google/uuid"

	"github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// UUIDGenerator issues time-ordered UUIDv7 identifiers
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new generator
func NewUUIDGenerator() core.IDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a UUIDv7 string, falling back to a random UUID if the clock
// source fails
func (g *UUIDGenerator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

package usecase

import (
	"context"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
)

// ProvisioningUseCase onboards a user: identity check, registration, wallet
// and virtual account. Every step is safe to re-run.
type ProvisioningUseCase interface {
	// Provision runs the whole workflow for a registration. On failure the
	// returned result, when not nil, reports how far the workflow got.
	Provision(ctx context.Context, reg entity.UserRegistration) (*entity.ProvisioningResult, error)

	// Resume continues the workflow for an already registered user
	Resume(ctx context.Context, userID string) (*entity.ProvisioningResult, error)

	// Status reports the persisted provisioning state of a user
	Status(ctx context.Context, userID string) (*entity.ProvisioningResult, error)
}

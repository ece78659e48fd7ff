package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

func TestVirtualAccountRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.virtualAccounts()
	wallet := f.createWallet(t)

	account, err := entity.NewVirtualAccountRequest(f.ids.NewID(), wallet.ID, wallet.AccountReference, f.clock)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, account))

	t.Run("One record per wallet", func(t *testing.T) {
		again, err := entity.NewVirtualAccountRequest(f.ids.NewID(), wallet.ID, "other-ref", f.clock)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, again), errs.ErrConstraintViolation)
	})

	t.Run("Failed then active", func(t *testing.T) {
		account.MarkFailed("gateway unavailable", f.clock)
		require.NoError(t, repo.Update(ctx, account))

		stored, err := repo.GetByWalletID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.VirtualAccountFailed, stored.Status)
		assert.Equal(t, "gateway unavailable", stored.FailureReason)

		require.NoError(t, stored.Activate(entity.ProvisionedAccount{
			AccountNumber:        "5000000001",
			BankName:             "Moniepoint Microfinance Bank",
			BankCode:             "50515",
			ReservationReference: "RES-1",
		}, f.clock))
		require.NoError(t, repo.Update(ctx, stored))

		active, err := repo.GetByWalletID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.True(t, active.IsActive())
		assert.Equal(t, "5000000001", active.AccountNumber)
		assert.Empty(t, active.FailureReason)
	})

	t.Run("Active record is never overwritten", func(t *testing.T) {
		stale := *account
		stale.Status = entity.VirtualAccountFailed
		stale.FailureReason = "late timeout"
		assert.ErrorIs(t, repo.Update(ctx, &stale), errs.ErrConstraintViolation)

		stored, err := repo.GetByWalletID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsActive())
	})

	t.Run("Missing records", func(t *testing.T) {
		_, err := repo.GetByWalletID(ctx, "missing")
		assert.ErrorIs(t, err, errs.ErrVirtualAccountNotFound)

		ghost := &entity.VirtualAccount{ID: "ghost", Status: entity.VirtualAccountFailed}
		assert.ErrorIs(t, repo.Update(ctx, ghost), errs.ErrVirtualAccountNotFound)
	})
}

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

func TestWalletRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := f.wallets()
	wallet := f.createWallet(t)

	t.Run("Get by id and owner", func(t *testing.T) {
		byID, err := repo.GetByID(ctx, wallet.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.DefaultCurrency, byID.Currency)
		assert.Equal(t, entity.AccountReferenceFor(wallet.ID), byID.AccountReference)

		byUser, err := repo.GetByUserID(ctx, wallet.UserID)
		require.NoError(t, err)
		assert.Equal(t, wallet.ID, byUser.ID)
	})

	t.Run("One wallet per user", func(t *testing.T) {
		second, err := entity.NewWallet(f.ids.NewID(), wallet.UserID, "NGN", f.clock)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, second), errs.ErrDuplicateWallet)
	})

	t.Run("Unknown owner", func(t *testing.T) {
		orphan, err := entity.NewWallet(f.ids.NewID(), "missing-user", "NGN", f.clock)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, orphan), errs.ErrUserNotFound)
	})

	t.Run("Missing wallet", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, errs.ErrWalletNotFound)
		_, err = repo.GetByUserID(ctx, "missing")
		assert.ErrorIs(t, err, errs.ErrWalletNotFound)
	})
}

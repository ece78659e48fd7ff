package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
)

func TestLedgerAppendCommitsAndDerivesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := f.ledger()
	wallet := f.createWallet(t)

	steps := []struct {
		direction entity.Direction
		amount    int64
		after     int64
	}{
		{entity.Credit, 10000, 10000},
		{entity.Credit, 2550, 12550},
		{entity.Debit, 550, 12000},
	}
	for _, step := range steps {
		tx := f.newTransaction(t, wallet.ID, step.direction, step.amount, "")
		require.NoError(t, ledger.Append(ctx, tx))
		assert.Equal(t, entity.StatusCommitted, tx.Status)
		assert.Equal(t, step.after, tx.BalanceAfter)
	}

	balance, err := ledger.Balance(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), balance)

	committed, err := ledger.ListByWallet(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, committed, 3)
	assert.Equal(t, balance, entity.SumCommitted(committed))
	assert.Equal(t, int64(-550), committed[2].Amount)
}

func TestLedgerRejectsOverdraftAndRecordsAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := f.ledger()
	wallet := f.createWallet(t)

	require.NoError(t, ledger.Append(ctx, f.newTransaction(t, wallet.ID, entity.Credit, 100, "")))

	debit := f.newTransaction(t, wallet.ID, entity.Debit, 150, "withdraw-1")
	err := ledger.Append(ctx, debit)

	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	var fundsErr *errs.InsufficientFundsError
	require.ErrorAs(t, err, &fundsErr)
	assert.Equal(t, "1.50", fundsErr.Amount)
	assert.Equal(t, "1.00", fundsErr.Balance)
	assert.Equal(t, entity.StatusFailed, debit.Status)
	assert.NotEmpty(t, debit.FailureReason)

	balance, err := ledger.Balance(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	attempts, err := ledger.ListAttempts(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, entity.StatusFailed, attempts[1].Status)
	assert.Equal(t, "withdraw-1", attempts[1].Reference)

	committed, err := ledger.ListByWallet(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Len(t, committed, 1)
}

func TestLedgerCommitsReferenceOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := f.ledger()
	wallet := f.createWallet(t)

	first := f.newTransaction(t, wallet.ID, entity.Credit, 5000, "deposit-42")
	require.NoError(t, ledger.Append(ctx, first))

	second := f.newTransaction(t, wallet.ID, entity.Credit, 5000, "deposit-42")
	err := ledger.Append(ctx, second)
	assert.ErrorIs(t, err, errs.ErrDuplicateReference)
	assert.True(t, errs.IsDuplicateReferenceError(err))

	other := f.createWallet(t)
	elsewhere := f.newTransaction(t, other.ID, entity.Credit, 5000, "deposit-42")
	assert.ErrorIs(t, ledger.Append(ctx, elsewhere), errs.ErrDuplicateReference, "references are unique across wallets")

	balance, err := ledger.Balance(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)

	found, err := ledger.GetByReference(ctx, "deposit-42")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestLedgerReferenceCanCommitAfterFailedAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := f.ledger()
	wallet := f.createWallet(t)

	err := ledger.Append(ctx, f.newTransaction(t, wallet.ID, entity.Debit, 500, "purchase-7"))
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)

	require.NoError(t, ledger.Append(ctx, f.newTransaction(t, wallet.ID, entity.Credit, 1000, "")))

	retry := f.newTransaction(t, wallet.ID, entity.Debit, 500, "purchase-7")
	require.NoError(t, ledger.Append(ctx, retry))
	assert.Equal(t, int64(500), retry.BalanceAfter)
}

func TestLedgerAppendErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := f.ledger()

	t.Run("Unknown wallet", func(t *testing.T) {
		tx := f.newTransaction(t, "missing-wallet", entity.Credit, 100, "")
		assert.ErrorIs(t, ledger.Append(ctx, tx), errs.ErrWalletNotFound)
		assert.Equal(t, entity.StatusPending, tx.Status)
	})

	t.Run("Already committed", func(t *testing.T) {
		wallet := f.createWallet(t)
		tx := f.newTransaction(t, wallet.ID, entity.Credit, 100, "")
		require.NoError(t, ledger.Append(ctx, tx))
		assert.ErrorIs(t, ledger.Append(ctx, tx), errs.ErrInvalidRequest)
	})

	t.Run("Unknown reference", func(t *testing.T) {
		_, err := ledger.GetByReference(ctx, "nope")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}

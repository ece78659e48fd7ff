package repository_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/repository"
)

// stepClock advances one second on every reading so rows get distinct,
// ordered timestamps
type stepClock struct {
	base  time.Time
	ticks atomic.Int64
}

func newStepClock() *stepClock {
	return &stepClock{base: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	return c.base.Add(time.Duration(c.ticks.Add(1)) * time.Second)
}

func (c *stepClock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

func (c *stepClock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

type fixture struct {
	db    *gorm.DB
	clock *stepClock
	ids   interface{ NewID() string }
	seq   atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		db:    database.NewTestDBManager(t).Manager.DB(),
		clock: newStepClock(),
		ids:   idgen.NewUUIDGenerator(),
	}
}

func (f *fixture) users() *repository.UserRepository {
	return repository.NewUserRepository(f.db, logger.NewNoopLogger())
}

func (f *fixture) wallets() *repository.WalletRepository {
	return repository.NewWalletRepository(f.db, logger.NewNoopLogger())
}

func (f *fixture) ledger() *repository.LedgerRepository {
	return repository.NewLedgerRepository(f.db, logger.NewNoopLogger())
}

func (f *fixture) virtualAccounts() *repository.VirtualAccountRepository {
	return repository.NewVirtualAccountRepository(f.db, logger.NewNoopLogger())
}

func (f *fixture) inventory() *repository.InventoryRepository {
	return repository.NewInventoryRepository(f.db, logger.NewNoopLogger())
}

// registration returns a valid registration unique within the fixture
func (f *fixture) registration() entity.UserRegistration {
	n := f.seq.Add(1)
	return entity.UserRegistration{
		FullName:     fmt.Sprintf("Test User %d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		MobileNumber: fmt.Sprintf("0803%07d", n),
		BVN:          fmt.Sprintf("222%08d", n),
		NIN:          fmt.Sprintf("111%08d", n),
		DateOfBirth:  time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Password:     "password123",
	}
}

func (f *fixture) createUser(t *testing.T) *entity.User {
	t.Helper()
	user, err := entity.NewUser(f.ids.NewID(), f.registration(), "hash", f.clock)
	require.NoError(t, err)
	require.NoError(t, f.users().Create(context.Background(), user))
	return user
}

func (f *fixture) createWallet(t *testing.T) *entity.Wallet {
	t.Helper()
	user := f.createUser(t)
	wallet, err := entity.NewWallet(f.ids.NewID(), user.ID, "", f.clock)
	require.NoError(t, err)
	require.NoError(t, f.wallets().Create(context.Background(), wallet))
	return wallet
}

func (f *fixture) newTransaction(t *testing.T, walletID string, direction entity.Direction, amount int64, reference string) *entity.Transaction {
	t.Helper()
	kind := entity.KindFunding
	if direction == entity.Debit {
		kind = entity.KindWithdrawal
	}
	tx, err := entity.NewTransaction(f.ids.NewID(), walletID, direction, amount, kind, reference, f.clock)
	require.NoError(t, err)
	return tx
}

func (f *fixture) createItem(t *testing.T, quantities ...int64) (*entity.InventoryItem, []*entity.InventoryBatch) {
	t.Helper()
	ctx := context.Background()
	repo := f.inventory()

	item, err := entity.NewInventoryItem(f.ids.NewID(), "Rice 5kg", 4500, f.clock)
	require.NoError(t, err)
	require.NoError(t, repo.CreateItem(ctx, item))

	batches := make([]*entity.InventoryBatch, 0, len(quantities))
	for i, q := range quantities {
		batch, err := entity.NewInventoryBatch(f.ids.NewID(), item.ID, q, int64(100*(i+1)), false, f.clock)
		require.NoError(t, err)
		require.NoError(t, repo.AddBatch(ctx, batch))
		batches = append(batches, batch)
	}
	return item, batches
}

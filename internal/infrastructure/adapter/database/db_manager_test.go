package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/config"
)

func testUser(t *testing.T, id string) *entity.User {
	t.Helper()
	user, err := entity.NewUser(id, entity.UserRegistration{
		FullName:     "Ada Obi",
		Email:        id + "@example.com",
		MobileNumber: "08012345678",
		BVN:          "22222222222",
		NIN:          "11111111111",
		DateOfBirth:  time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Password:     "correct-horse",
	}, "hash", timeprovider.NewRealTimeProvider())
	require.NoError(t, err)
	return user
}

func TestManagerLifecycle(t *testing.T) {
	db := database.NewTestDBManager(t)
	ctx := context.Background()

	require.NoError(t, db.Manager.Ping(ctx))

	metrics := db.Manager.PoolMetrics()
	assert.Equal(t, 1, metrics.MaxOpenConnections)

	// migrations are idempotent
	require.NoError(t, db.Manager.Migrate(ctx))
}

func TestMigrateRequiresConnection(t *testing.T) {
	manager := database.NewManager(&database.Config{
		Driver:       database.DriverSQLite,
		Database:     "file::memory:",
		MaxOpenConns: 1,
		QueryTimeout: time.Second,
	}, logger.NewNoopLogger(), timeprovider.NewRealTimeProvider())

	assert.Error(t, manager.Migrate(context.Background()))
	assert.Equal(t, database.ConnectionPoolMetrics{}, manager.PoolMetrics())
	assert.NoError(t, manager.Close())
}

func TestUnitOfWork(t *testing.T) {
	db := database.NewTestDBManager(t)
	uow := db.Manager.CreateUnitOfWork()
	ctx := context.Background()

	t.Run("rollback discards writes", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, uow.GetUserRepository(txCtx).Create(txCtx, testUser(t, "rolled-back")))
		require.NoError(t, uow.Rollback(txCtx))

		_, err = uow.GetUserRepository(ctx).GetByID(ctx, "rolled-back")
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("commit keeps writes and a later rollback is harmless", func(t *testing.T) {
		txCtx, err := uow.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, uow.GetUserRepository(txCtx).Create(txCtx, testUser(t, "committed")))
		require.NoError(t, uow.Commit(txCtx))
		assert.NoError(t, uow.Rollback(txCtx))

		user, err := uow.GetUserRepository(ctx).GetByID(ctx, "committed")
		require.NoError(t, err)
		assert.Equal(t, "Ada Obi", user.FullName)
	})

	t.Run("commit without a transaction", func(t *testing.T) {
		assert.Error(t, uow.Commit(ctx))
		assert.Error(t, uow.Rollback(ctx))
	})
}

func TestConfig(t *testing.T) {
	t.Run("postgres DSN", func(t *testing.T) {
		cfg := database.NewConfig(config.DatabaseConfig{
			Host:         "db",
			Port:         "6543",
			Username:     "cashely",
			Password:     "secret",
			Database:     "ledger",
			SSLMode:      "disable",
			MaxOpenConns: 10,
			QueryTimeout: time.Second,
		}, "info")

		require.NoError(t, cfg.Validate())
		assert.Equal(t, database.DriverPostgres, cfg.Driver)
		assert.Equal(t, "host=db port=6543 user=cashely password=secret dbname=ledger sslmode=disable", cfg.DSN())
	})

	t.Run("sqlite DSN keeps existing parameters", func(t *testing.T) {
		cfg := database.NewConfig(config.DatabaseConfig{
			Driver:       "SQLite",
			Database:     "file:test?mode=memory",
			MaxOpenConns: 1,
			QueryTimeout: time.Second,
		}, "silent")

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "file:test?mode=memory&_foreign_keys=on&_busy_timeout=5000", cfg.DSN())
	})

	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"unknown driver", database.Config{Driver: "mysql", Database: "x", MaxOpenConns: 1, QueryTimeout: time.Second}},
		{"sqlite without path", database.Config{Driver: database.DriverSQLite, MaxOpenConns: 1, QueryTimeout: time.Second}},
		{"postgres without host", database.Config{Driver: database.DriverPostgres, Port: 5432, Username: "u", Database: "d", SSLMode: "disable", MaxOpenConns: 1, QueryTimeout: time.Second}},
		{"bad ssl mode", database.Config{Driver: database.DriverPostgres, Host: "h", Port: 5432, Username: "u", Database: "d", SSLMode: "always", MaxOpenConns: 1, QueryTimeout: time.Second}},
		{"no pool", database.Config{Driver: database.DriverSQLite, Database: "x", QueryTimeout: time.Second}},
		{"no query timeout", database.Config{Driver: database.DriverSQLite, Database: "x", MaxOpenConns: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}

	assert.Equal(t, 5432, database.ParsePort("not-a-port"))
	assert.Equal(t, 15432, database.ParsePort(" 15432 "))
}

package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/time"
)

// TestDBManager wraps a migrated in-memory SQLite database for tests
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager connects a fresh, migrated in-memory database and closes
// it when the test ends. Every call gets its own database.
func NewTestDBManager(t testing.TB) *TestDBManager {
	t.Helper()

	timeProvider := timeprovider.NewRealTimeProvider()
	testLogger := logger.NewNoopLogger()

	config := &Config{
		Driver:        DriverSQLite,
		Database:      fmt.Sprintf("file:cashely_%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
	}

	manager := NewManager(config, testLogger, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	if err := manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       testLogger,
		TimeProvider: timeProvider,
	}
}

package migration

import (
	"context"
	"errors"

	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const (
	// CurrentSchemaVersion represents the current database schema version
	CurrentSchemaVersion = "1.0.0"
)

// indexStatements hold the indexes AutoMigrate cannot express. Partial
// indexes work on both PostgreSQL and SQLite.
var indexStatements = []string{
	// a reference may be retried after a failure but committed only once
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_reference_committed
		ON transactions (reference)
		WHERE status = 'committed' AND reference IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_wallet_created
		ON transactions (wallet_id, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_batches_item_available
		ON inventory_batches (item_id, created_at, id)
		WHERE remaining_quantity > 0`,
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll brings the schema to CurrentSchemaVersion
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
		"dialect":        m.db.Dialector.Name(),
	})

	db := m.db.WithContext(ctx)

	if err := db.AutoMigrate(&model.MigrationVersion{}); err != nil {
		m.logger.Error("Failed to create migration version table", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		m.logger.Error("Failed to check current schema version", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	if err := m.autoMigrateModels(db); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.createIndexes(db); err != nil {
		m.logger.Error("Failed to create indexes", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.setVersion(ctx, CurrentSchemaVersion, "Ledger, provisioning and inventory schema"); err != nil {
		m.logger.Error("Failed to update schema version", map[string]any{
			"error":   err.Error(),
			"version": CurrentSchemaVersion,
		})
		return err
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"from_version": currentVersion,
		"version":      CurrentSchemaVersion,
	})
	return nil
}

// GetCurrentVersion gets the current migration version, "" for a fresh database
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc").Order("id desc").First(&version)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}

	return version.Version, nil
}

// setVersion records a new migration version
func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	migrationVersion := model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}

	return m.db.WithContext(ctx).Create(&migrationVersion).Error
}

// autoMigrateModels auto-migrates database models
func (m *MigrationManager) autoMigrateModels(db *gorm.DB) error {
	m.logger.Info("Auto-migrating database models", nil)

	return db.AutoMigrate(
		&model.User{},
		&model.Wallet{},
		&model.VirtualAccount{},
		&model.Transaction{},
		&model.InventoryItem{},
		&model.InventoryBatch{},
		&model.InventoryAllocation{},
		&model.InventoryAllocationLine{},
	)
}

// createIndexes creates the raw SQL indexes
func (m *MigrationManager) createIndexes(db *gorm.DB) error {
	m.logger.Info("Creating database indexes", map[string]any{
		"count": len(indexStatements),
	})

	for _, stmt := range indexStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

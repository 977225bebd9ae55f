package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/samvyt/rifa/internal/shared/logger"
)

// Manager runs the migration strategy matching the configured database driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for mysql and gorm AutoMigrate for sqlite.
func NewManager(driver string, log logger.Interface) *Manager {
	var strategy Strategy
	switch driver {
	case "mysql":
		strategy = NewGooseStrategy("mysql", log)
	default:
		strategy = NewGormAutoMigrateStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db, AutoMigrateModels()...); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

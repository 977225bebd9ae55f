package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/samvyt/rifa/internal/domain/raffle"
	vo "github.com/samvyt/rifa/internal/domain/shared/valueobjects"
	"github.com/samvyt/rifa/internal/infrastructure/migration"
)

// setupTestDB opens a file-backed sqlite database so concurrent goroutines share it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "rifa.db") + "?_busy_timeout=5000"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))
	return gdb
}

func newRaffle(t *testing.T) *raffle.Raffle {
	t.Helper()
	price, err := vo.ParseMoney("2.50", "BRL")
	require.NoError(t, err)
	r, err := raffle.NewRaffle(raffle.NewParams{
		Name:           "Moto 0km",
		TotalQuotas:    100,
		MinNumberWidth: 5,
		Price:          price,
	})
	require.NoError(t, err)
	return r
}

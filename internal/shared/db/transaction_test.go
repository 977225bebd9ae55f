package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID   uint
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))
	return db
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		assert.True(t, InTransaction(txCtx))
		require.NoError(t, GetTxFromContext(txCtx, gdb).Create(&row{Name: "a"}).Error)
		return errors.New("boom")
	})
	require.Error(t, err)

	var count int64
	gdb.Model(&row{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestRunInTransaction_NestedJoinsOuter(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTransactionManager(gdb)
	ctx := context.Background()

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, tm.RunInTransaction(txCtx, func(inner context.Context) error {
			return GetTxFromContext(inner, gdb).Create(&row{Name: "inner"}).Error
		}))
		return errors.New("outer fails")
	})
	require.Error(t, err)

	var count int64
	gdb.Model(&row{}).Count(&count)
	assert.Equal(t, int64(0), count, "inner write must roll back with the outer transaction")
	assert.False(t, InTransaction(ctx))
}

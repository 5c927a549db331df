package repository

import (
	"context"
	"testing"

	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersists(t *testing.T) {
	db := testutil.NewTestDB(t)
	factory := NewUnitOfWorkFactory(db)
	members := NewMemberRepository()

	uow, err := factory.Begin(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, uow.ReadOnly())

	member := &models.Member{Name: "kim"}
	require.NoError(t, members.Save(uow, member))
	require.NoError(t, uow.Commit())
	uow.Rollback() // no-op after commit

	var count int64
	require.NoError(t, db.Model(&models.Member{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	db := testutil.NewTestDB(t)
	factory := NewUnitOfWorkFactory(db)
	items := NewItemRepository()

	uow, err := factory.Begin(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, items.Save(uow, &models.Item{DType: models.ItemKindBook, Name: "JPA", Price: 1000, StockQuantity: 10}))
	uow.Rollback()
	uow.Rollback()

	var count int64
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.Zero(t, count, "rolled back insert must not be visible")
}

func TestUnitOfWork_CommitTwice(t *testing.T) {
	db := testutil.NewTestDB(t)

	uow, err := NewUnitOfWorkFactory(db).Begin(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, uow.ReadOnly())

	require.NoError(t, uow.Commit())
	assert.ErrorIs(t, uow.Commit(), ErrUnitOfWorkClosed)
}

func TestMigrate(t *testing.T) {
	db := testutil.NewTestDB(t)

	// migrating an up to date schema is a no-op
	require.NoError(t, Migrate(db))
	for _, table := range []string{"member", "item", "orders", "order_item", "delivery"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.True(t, db.Migrator().HasColumn(&models.Item{}, "dtype"))
}

package repository

import (
	"testing"

	"github.com/kendall-kelly/shop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemRepository_SaveKinds(t *testing.T) {
	uow := beginTest(t)
	repo := NewItemRepository()

	book := &models.Item{DType: models.ItemKindBook, Name: "JPA", Price: 10000, StockQuantity: 10, Author: "kim", ISBN: "1234"}
	album := &models.Item{DType: models.ItemKindAlbum, Name: "Hits", Price: 15000, StockQuantity: 3, Artist: "band"}
	movie := &models.Item{DType: models.ItemKindMovie, Name: "Film", Price: 9000, StockQuantity: 1, Director: "lee", Actor: "park"}
	for _, item := range []*models.Item{book, album, movie} {
		require.NoError(t, repo.Save(uow, item))
		require.NotZero(t, item.ID)
	}

	found, err := repo.FindOne(uow, album.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemKindAlbum, found.DType)
	assert.Equal(t, "band", found.Artist)
	assert.Empty(t, found.Author)

	all, err := repo.FindAll(uow)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestItemRepository_SaveMergesStock(t *testing.T) {
	uow := beginTest(t)
	repo := NewItemRepository()

	item := &models.Item{DType: models.ItemKindBook, Name: "JPA", Price: 1000, StockQuantity: 10}
	require.NoError(t, repo.Save(uow, item))

	loaded, err := repo.FindOne(uow, item.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.RemoveStock(3))
	require.NoError(t, repo.Save(uow, loaded))

	reloaded, err := repo.FindOne(uow, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.StockQuantity)
}

func TestItemRepository_FindOneNotFound(t *testing.T) {
	uow := beginTest(t)

	_, err := NewItemRepository().FindOne(uow, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestItemRepository_FindByIDs(t *testing.T) {
	uow := beginTest(t)
	repo := NewItemRepository()

	a := &models.Item{DType: models.ItemKindBook, Name: "A", Price: 1, StockQuantity: 1}
	b := &models.Item{DType: models.ItemKindBook, Name: "B", Price: 2, StockQuantity: 2}
	require.NoError(t, repo.Save(uow, a))
	require.NoError(t, repo.Save(uow, b))

	found, err := repo.FindByIDs(uow, []uint{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "A", found[a.ID].Name)
	assert.Equal(t, "B", found[b.ID].Name)
	assert.Nil(t, found[999])

	empty, err := repo.FindByIDs(uow, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

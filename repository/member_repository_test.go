package repository

import (
	"context"
	"testing"

	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginTest(t *testing.T) *UnitOfWork {
	t.Helper()
	uow, err := NewUnitOfWorkFactory(testutil.NewTestDB(t)).Begin(context.Background(), false)
	require.NoError(t, err)
	t.Cleanup(uow.Rollback)
	return uow
}

func TestMemberRepository_SaveAndFindOne(t *testing.T) {
	uow := beginTest(t)
	repo := NewMemberRepository()

	member := &models.Member{Name: "kim", Address: models.Address{City: "Seoul", Street: "Gangnam", Zipcode: "12345"}}
	require.NoError(t, repo.Save(uow, member))
	require.NotZero(t, member.ID, "Save should assign an id")

	found, err := repo.FindOne(uow, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "kim", found.Name)
	assert.Equal(t, "Seoul", found.Address.City)
	assert.Equal(t, "12345", found.Address.Zipcode)
}

func TestMemberRepository_SaveUpdatesExisting(t *testing.T) {
	uow := beginTest(t)
	repo := NewMemberRepository()

	member := &models.Member{Name: "kim"}
	require.NoError(t, repo.Save(uow, member))
	require.NoError(t, member.Rename("park"))
	require.NoError(t, repo.Save(uow, member))

	all, err := repo.FindAll(uow)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "park", all[0].Name)
}

func TestMemberRepository_FindOneNotFound(t *testing.T) {
	uow := beginTest(t)

	member, err := NewMemberRepository().FindOne(uow, 999)
	assert.Nil(t, member)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemberRepository_FindByName(t *testing.T) {
	uow := beginTest(t)
	repo := NewMemberRepository()

	for _, name := range []string{"kim", "lee", "kim", "kimchi"} {
		require.NoError(t, repo.Save(uow, &models.Member{Name: name}))
	}

	tests := []struct {
		name string
		want int
	}{
		{"kim", 2},
		{"lee", 1},
		{"park", 0},
		{"", 0},
		{"KIM", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := repo.FindByName(uow, tt.name)
			require.NoError(t, err)
			assert.Len(t, members, tt.want)
			for _, m := range members {
				assert.Equal(t, tt.name, m.Name)
			}
		})
	}
}

func TestMemberRepository_FindAllOrdered(t *testing.T) {
	uow := beginTest(t)
	repo := NewMemberRepository()

	require.NoError(t, repo.Save(uow, &models.Member{Name: "b"}))
	require.NoError(t, repo.Save(uow, &models.Member{Name: "a"}))

	all, err := repo.FindAll(uow)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Name)
	assert.Equal(t, "a", all[1].Name)
}

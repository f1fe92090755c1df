package repository

import (
	"testing"

	"deeperweave/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupListDB(t *testing.T) *ListRepository {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.List{}, &model.ListItem{}))
	return NewListRepository(db)
}

func TestListAddItemAppendsToEnd(t *testing.T) {
	repo := setupListDB(t)

	list := &model.List{UserID: 1, Name: "Watchlist", IsPublic: true}
	require.NoError(t, repo.Create(list))

	first, err := repo.AddItem(list.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)

	second, err := repo.AddItem(list.ID, model.MediaTypeTV, 1399)
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder)

	got, err := repo.GetByID(list.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ItemCount)
}

func TestListDuplicateItemRejected(t *testing.T) {
	repo := setupListDB(t)

	list := &model.List{UserID: 1, Name: "Watchlist", IsPublic: true}
	require.NoError(t, repo.Create(list))

	_, err := repo.AddItem(list.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	_, err = repo.AddItem(list.ID, model.MediaTypeMovie, 603)
	assert.Error(t, err)
}

func TestListRemoveItemMaintainsCount(t *testing.T) {
	repo := setupListDB(t)

	list := &model.List{UserID: 1, Name: "Watchlist", IsPublic: true}
	require.NoError(t, repo.Create(list))

	_, err := repo.AddItem(list.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)

	removed, err := repo.RemoveItem(list.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveItem(list.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := repo.GetByID(list.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ItemCount)
}

func TestListReorderItems(t *testing.T) {
	repo := setupListDB(t)

	list := &model.List{UserID: 1, Name: "Watchlist", IsPublic: true}
	require.NoError(t, repo.Create(list))

	a, err := repo.AddItem(list.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	b, err := repo.AddItem(list.ID, model.MediaTypeMovie, 604)
	require.NoError(t, err)
	c, err := repo.AddItem(list.ID, model.MediaTypeMovie, 605)
	require.NoError(t, err)

	require.NoError(t, repo.ReorderItems(list.ID, []int64{c.ID, a.ID, b.ID}))

	got, err := repo.GetByIDWithItems(list.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, c.ID, got.Items[0].ID)
	assert.Equal(t, a.ID, got.Items[1].ID)
	assert.Equal(t, b.ID, got.Items[2].ID)
}

func TestListReorderRejectsForeignItem(t *testing.T) {
	repo := setupListDB(t)

	mine := &model.List{UserID: 1, Name: "Mine", IsPublic: true}
	require.NoError(t, repo.Create(mine))
	other := &model.List{UserID: 2, Name: "Other", IsPublic: true}
	require.NoError(t, repo.Create(other))

	item, err := repo.AddItem(other.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)

	err = repo.ReorderItems(mine.ID, []int64{item.ID})
	assert.Error(t, err)
}

func TestListByUserVisibility(t *testing.T) {
	repo := setupListDB(t)

	require.NoError(t, repo.Create(&model.List{UserID: 1, Name: "Public", IsPublic: true}))
	require.NoError(t, repo.Create(&model.List{UserID: 1, Name: "Private", IsPublic: false}))

	lists, total, err := repo.ListByUser(1, false, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, lists, 1)
	assert.Equal(t, "Public", lists[0].Name)

	_, total, err = repo.ListByUser(1, true, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

package repository

import (
	"testing"

	"deeperweave/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFollowDB(t *testing.T) *FollowRepository {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.Follow{}))
	return NewFollowRepository(db)
}

func TestFollowCreateAndExists(t *testing.T) {
	repo := setupFollowDB(t)

	_, err := repo.Create(1, 2)
	require.NoError(t, err)

	exists, err := repo.Exists(1, 2)
	require.NoError(t, err)
	assert.True(t, exists)

	// Follow edges are directional
	exists, err = repo.Exists(2, 1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollowDuplicateRejected(t *testing.T) {
	repo := setupFollowDB(t)

	_, err := repo.Create(1, 2)
	require.NoError(t, err)
	_, err = repo.Create(1, 2)
	assert.Error(t, err)
}

func TestFollowDelete(t *testing.T) {
	repo := setupFollowDB(t)

	_, err := repo.Create(1, 2)
	require.NoError(t, err)

	deleted, err := repo.Delete(1, 2)
	require.NoError(t, err)
	assert.True(t, deleted)

	exists, err := repo.Exists(1, 2)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMutualFollows(t *testing.T) {
	repo := setupFollowDB(t)

	// 1 <-> 2 mutual, 1 -> 3 one way
	_, err := repo.Create(1, 2)
	require.NoError(t, err)
	_, err = repo.Create(2, 1)
	require.NoError(t, err)
	_, err = repo.Create(1, 3)
	require.NoError(t, err)

	ids, err := repo.GetMutualFollowIDs(1, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	count, err := repo.CountMutualFollows(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBatchCheckFollowing(t *testing.T) {
	repo := setupFollowDB(t)

	_, err := repo.Create(1, 2)
	require.NoError(t, err)

	status, err := repo.BatchCheckFollowing(1, []int64{2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{2: true, 3: false}, status)
}

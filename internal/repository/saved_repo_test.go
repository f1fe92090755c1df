package repository

import (
	"testing"

	"deeperweave/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSavedDB(t *testing.T) *SavedRepository {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, db.AutoMigrate(&model.SavedItem{}))
	return NewSavedRepository(db)
}

func TestSavedCreateAndExists(t *testing.T) {
	repo := setupSavedDB(t)

	exists, err := repo.Exists(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)

	exists, err = repo.Exists(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same external ID under the other media type is a separate row
	exists, err = repo.Exists(1, model.MediaTypeTV, 603)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSavedDuplicateRejected(t *testing.T) {
	repo := setupSavedDB(t)

	_, err := repo.Create(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	_, err = repo.Create(1, model.MediaTypeMovie, 603)
	assert.Error(t, err)
}

func TestSavedDelete(t *testing.T) {
	repo := setupSavedDB(t)

	_, err := repo.Create(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)

	deleted, err := repo.Delete(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSavedBatchCheck(t *testing.T) {
	repo := setupSavedDB(t)

	_, err := repo.Create(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	_, err = repo.Create(1, model.MediaTypeMovie, 605)
	require.NoError(t, err)

	status, err := repo.BatchCheckSaved(1, model.MediaTypeMovie, []int64{603, 604, 605})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{603: true, 604: false, 605: true}, status)
}

func TestSavedCountByMedia(t *testing.T) {
	repo := setupSavedDB(t)

	_, err := repo.Create(1, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	_, err = repo.Create(2, model.MediaTypeMovie, 603)
	require.NoError(t, err)

	count, err := repo.CountByMedia(model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

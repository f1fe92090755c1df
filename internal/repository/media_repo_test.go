package repository

import (
	"testing"
	"time"

	"deeperweave/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestUpsertMovieIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMediaRepository(db)

	first := &model.Movie{
		ID:               603,
		Title:            "The Matrix",
		ReleaseDate:      strPtr("1999-03-30"),
		OriginalLanguage: "en",
		CachedAt:         time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.UpsertMovie(first))

	// Second sync overwrites with the latest fields, still one row
	second := &model.Movie{
		ID:               603,
		Title:            "黑客帝国",
		PosterPath:       strPtr("/poster.jpg"),
		ReleaseDate:      strPtr("1999-03-30"),
		OriginalLanguage: "en",
		CachedAt:         time.Now(),
	}
	require.NoError(t, repo.UpsertMovie(second))

	var count int64
	require.NoError(t, db.Model(&model.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetMovie(603)
	require.NoError(t, err)
	assert.Equal(t, "黑客帝国", got.Title)
	require.NotNil(t, got.PosterPath)
	assert.Equal(t, "/poster.jpg", *got.PosterPath)
}

func TestUpsertTVShowIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMediaRepository(db)

	require.NoError(t, repo.UpsertTVShow(&model.TVShow{
		ID: 1399, Name: "Game of Thrones", CachedAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, repo.UpsertTVShow(&model.TVShow{
		ID: 1399, Name: "权力的游戏", FirstAirDate: strPtr("2011-04-17"), CachedAt: time.Now(),
	}))

	var count int64
	require.NoError(t, db.Model(&model.TVShow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetTVShow(1399)
	require.NoError(t, err)
	assert.Equal(t, "权力的游戏", got.Name)
}

func TestMediaExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMediaRepository(db)

	exists, err := repo.ExistsMovie(603)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.UpsertMovie(&model.Movie{ID: 603, Title: "The Matrix", CachedAt: time.Now()}))

	exists, err = repo.ExistsMovie(603)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetTVShow(603)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetMoviesByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMediaRepository(db)

	require.NoError(t, repo.UpsertMovie(&model.Movie{ID: 603, Title: "The Matrix", CachedAt: time.Now()}))
	require.NoError(t, repo.UpsertMovie(&model.Movie{ID: 604, Title: "The Matrix Reloaded", CachedAt: time.Now()}))

	movies, err := repo.GetMoviesByIDs([]int64{603, 604, 605})
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	movies, err = repo.GetMoviesByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

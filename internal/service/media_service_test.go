package service

import (
	"context"
	"testing"
	"time"

	"deeperweave/internal/infra/tmdb"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeSource 按调用顺序记录对外部元数据源的访问
type fakeSource struct {
	movie  *tmdb.MovieDetails
	tv     *tmdb.TVDetails
	search *tmdb.SearchResponse
	err    error
	calls  []string
}

func (f *fakeSource) GetMovie(ctx context.Context, id int64) (*tmdb.MovieDetails, error) {
	f.calls = append(f.calls, "get_movie")
	if f.err != nil {
		return nil, f.err
	}
	return f.movie, nil
}

func (f *fakeSource) GetTV(ctx context.Context, id int64) (*tmdb.TVDetails, error) {
	f.calls = append(f.calls, "get_tv")
	if f.err != nil {
		return nil, f.err
	}
	return f.tv, nil
}

func (f *fakeSource) SearchMulti(ctx context.Context, query string, page int) (*tmdb.SearchResponse, error) {
	f.calls = append(f.calls, "search")
	if f.err != nil {
		return nil, f.err
	}
	return f.search, nil
}

func (f *fakeSource) InvalidateMovie(ctx context.Context, id int64) {
	f.calls = append(f.calls, "invalidate_movie")
}

func (f *fakeSource) InvalidateTV(ctx context.Context, id int64) {
	f.calls = append(f.calls, "invalidate_tv")
}

func newMediaService(db *gorm.DB, source *fakeSource) *MediaService {
	return NewMediaService(
		repository.NewMediaRepository(db),
		repository.NewReviewRepository(db),
		repository.NewSavedRepository(db),
		source,
		24*time.Hour,
	)
}

func TestForceSyncBypassesDetailCache(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{movie: &tmdb.MovieDetails{
		ID: 603, Title: "The Matrix Resurrections", OriginalLanguage: "en",
	}}
	svc := newMediaService(db, source)

	// 先有一份旧镜像
	require.NoError(t, db.Create(&model.Movie{
		ID: 603, Title: "The Matrix", CachedAt: time.Now().Add(-time.Hour),
	}).Error)

	require.NoError(t, svc.ForceSync(context.Background(), model.MediaTypeMovie, 603))

	// 必须先失效缓存再回源，否则拿到的还是缓存里的旧详情
	assert.Equal(t, []string{"invalidate_movie", "get_movie"}, source.calls)

	var movie model.Movie
	require.NoError(t, db.First(&movie, "id = ?", 603).Error)
	assert.Equal(t, "The Matrix Resurrections", movie.Title)
}

func TestForceSyncTV(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{tv: &tmdb.TVDetails{
		ID: 1396, Name: "Breaking Bad", OriginalLanguage: "en",
	}}
	svc := newMediaService(db, source)

	require.NoError(t, svc.ForceSync(context.Background(), model.MediaTypeTV, 1396))
	assert.Equal(t, []string{"invalidate_tv", "get_tv"}, source.calls)
}

func TestForceSyncInvalidMediaType(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{}
	svc := newMediaService(db, source)

	err := svc.ForceSync(context.Background(), "book", 1)
	assert.ErrorIs(t, err, ErrInvalidMediaType)
	assert.Empty(t, source.calls)
}

func TestSyncMirrorNotFound(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{err: tmdb.ErrNotFound}
	svc := newMediaService(db, source)

	err := svc.SyncMirror(context.Background(), model.MediaTypeMovie, 999999)
	assert.ErrorIs(t, err, ErrMediaNotFound)

	var count int64
	require.NoError(t, db.Model(&model.Movie{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetDetailSyncsMissingMirror(t *testing.T) {
	db := newTestDB(t)
	source := &fakeSource{movie: &tmdb.MovieDetails{
		ID: 603, Title: "The Matrix", OriginalLanguage: "en",
	}}
	svc := newMediaService(db, source)
	user := createTestUser(t, db, "alice")

	data, err := svc.GetDetail(context.Background(), user.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", data.Media.Title)
	assert.Equal(t, []string{"get_movie"}, source.calls)
}

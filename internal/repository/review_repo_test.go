package repository

import (
	"sync"
	"testing"
	"time"

	"deeperweave/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 单连接串行化，避免共享内存库的锁竞争
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.TVShow{},
		&model.Review{},
		&model.ReviewMention{},
		&model.RewatchCounter{},
	))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{UserName: username, Email: username + "@test.com", Password: "x", UserRole: "user"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedMovie(t *testing.T, db *gorm.DB, id int64, title string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Movie{ID: id, Title: title, CachedAt: time.Now()}).Error)
}

func newReview(userID, movieID int64, watchedOn time.Time) *model.Review {
	return &model.Review{
		UserID:    userID,
		MovieID:   &movieID,
		Rating:    4,
		WatchedOn: watchedOn,
	}
}

func TestCreateFillsRewatchCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	user := seedUser(t, db, "alice")
	seedMovie(t, db, 603, "The Matrix")

	first := newReview(user.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(first, nil))
	assert.Equal(t, int64(1), first.RewatchCount)
	assert.False(t, first.IsRewatch)

	second := newReview(user.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(second, nil))
	assert.Equal(t, int64(2), second.RewatchCount)
	assert.True(t, second.IsRewatch)
}

func TestRewatchCountsPerUserPerMedia(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedMovie(t, db, 603, "The Matrix")
	seedMovie(t, db, 604, "The Matrix Reloaded")

	r1 := newReview(alice.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(r1, nil))

	// Another user on the same movie starts its own counter
	r2 := newReview(bob.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(r2, nil))
	assert.Equal(t, int64(1), r2.RewatchCount)

	// Same user on another movie starts its own counter
	r3 := newReview(alice.ID, 604, time.Now())
	require.NoError(t, repo.CreateWithMentions(r3, nil))
	assert.Equal(t, int64(1), r3.RewatchCount)
}

func TestConcurrentCreatesYieldDistinctCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	user := seedUser(t, db, "alice")
	seedMovie(t, db, 603, "The Matrix")

	const n = 10
	var wg sync.WaitGroup
	results := make(chan int64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			review := newReview(user.ID, 603, time.Now())
			if err := repo.CreateWithMentions(review, nil); err == nil {
				results <- review.RewatchCount
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	count := 0
	for c := range results {
		assert.False(t, seen[c], "duplicate rewatch count %d", c)
		seen[c] = true
		count++
	}
	assert.Equal(t, n, count)
}

func TestCreateWithMentionsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")
	seedMovie(t, db, 603, "The Matrix")

	review := newReview(alice.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(review, []int64{bob.ID, carol.ID}))

	var mentions []model.ReviewMention
	require.NoError(t, db.Where("review_id = ?", review.ID).Find(&mentions).Error)
	assert.Len(t, mentions, 2)
}

func TestDeleteDecrementsCounter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	user := seedUser(t, db, "alice")
	seedMovie(t, db, 603, "The Matrix")

	r1 := newReview(user.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(r1, nil))
	r2 := newReview(user.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(r2, nil))

	require.NoError(t, repo.Delete(r2.ID))

	count, err := repo.GetWatchCount(user.ID, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The next review picks up from the decremented counter
	r3 := newReview(user.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(r3, nil))
	assert.Equal(t, int64(2), r3.RewatchCount)
}

func TestDeleteRemovesMentions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedMovie(t, db, 603, "The Matrix")

	review := newReview(alice.ID, 603, time.Now())
	require.NoError(t, repo.CreateWithMentions(review, []int64{bob.ID}))
	require.NoError(t, repo.Delete(review.ID))

	var mentionCount int64
	require.NoError(t, db.Model(&model.ReviewMention{}).Where("review_id = ?", review.ID).Count(&mentionCount).Error)
	assert.Zero(t, mentionCount)

	_, err := repo.GetByID(review.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByUserOrderedByWatchedOn(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)
	user := seedUser(t, db, "alice")
	seedMovie(t, db, 603, "The Matrix")
	seedMovie(t, db, 604, "The Matrix Reloaded")

	older := newReview(user.ID, 603, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateWithMentions(older, nil))
	newer := newReview(user.ID, 604, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.CreateWithMentions(newer, nil))

	reviews, total, err := repo.ListByUser(user.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, reviews, 2)
	assert.Equal(t, newer.ID, reviews[0].ID)
	assert.Equal(t, older.ID, reviews[1].ID)
}

func TestGetWatchCountMissingReturnsZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReviewRepository(db)

	count, err := repo.GetWatchCount(42, model.MediaTypeMovie, 603)
	require.NoError(t, err)
	assert.Zero(t, count)
}

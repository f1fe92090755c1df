package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/config"
	infraKafka "deeperweave/internal/infra/kafka"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout", ""); err != nil {
		panic(err)
	}
	config.Set(&config.Config{
		App: config.AppConfig{Name: "deeperweave-test"},
		JWT: config.JWTConfig{Secret: "test-secret", ExpireHours: 1},
	})
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

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
		&model.SavedItem{},
		&model.Follow{},
	))

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{UserName: username, Email: username + "@test.com", Password: "x", UserRole: "user"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeMirror 记录同步调用，可注入失败
type fakeMirror struct {
	calls int
	err   error
}

func (m *fakeMirror) SyncMirror(ctx context.Context, mediaType string, mediaID int64) error {
	m.calls++
	return m.err
}

// fakeStorage 记录上传调用，可注入失败
type fakeStorage struct {
	uploads []string
	err     error
}

func (s *fakeStorage) UploadPublic(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	s.uploads = append(s.uploads, objectName)
	if s.err != nil {
		return "", s.err
	}
	return "http://storage.test/" + objectName, nil
}

// fakePublisher 收集发布的活动事件
type fakePublisher struct {
	events []*infraKafka.ActivityEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, event *infraKafka.ActivityEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newReviewService(db *gorm.DB, mirror MirrorSyncer, storage ObjectStorage, events EventPublisher) *ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
		mirror,
		storage,
		events,
	)
}

func reviewCreateReq(mediaType string, mediaID int64) *dto.ReviewCreateRequest {
	return &dto.ReviewCreateRequest{
		MediaType: mediaType,
		MediaID:   mediaID,
		Rating:    4.5,
		Content:   "很好看",
		WatchedOn: "2026-08-15",
	}
}

func TestReviewCreatePublishesEvent(t *testing.T) {
	db := newTestDB(t)
	mirror := &fakeMirror{}
	publisher := &fakePublisher{}
	svc := newReviewService(db, mirror, &fakeStorage{}, publisher)
	user := createTestUser(t, db, "alice")

	info, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), info.RewatchCount)
	assert.False(t, info.IsRewatch)
	assert.Equal(t, 1, mirror.calls)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, infraKafka.EventReviewCreated, event.Type)
	assert.Equal(t, user.ID, event.ActorID)
	assert.Equal(t, model.MediaTypeMovie, event.MediaType)
	assert.Equal(t, int64(603), event.MediaID)
}

func TestReviewCreateMirrorFailureAborts(t *testing.T) {
	db := newTestDB(t)
	mirror := &fakeMirror{err: errors.New("upstream down")}
	publisher := &fakePublisher{}
	svc := newReviewService(db, mirror, &fakeStorage{}, publisher)
	user := createTestUser(t, db, "alice")

	_, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), nil)
	assert.ErrorIs(t, err, ErrMediaSyncFailed)

	var count int64
	require.NoError(t, db.Model(&model.Review{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, publisher.events)
}

func TestReviewCreateMirrorNotFoundPropagates(t *testing.T) {
	db := newTestDB(t)
	mirror := &fakeMirror{err: ErrMediaNotFound}
	svc := newReviewService(db, mirror, &fakeStorage{}, &fakePublisher{})
	user := createTestUser(t, db, "alice")

	_, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), nil)
	assert.ErrorIs(t, err, ErrMediaNotFound)
}

func TestReviewCreateRejectsBadAttachmentBeforeAnyWork(t *testing.T) {
	db := newTestDB(t)
	mirror := &fakeMirror{}
	storage := &fakeStorage{}
	svc := newReviewService(db, mirror, storage, &fakePublisher{})
	user := createTestUser(t, db, "alice")

	tooLarge := &ReviewAttachment{
		Reader:      bytes.NewReader(nil),
		Size:        maxAttachmentSize + 1,
		ContentType: "image/png",
		Filename:    "big.png",
	}
	_, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), tooLarge)
	assert.ErrorIs(t, err, ErrAttachmentTooLarge)

	badType := &ReviewAttachment{
		Reader:      bytes.NewReader([]byte("%PDF")),
		Size:        4,
		ContentType: "application/pdf",
		Filename:    "doc.pdf",
	}
	_, err = svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), badType)
	assert.ErrorIs(t, err, ErrAttachmentBadType)

	// Rejected before mirror sync and upload
	assert.Zero(t, mirror.calls)
	assert.Empty(t, storage.uploads)
}

func TestReviewCreateUploadFailureStillCreates(t *testing.T) {
	db := newTestDB(t)
	storage := &fakeStorage{err: errors.New("minio unavailable")}
	svc := newReviewService(db, &fakeMirror{}, storage, &fakePublisher{})
	user := createTestUser(t, db, "alice")

	attachment := &ReviewAttachment{
		Reader:      bytes.NewReader([]byte("png-bytes")),
		Size:        9,
		ContentType: "image/png",
		Filename:    "still.png",
	}
	info, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), attachment)
	require.NoError(t, err)
	assert.Empty(t, info.AttachmentURLs)
	assert.Len(t, storage.uploads, 1)
}

func TestReviewCreateStoresAttachmentURL(t *testing.T) {
	db := newTestDB(t)
	storage := &fakeStorage{}
	svc := newReviewService(db, &fakeMirror{}, storage, &fakePublisher{})
	user := createTestUser(t, db, "alice")

	attachment := &ReviewAttachment{
		Reader:      bytes.NewReader([]byte("png-bytes")),
		Size:        9,
		ContentType: "image/png",
		Filename:    "ticket.png",
	}
	info, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), attachment)
	require.NoError(t, err)
	require.Len(t, info.AttachmentURLs, 1)
	assert.Contains(t, info.AttachmentURLs[0], "reviews/")
}

func TestReviewCreateFiltersMentions(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	svc := newReviewService(db, &fakeMirror{}, &fakeStorage{}, publisher)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	req := reviewCreateReq(model.MediaTypeMovie, 603)
	// Self, duplicate and a nonexistent user all get dropped
	req.WatchedWith = []int64{alice.ID, bob.ID, bob.ID, 99999}

	info, err := svc.Create(context.Background(), alice.ID, req, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob.ID}, info.WatchedWith)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, []int64{bob.ID}, publisher.events[0].MentionedUserIDs)

	var mentionCount int64
	require.NoError(t, db.Model(&model.ReviewMention{}).Count(&mentionCount).Error)
	assert.Equal(t, int64(1), mentionCount)
}

func TestReviewCreateInvalidWatchedOn(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db, &fakeMirror{}, &fakeStorage{}, &fakePublisher{})
	user := createTestUser(t, db, "alice")

	req := reviewCreateReq(model.MediaTypeMovie, 603)
	req.WatchedOn = "15/08/2026"
	_, err := svc.Create(context.Background(), user.ID, req, nil)
	assert.ErrorIs(t, err, ErrInvalidWatchedOn)
}

func TestReviewDeleteOwnershipAndEvent(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	svc := newReviewService(db, &fakeMirror{}, &fakeStorage{}, publisher)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	info, err := svc.Create(context.Background(), alice.ID, reviewCreateReq(model.MediaTypeMovie, 603), nil)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), bob.ID, info.ID)
	assert.ErrorIs(t, err, ErrReviewNoPermission)

	require.NoError(t, svc.Delete(context.Background(), alice.ID, info.ID))

	_, err = svc.Get(context.Background(), info.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, infraKafka.EventReviewDeleted, publisher.events[1].Type)
}

func TestReviewRewatchSequence(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db, &fakeMirror{}, &fakeStorage{}, nil)
	user := createTestUser(t, db, "alice")

	first, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), nil)
	require.NoError(t, err)
	assert.False(t, first.IsRewatch)

	second, err := svc.Create(context.Background(), user.ID, reviewCreateReq(model.MediaTypeMovie, 603), nil)
	require.NoError(t, err)
	assert.True(t, second.IsRewatch)
	assert.Equal(t, int64(2), second.RewatchCount)
}

func TestReviewListByUserPagination(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db, &fakeMirror{}, &fakeStorage{}, nil)
	user := createTestUser(t, db, "alice")

	for i := int64(1); i <= 3; i++ {
		req := reviewCreateReq(model.MediaTypeMovie, 600+i)
		req.WatchedOn = time.Date(2026, 8, int(i), 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		_, err := svc.Create(context.Background(), user.ID, req, nil)
		require.NoError(t, err)
	}

	data, err := svc.ListByUser(context.Background(), user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), data.Total)
	assert.Equal(t, int64(2), data.TotalPages)
	require.Len(t, data.Reviews, 2)
	// Newest watch date first
	assert.Equal(t, "2026-08-03", data.Reviews[0].WatchedOn)
}

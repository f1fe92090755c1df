package service

import (
	"context"
	"testing"

	infraKafka "deeperweave/internal/infra/kafka"
	"deeperweave/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFollowService(db *gorm.DB, events EventPublisher) *FollowService {
	return NewFollowService(
		repository.NewFollowRepository(db),
		repository.NewUserRepository(db),
		nil,
		events,
	)
}

func TestFollowToggleUpdatesCounts(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	svc := newFollowService(db, publisher)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	result, err := svc.Toggle(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, result.IsFollowing)
	assert.Equal(t, int64(1), result.FollowCount)
	assert.Equal(t, int64(1), result.FollowerCount)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, infraKafka.EventFollowCreated, event.Type)
	assert.Equal(t, alice.ID, event.ActorID)
	require.NotNil(t, event.TargetUserID)
	assert.Equal(t, bob.ID, *event.TargetUserID)
}

func TestFollowToggleTwiceUnfollows(t *testing.T) {
	db := newTestDB(t)
	publisher := &fakePublisher{}
	svc := newFollowService(db, publisher)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.Toggle(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	result, err := svc.Toggle(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, result.IsFollowing)
	assert.Zero(t, result.FollowCount)
	assert.Zero(t, result.FollowerCount)

	// Unfollow publishes no event
	assert.Len(t, publisher.events, 1)
}

func TestFollowCannotFollowSelf(t *testing.T) {
	db := newTestDB(t)
	svc := newFollowService(db, nil)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Toggle(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrCannotFollowSelf)

	status, err := svc.GetStatus(context.Background(), alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, status)
}

func TestFollowTargetMissing(t *testing.T) {
	db := newTestDB(t)
	svc := newFollowService(db, nil)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Toggle(context.Background(), alice.ID, 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFollowListsPreserveOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newFollowService(db, nil)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := svc.Toggle(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(context.Background(), alice.ID, carol.ID)
	require.NoError(t, err)

	data, err := svc.GetFollowing(context.Background(), alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), data.Total)
	require.Len(t, data.Users, 2)

	followers, err := svc.GetFollowers(context.Background(), bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers.Total)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, "alice", followers.Users[0].Username)
}

func TestFollowMutual(t *testing.T) {
	db := newTestDB(t)
	svc := newFollowService(db, nil)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	_, err := svc.Toggle(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)

	mutual, err := svc.GetMutualFollows(context.Background(), alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), mutual.Total)
	require.Len(t, mutual.Users, 1)
	assert.Equal(t, "bob", mutual.Users[0].Username)
}

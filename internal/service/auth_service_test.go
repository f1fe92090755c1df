package service

import (
	"context"
	"testing"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerReq(username string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username: username,
		Email:    username + "@test.com",
		Password: "password123",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	info, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, "alice@test.com", info.Email)
	assert.Equal(t, "user", info.UserRole)

	token, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, info.ID, token.User.ID)
}

func TestLoginByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice@test.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", token.User.Username)
}

func TestRegisterDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq("alice"))
	assert.ErrorIs(t, err, ErrUsernameExists)

	req := registerReq("alice2")
	req.Email = "alice@test.com"
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	_, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Username: "nobody",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetMe(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db))

	info, err := svc.Register(context.Background(), registerReq("alice"))
	require.NoError(t, err)

	me, err := svc.GetMe(context.Background(), info.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = svc.GetMe(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

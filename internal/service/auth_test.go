package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/FireKid846/TG-bot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T, ownerID int64) (*AuthService, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(testNow)
	configs, _ := newFileConfigService(t)
	sessions := NewSessionManager(6 * time.Hour).WithClock(clock.Now)
	return NewAuthService(configs, sessions, ownerID), clock
}

func TestAuthService_IsAdmin(t *testing.T) {
	auth, _ := newTestAuthService(t, 777)

	tests := []struct {
		name           string
		userID         int64
		username       string
		expectedResult bool
	}{
		{name: "fixed admin username", userID: 1, username: "firekidffx", expectedResult: true},
		{name: "owner id", userID: 777, username: "", expectedResult: true},
		{name: "regular user", userID: 2, username: "alice", expectedResult: false},
		{name: "admin username is case sensitive", userID: 3, username: "FireKidFFX", expectedResult: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := auth.IsAdmin(testutil.NewTestUser(tt.userID, tt.username))
			assert.Equal(t, tt.expectedResult, result)
		})
	}
}

func TestAuthService_NoOwnerConfigured(t *testing.T) {
	auth, _ := newTestAuthService(t, 0)

	assert.False(t, auth.IsOwner(0))
	assert.False(t, auth.IsAdmin(testutil.NewTestUser(0, "")))
}

func TestAuthService_Authenticate(t *testing.T) {
	tests := []struct {
		name           string
		username       string
		password       string
		expectedResult bool
	}{
		{name: "bootstrap credential", username: "firekidffx", password: "ahmed@ibmk", expectedResult: true},
		{name: "wrong password", username: "firekidffx", password: "wrong", expectedResult: false},
		{name: "unknown user", username: "bob", password: "ahmed@ibmk", expectedResult: false},
		{name: "empty password", username: "firekidffx", password: "", expectedResult: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, _ := newTestAuthService(t, 0)
			ctx := context.Background()

			ok, err := auth.Authenticate(ctx, 42, tt.username, tt.password)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedResult, ok)
			assert.Equal(t, tt.expectedResult, auth.IsAuthenticated(testutil.NewTestUser(42, "someone")))
		})
	}
}

func TestAuthService_EnrollThenLogin(t *testing.T) {
	auth, clock := newTestAuthService(t, 0)
	ctx := context.Background()
	alice := testutil.NewTestUser(42, "alice")

	require.NoError(t, auth.Enroll(ctx, "alice", "secret123"))

	ok, err := auth.Authenticate(ctx, alice.UserID, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Authenticate(ctx, alice.UserID, "alice", "secret123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, auth.IsAuthenticated(alice))

	clock.Advance(6 * time.Hour)
	assert.False(t, auth.IsAuthenticated(alice))
}

func TestAuthService_EnrollOverwrites(t *testing.T) {
	auth, _ := newTestAuthService(t, 0)
	ctx := context.Background()

	require.NoError(t, auth.Enroll(ctx, "alice", "first"))
	require.NoError(t, auth.Enroll(ctx, "alice", "second"))

	ok, err := auth.Authenticate(ctx, 42, "alice", "first")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = auth.Authenticate(ctx, 42, "alice", "second")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_Logout(t *testing.T) {
	auth, _ := newTestAuthService(t, 0)
	ctx := context.Background()

	assert.False(t, auth.Logout(42))

	_, err := auth.Authenticate(ctx, 42, "firekidffx", "ahmed@ibmk")
	require.NoError(t, err)

	assert.True(t, auth.Logout(42))
	assert.False(t, auth.IsAuthenticated(testutil.NewTestUser(42, "alice")))
}

func TestAuthService_AuthenticateStorageError(t *testing.T) {
	local := new(testutil.MockConfigRepository)
	local.On("Load", mock.Anything).Return(nil, fmt.Errorf("disk failure"))

	configs := NewConfigService(local, 2, testutil.NewTestLogger())
	sessions := NewSessionManager(time.Hour)
	auth := NewAuthService(configs, sessions, 0)

	ok, err := auth.Authenticate(context.Background(), 42, "firekidffx", "ahmed@ibmk")

	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, sessions.Len())
}

package middleware

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/FireKid846/TG-bot/internal/repository/file"
	"github.com/FireKid846/TG-bot/internal/service"
	"github.com/FireKid846/TG-bot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

const ownerID = 777

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	logger := testutil.NewTestLogger()
	repo := file.NewConfigRepo(filepath.Join(t.TempDir(), "config.json"))
	configs := service.NewConfigService(repo, 2, logger)
	return service.NewAuthService(configs, service.NewSessionManager(time.Hour), ownerID)
}

func passThrough(called *bool) tele.HandlerFunc {
	return func(c tele.Context) error {
		*called = true
		return c.Send("ok")
	}
}

func TestRequireLogin(t *testing.T) {
	auth := newTestAuthService(t)
	_, err := auth.Authenticate(context.Background(), 42, "firekidffx", "ahmed@ibmk")
	require.NoError(t, err)

	tests := []struct {
		name          string
		userID        int64
		username      string
		expectedCall  bool
		expectedReply string
	}{
		{name: "logged in", userID: 42, username: "alice", expectedCall: true, expectedReply: "ok"},
		{name: "no session", userID: 43, username: "bob", expectedCall: false, expectedReply: "Please login first"},
		{name: "admin username", userID: 44, username: "firekidffx", expectedCall: true, expectedReply: "ok"},
		{name: "owner", userID: ownerID, username: "", expectedCall: true, expectedReply: "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			c := testutil.NewFakeContext(tt.userID, tt.username, "/stats")

			err := RequireLogin(auth, testutil.NewTestLogger())(passThrough(&called))(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCall, called)
			assert.Equal(t, tt.expectedReply, c.LastReply())
		})
	}
}

func TestRequireOwner(t *testing.T) {
	auth := newTestAuthService(t)
	// a session alone does not grant owner commands
	_, err := auth.Authenticate(context.Background(), 42, "firekidffx", "ahmed@ibmk")
	require.NoError(t, err)

	tests := []struct {
		name          string
		userID        int64
		username      string
		expectedCall  bool
		expectedReply string
	}{
		{name: "owner", userID: ownerID, username: "someone", expectedCall: true, expectedReply: "ok"},
		{name: "admin", userID: 1, username: "firekidffx", expectedCall: true, expectedReply: "ok"},
		{name: "logged in user", userID: 42, username: "alice", expectedCall: false, expectedReply: "Access denied"},
		{name: "stranger", userID: 2, username: "bob", expectedCall: false, expectedReply: "Access denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			c := testutil.NewFakeContext(tt.userID, tt.username, "/activate")

			err := RequireOwner(auth, testutil.NewTestLogger())(passThrough(&called))(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCall, called)
			assert.Equal(t, tt.expectedReply, c.LastReply())
		})
	}
}

func TestSender(t *testing.T) {
	c := testutil.NewFakeContext(5, "alice", "")
	assert.Equal(t, testutil.NewTestUser(5, "alice"), Sender(c))

	c.User = nil
	assert.Equal(t, testutil.NewTestUser(0, ""), Sender(c))
}

package testutil

import (
	"fmt"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// FakeContext is a tele.Context recording replies. Only Sender, Text and
// Send are implemented; any other call panics.
type FakeContext struct {
	tele.Context

	User    *tele.User
	Message string

	mu      sync.Mutex
	replies []string
}

// NewFakeContext creates a context for a text update from the given user
func NewFakeContext(userID int64, username, text string) *FakeContext {
	return &FakeContext{
		User:    &tele.User{ID: userID, Username: username},
		Message: text,
	}
}

func (c *FakeContext) Sender() *tele.User {
	return c.User
}

func (c *FakeContext) Text() string {
	return c.Message
}

func (c *FakeContext) Send(what interface{}, _ ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies = append(c.replies, fmt.Sprint(what))
	return nil
}

// Replies returns every message sent so far
func (c *FakeContext) Replies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.replies...)
}

// LastReply returns the most recent message, or "" if none was sent
func (c *FakeContext) LastReply() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.replies) == 0 {
		return ""
	}
	return c.replies[len(c.replies)-1]
}

package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleFlow advances the sender's pending login or enrollment flow.
// Text from senders with no pending flow is ignored. Usernames are trimmed;
// passwords are used exactly as sent.
func (h *Handler) handleFlow(c tele.Context) error {
	who := middleware.Sender(c)
	text := c.Text()
	state := h.states.Get(who.UserID)
	if !state.Active() {
		return nil
	}

	switch state.State {
	case domain.StateNeedUsername:
		h.states.Set(who.UserID, &domain.StateData{State: domain.StateNeedPassword, Username: strings.TrimSpace(text)})
		return c.Send("Enter your password:")

	case domain.StateNeedPassword:
		return h.handlePasswordInput(c, who, state.Username, text)

	case domain.StateNewUserName:
		h.states.Set(who.UserID, &domain.StateData{State: domain.StateNewUserPass, Username: strings.TrimSpace(text)})
		return c.Send("Enter password for new user:")

	case domain.StateNewUserPass:
		return h.handleNewUserPassword(c, who, state.Username, text)

	default:
		return nil
	}
}

// handlePasswordInput allows exactly one attempt, then ends the flow
func (h *Handler) handlePasswordInput(c tele.Context, who domain.Identity, username, password string) error {
	h.states.Clear(who.UserID)

	ok, err := h.authService.Authenticate(context.Background(), who.UserID, username, password)
	if err != nil {
		return h.internalError(c, "Failed to check credentials", err)
	}

	if !ok {
		h.logger.Warn("Failed login attempt",
			zap.Int64("user_id", who.UserID),
			zap.String("username", username),
		)
		return c.Send("Invalid credentials")
	}

	h.logger.Info("User logged in",
		zap.Int64("user_id", who.UserID),
		zap.String("username", username),
	)
	return c.Send("Login successful!")
}

func (h *Handler) handleNewUserPassword(c tele.Context, who domain.Identity, username, password string) error {
	h.states.Clear(who.UserID)

	if err := h.authService.Enroll(context.Background(), username, password); err != nil {
		return h.internalError(c, "Failed to create user", err)
	}

	h.logger.Info("User enrolled",
		zap.Int64("by_user_id", who.UserID),
		zap.String("username", username),
	)
	return c.Send(fmt.Sprintf("User '%s' created successfully!", username))
}

package handler

import (
	"context"
	"fmt"

	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleNewUser starts the enrollment flow
func (h *Handler) handleNewUser(c tele.Context) error {
	h.states.Set(middleware.Sender(c).UserID, &domain.StateData{State: domain.StateNewUserName})
	return c.Send("Enter new username:")
}

func (h *Handler) handleActivate(c tele.Context) error {
	return h.setMonitoring(c, true, "Monitoring activated!")
}

func (h *Handler) handleDeactivate(c tele.Context) error {
	return h.setMonitoring(c, false, "Monitoring deactivated!")
}

func (h *Handler) setMonitoring(c tele.Context, active bool, reply string) error {
	if err := h.configService.SetMonitoring(context.Background(), active); err != nil {
		return h.internalError(c, "Failed to change monitoring state", err)
	}

	h.logger.Info("Monitoring state changed",
		zap.Int64("user_id", middleware.Sender(c).UserID),
		zap.Bool("active", active),
	)
	return c.Send(reply)
}

func (h *Handler) handlePrefix(c tele.Context) error {
	args := commandArgs(c)
	if len(args) == 0 {
		return c.Send(fmt.Sprintf("Usage: %sprefix <new_prefix>", h.Prefix()))
	}

	prefix := args[0]
	if err := h.configService.SetPrefix(context.Background(), prefix); err != nil {
		return h.internalError(c, "Failed to change prefix", err)
	}
	h.SetPrefix(prefix)

	h.logger.Info("Command prefix changed",
		zap.Int64("user_id", middleware.Sender(c).UserID),
		zap.String("prefix", prefix),
	)
	return c.Send(fmt.Sprintf("Command prefix changed to: %s", prefix))
}

func (h *Handler) handleResetStats(c tele.Context) error {
	if err := h.statsService.Reset(context.Background()); err != nil {
		return h.internalError(c, "Failed to reset statistics", err)
	}
	return c.Send("Statistics reset")
}

package handler

import (
	"fmt"
	"strings"

	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart greets admins by name and everyone else vaguely
func (h *Handler) handleStart(c tele.Context) error {
	who := middleware.Sender(c)

	h.logger.Info("User started bot",
		zap.Int64("user_id", who.UserID),
		zap.String("username", who.Username),
	)

	if h.authService.IsAdmin(who) {
		return c.Send(fmt.Sprintf(
			"Welcome admin @%s! You have full access. Use %scommands to see available commands.",
			who.Username, h.Prefix(),
		))
	}
	return c.Send("Whatsup, i think you are lost, if you are not, Please state your business")
}

// handleLogin starts the username/password flow
func (h *Handler) handleLogin(c tele.Context) error {
	who := middleware.Sender(c)

	if h.authService.IsAdmin(who) {
		return c.Send("You are admin, no login needed!")
	}
	if h.authService.IsAuthenticated(who) {
		return c.Send("You are already logged in!")
	}

	h.states.Set(who.UserID, &domain.StateData{State: domain.StateNeedUsername})
	return c.Send("Enter your username:")
}

func (h *Handler) handleLogout(c tele.Context) error {
	who := middleware.Sender(c)

	if h.authService.Logout(who.UserID) {
		h.logger.Info("User logged out", zap.Int64("user_id", who.UserID))
		return c.Send("Logged out successfully!")
	}
	return c.Send("You are not logged in.")
}

// handleCommands lists the command surface using the live prefix
func (h *Handler) handleCommands(c tele.Context) error {
	p := h.Prefix()

	var b strings.Builder
	b.WriteString("Available commands:\n")
	fmt.Fprintf(&b, "%scommands - Show this list\n", p)
	fmt.Fprintf(&b, "%sstats - Show statistics\n", p)
	fmt.Fprintf(&b, "%scooldown <minutes> - Set cooldown\n", p)
	fmt.Fprintf(&b, "%sforwardgrp @group - Set forward destination\n", p)
	fmt.Fprintf(&b, "%schanneladd @channel - Add channel\n", p)
	fmt.Fprintf(&b, "%sgroupadd @group - Add group\n", p)
	fmt.Fprintf(&b, "%sremovechannel <tag> - Remove channel\n", p)
	fmt.Fprintf(&b, "%sremovegroup <tag> - Remove group\n", p)
	fmt.Fprintf(&b, "%swords word1,word2,word3 - Set keywords\n", p)
	fmt.Fprintf(&b, "%sremoveword <word> - Remove keyword\n", p)
	fmt.Fprintf(&b, "%slistkeywords - List keywords\n", p)
	fmt.Fprintf(&b, "%slistchannels - List channels\n", p)
	fmt.Fprintf(&b, "%slistgroups - List groups\n", p)
	fmt.Fprintf(&b, "%sshowconfig - Show configuration\n", p)
	fmt.Fprintf(&b, "%slogout - Logout", p)

	if h.authService.IsAdmin(middleware.Sender(c)) {
		b.WriteString("\n\nOwner/Admin only:\n")
		fmt.Fprintf(&b, "%snewuser - Add new user\n", p)
		fmt.Fprintf(&b, "%sactivate - Start monitoring\n", p)
		fmt.Fprintf(&b, "%sdeactivate - Stop monitoring\n", p)
		fmt.Fprintf(&b, "%sprefix <new> - Change prefix\n", p)
		fmt.Fprintf(&b, "%sresetstats - Reset statistics", p)
	}

	return c.Send(b.String())
}

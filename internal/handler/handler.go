package handler

import (
	"strings"
	"sync"

	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/middleware"
	"github.com/FireKid846/TG-bot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const msgInternalError = "Something went wrong. Please try again later."

// Handler manages all bot interactions
type Handler struct {
	bot           *tele.Bot
	authService   *service.AuthService
	configService *service.ConfigService
	statsService  *service.StatsService
	states        *service.StateStore
	logger        *zap.Logger

	// Command prefix mirrored from the config document
	prefix    string
	prefixMux sync.RWMutex

	commands map[string]tele.HandlerFunc
}

// NewHandler creates a new handler instance. bot may be nil when the
// handler is driven directly, as in tests.
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	configService *service.ConfigService,
	statsService *service.StatsService,
	states *service.StateStore,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		bot:           bot,
		authService:   authService,
		configService: configService,
		statsService:  statsService,
		states:        states,
		logger:        logger,
		prefix:        domain.DefaultPrefix,
	}
	h.commands = h.commandTable()
	configService.OnLoad(h.syncPrefix)
	return h
}

func (h *Handler) commandTable() map[string]tele.HandlerFunc {
	authed := middleware.RequireLogin(h.authService, h.logger)
	owner := middleware.RequireOwner(h.authService, h.logger)
	privileged := func(next tele.HandlerFunc) tele.HandlerFunc { return owner(authed(next)) }

	return map[string]tele.HandlerFunc{
		"start":  h.handleStart,
		"login":  h.handleLogin,
		"logout": h.handleLogout,

		"newuser":    privileged(h.handleNewUser),
		"activate":   privileged(h.handleActivate),
		"deactivate": privileged(h.handleDeactivate),
		"prefix":     privileged(h.handlePrefix),
		"resetstats": privileged(h.handleResetStats),

		"commands":      authed(h.handleCommands),
		"stats":         authed(h.handleStats),
		"forwardgrp":    authed(h.handleForwardGroup),
		"cooldown":      authed(h.handleCooldown),
		"channeladd":    authed(h.sourceAdder(domain.KindChannel)),
		"groupadd":      authed(h.sourceAdder(domain.KindGroup)),
		"removechannel": authed(h.sourceRemover(domain.KindChannel)),
		"removegroup":   authed(h.sourceRemover(domain.KindGroup)),
		"listchannels":  authed(h.sourceLister(domain.KindChannel)),
		"listgroups":    authed(h.sourceLister(domain.KindGroup)),
		"words":         authed(h.handleWords),
		"removeword":    authed(h.handleRemoveWord),
		"listkeywords":  authed(h.handleListKeywords),
		"showconfig":    authed(h.handleShowConfig),
	}
}

// RegisterHandlers registers all bot handlers. Commands are not registered
// with telebot directly because the prefix can change at runtime; every
// text update goes through the dispatcher instead.
func (h *Handler) RegisterHandlers(limiter *middleware.RateLimiter) {
	if limiter != nil {
		h.bot.Use(limiter.Middleware())
	}
	h.bot.Handle(tele.OnText, h.handleText)
}

// Prefix returns the current command prefix
func (h *Handler) Prefix() string {
	h.prefixMux.RLock()
	defer h.prefixMux.RUnlock()
	return h.prefix
}

// SetPrefix changes the prefix the dispatcher accepts besides "/"
func (h *Handler) SetPrefix(prefix string) {
	if prefix == "" {
		prefix = domain.DefaultPrefix
	}
	h.prefixMux.Lock()
	defer h.prefixMux.Unlock()
	h.prefix = prefix
}

// syncPrefix follows prefix changes made elsewhere, such as on the mirror
func (h *Handler) syncPrefix(doc *domain.BotConfig) {
	if doc.CommandPrefix != h.Prefix() {
		h.SetPrefix(doc.CommandPrefix)
	}
}

// handleText routes commands to their handlers and everything else into
// the pending login or enrollment flow
func (h *Handler) handleText(c tele.Context) error {
	if name, ok := h.parseCommand(c.Text()); ok {
		h.logger.Debug("Dispatching command",
			zap.Int64("user_id", middleware.Sender(c).UserID),
			zap.String("command", name),
		)
		return h.commands[name](c)
	}
	return h.handleFlow(c)
}

// parseCommand extracts a known command name from text. Both the
// configured prefix and "/" are accepted; a trailing @botname is dropped.
func (h *Handler) parseCommand(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	token := fields[0]

	for _, prefix := range []string{h.Prefix(), domain.DefaultPrefix} {
		if !strings.HasPrefix(token, prefix) {
			continue
		}
		name := strings.TrimPrefix(token, prefix)
		if at := strings.Index(name, "@"); at >= 0 {
			name = name[:at]
		}
		if _, known := h.commands[name]; known {
			return name, true
		}
	}
	return "", false
}

// commandArgs returns the whitespace separated arguments after the command
func commandArgs(c tele.Context) []string {
	fields := strings.Fields(c.Text())
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

func (h *Handler) internalError(c tele.Context, msg string, err error) error {
	h.logger.Error(msg,
		zap.Int64("user_id", middleware.Sender(c).UserID),
		zap.Error(err),
	)
	return c.Send(msgInternalError)
}

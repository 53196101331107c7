package middleware

import (
	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgLoginFirst   = "Please login first"
	msgAccessDenied = "Access denied"
)

// Sender returns the Telegram identity behind an update
func Sender(c tele.Context) domain.Identity {
	u := c.Sender()
	if u == nil {
		return domain.Identity{}
	}
	return domain.Identity{UserID: u.ID, Username: u.Username}
}

// RequireLogin lets through only senders with a live session. Admins always pass.
func RequireLogin(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			who := Sender(c)
			if !authService.IsAuthenticated(who) {
				logger.Info("Rejected unauthenticated command",
					zap.Int64("user_id", who.UserID),
					zap.String("text", c.Text()),
				)
				return c.Send(msgLoginFirst)
			}
			return next(c)
		}
	}
}

// RequireOwner lets through only the owner and the admin
func RequireOwner(authService *service.AuthService, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			who := Sender(c)
			if !authService.IsAdmin(who) {
				logger.Warn("Access denied",
					zap.Int64("user_id", who.UserID),
					zap.String("username", who.Username),
					zap.String("text", c.Text()),
				)
				return c.Send(msgAccessDenied)
			}
			return next(c)
		}
	}
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FireKid846/TG-bot/internal/domain"
	"github.com/FireKid846/TG-bot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// sourceAdder handles channeladd and groupadd
func (h *Handler) sourceAdder(kind domain.SourceKind) tele.HandlerFunc {
	command := string(kind) + "add"
	return func(c tele.Context) error {
		args := commandArgs(c)
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: %s%s @%s", h.Prefix(), command, kind))
		}

		name := args[0]
		tag, err := h.configService.AddSource(context.Background(), kind, name)
		switch {
		case errors.Is(err, domain.ErrInvalidHandle):
			return c.Send(kind.Title() + " name must start with @")
		case err != nil:
			return h.internalError(c, "Failed to add "+string(kind), err)
		}

		h.logger.Info("Source added",
			zap.Int64("user_id", middleware.Sender(c).UserID),
			zap.String("kind", string(kind)),
			zap.String("name", name),
			zap.String("tag", tag),
		)
		return c.Send(fmt.Sprintf("%s %s added with tag: %s", kind.Title(), name, kind.DisplayTag(tag)))
	}
}

// sourceRemover handles removechannel and removegroup
func (h *Handler) sourceRemover(kind domain.SourceKind) tele.HandlerFunc {
	command := "remove" + string(kind)
	return func(c tele.Context) error {
		args := commandArgs(c)
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: %s%s %s12345", h.Prefix(), command, kind.TagPrefix()))
		}

		removed, err := h.configService.RemoveSource(context.Background(), kind, args[0])
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Send(kind.Title() + " tag not found")
		case err != nil:
			return h.internalError(c, "Failed to remove "+string(kind), err)
		}

		return c.Send(fmt.Sprintf("%s %s removed", kind.Title(), removed.Name))
	}
}

// sourceLister handles listchannels and listgroups
func (h *Handler) sourceLister(kind domain.SourceKind) tele.HandlerFunc {
	return func(c tele.Context) error {
		doc, err := h.configService.Load(context.Background())
		if err != nil {
			return h.internalError(c, "Failed to load config", err)
		}

		sources := domain.SortedSources(doc.Collection(kind))
		if len(sources) == 0 {
			return c.Send(fmt.Sprintf("No %ss added", kind))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Monitored %ss:\n", kind)
		for _, src := range sources {
			fmt.Fprintf(&b, "• %s: %s\n", kind.DisplayTag(src.Tag), src.Name)
		}
		return c.Send(b.String())
	}
}

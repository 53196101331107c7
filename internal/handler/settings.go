package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FireKid846/TG-bot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

func (h *Handler) handleForwardGroup(c tele.Context) error {
	ctx := context.Background()
	args := commandArgs(c)

	if len(args) == 0 {
		doc, err := h.configService.Load(ctx)
		if err != nil {
			return h.internalError(c, "Failed to load config", err)
		}
		return c.Send(fmt.Sprintf("Current forward destination: %s\nUsage: %sforwardgrp @groupname",
			doc.Destination(), h.Prefix()))
	}

	group := args[0]
	err := h.configService.SetDestination(ctx, group)
	switch {
	case errors.Is(err, domain.ErrInvalidHandle):
		return c.Send("Group name must start with @ (e.g., @mygroup)")
	case err != nil:
		return h.internalError(c, "Failed to set forward destination", err)
	}

	return c.Send(fmt.Sprintf("✅ Forward destination set to: %s\n\nAll monitored messages will now be forwarded to this group.", group))
}

func (h *Handler) handleCooldown(c tele.Context) error {
	ctx := context.Background()
	args := commandArgs(c)

	if len(args) == 0 {
		doc, err := h.configService.Load(ctx)
		if err != nil {
			return h.internalError(c, "Failed to load config", err)
		}
		return c.Send(fmt.Sprintf("Current cooldown: %d minutes\nUsage: %scooldown <minutes>",
			doc.Cooldown, h.Prefix()))
	}

	minutes, err := domain.ParseCooldown(args[0])
	if err != nil {
		return c.Send("Cooldown must be between 1 and 60 minutes")
	}
	if err := h.configService.SetCooldown(ctx, minutes); err != nil {
		return h.internalError(c, "Failed to set cooldown", err)
	}

	return c.Send(fmt.Sprintf("Cooldown set to %d minutes", minutes))
}

// handleWords replaces the keyword list
func (h *Handler) handleWords(c tele.Context) error {
	args := commandArgs(c)
	if len(args) == 0 {
		return c.Send(fmt.Sprintf("Usage: %swords crypto,bitcoin,news", h.Prefix()))
	}

	keywords, err := h.configService.SetKeywords(context.Background(), strings.Join(args, " "))
	if err != nil {
		return h.internalError(c, "Failed to set keywords", err)
	}

	return c.Send("Keywords set: " + strings.Join(keywords, ", "))
}

func (h *Handler) handleRemoveWord(c tele.Context) error {
	args := commandArgs(c)
	if len(args) == 0 {
		return c.Send(fmt.Sprintf("Usage: %sremoveword keyword", h.Prefix()))
	}

	word := args[0]
	err := h.configService.RemoveKeyword(context.Background(), word)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Send("Keyword not found")
	case err != nil:
		return h.internalError(c, "Failed to remove keyword", err)
	}

	return c.Send(fmt.Sprintf("Keyword '%s' removed", word))
}

func (h *Handler) handleListKeywords(c tele.Context) error {
	doc, err := h.configService.Load(context.Background())
	if err != nil {
		return h.internalError(c, "Failed to load config", err)
	}

	if len(doc.Keywords) == 0 {
		return c.Send("No keywords set")
	}

	var b strings.Builder
	b.WriteString("Current keywords:")
	for _, word := range doc.Keywords {
		b.WriteString("\n• " + word)
	}
	return c.Send(b.String())
}

func (h *Handler) handleStats(c tele.Context) error {
	report, err := h.statsService.Report(context.Background())
	if err != nil {
		return h.internalError(c, "Failed to build statistics", err)
	}

	return c.Send(fmt.Sprintf(`📊 Statistics (Last 7 days):
Status: %s
Messages forwarded: %d
Keywords triggered: %d
Monitored channels: %d
Monitored groups: %d
Active keywords: %d
Days since reset: %d`,
		report.Status,
		report.MessagesForwarded,
		report.KeywordsTriggered,
		report.Channels,
		report.Groups,
		report.Keywords,
		report.DaysSinceReset,
	))
}

func (h *Handler) handleShowConfig(c tele.Context) error {
	doc, err := h.configService.Load(context.Background())
	if err != nil {
		return h.internalError(c, "Failed to load config", err)
	}

	var b strings.Builder
	b.WriteString("📋 Configuration:\n\n")
	fmt.Fprintf(&b, "Status: %s\n", doc.Status())
	fmt.Fprintf(&b, "Forward destination: %s\n", doc.Destination())
	fmt.Fprintf(&b, "Cooldown: %d minutes\n", doc.Cooldown)
	fmt.Fprintf(&b, "Command prefix: %s\n\n", doc.CommandPrefix)
	fmt.Fprintf(&b, "Keywords (%d): %s\n\n", len(doc.Keywords), strings.Join(doc.Keywords, ", "))

	fmt.Fprintf(&b, "Channels (%d):", len(doc.Channels))
	for _, src := range domain.SortedSources(doc.Channels) {
		fmt.Fprintf(&b, "\n• %s: %s", domain.KindChannel.DisplayTag(src.Tag), src.Name)
	}
	fmt.Fprintf(&b, "\n\nGroups (%d):", len(doc.Groups))
	for _, src := range domain.SortedSources(doc.Groups) {
		fmt.Fprintf(&b, "\n• %s: %s", domain.KindGroup.DisplayTag(src.Tag), src.Name)
	}

	return c.Send(b.String())
}

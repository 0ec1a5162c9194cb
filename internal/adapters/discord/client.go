package discord

import (
	"context"
	"log/slog"

	"command-registrar/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

type CommandSession interface {
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// Adapter publishes command definitions through the Discord REST API.
type Adapter struct {
	session CommandSession
}

func NewAdapter(session CommandSession) *Adapter {
	return &Adapter{session: session}
}

func (a *Adapter) BulkOverwrite(ctx context.Context, target domain.Target, commands []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	// A nil slice would be encoded as null; Discord expects [] to clear the set.
	if commands == nil {
		commands = []*discordgo.ApplicationCommand{}
	}

	ctx, body := withErrorBody(ctx)
	registered, err := a.session.ApplicationCommandBulkOverwrite(target.AppID, target.GuildID, commands, discordgo.WithContext(ctx))
	if err != nil {
		slog.Error("Bulk overwrite failed", "target", target, "count", len(commands), "error", err)
		return nil, translate(err, body)
	}

	slog.Info("Bulk overwrite accepted", "target", target, "count", len(registered))
	return registered, nil
}

func (a *Adapter) Create(ctx context.Context, target domain.Target, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	ctx, body := withErrorBody(ctx)
	result, err := a.session.ApplicationCommandCreate(target.AppID, target.GuildID, cmd, discordgo.WithContext(ctx))
	if err != nil {
		slog.Error("Cannot create command", "name", cmd.Name, "target", target, "error", err)
		return nil, translate(err, body)
	}

	slog.Info("Registered command", "name", cmd.Name, "target", target)
	return result, nil
}

func (a *Adapter) List(ctx context.Context, target domain.Target) ([]*discordgo.ApplicationCommand, error) {
	ctx, body := withErrorBody(ctx)
	commands, err := a.session.ApplicationCommands(target.AppID, target.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate(err, body)
	}
	return commands, nil
}

func (a *Adapter) Delete(ctx context.Context, target domain.Target, commandID string) error {
	ctx, body := withErrorBody(ctx)
	if err := a.session.ApplicationCommandDelete(target.AppID, target.GuildID, commandID, discordgo.WithContext(ctx)); err != nil {
		slog.Error("Cannot delete command", "id", commandID, "target", target, "error", err)
		return translate(err, body)
	}

	slog.Info("Deleted command", "id", commandID, "target", target)
	return nil
}

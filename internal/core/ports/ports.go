package ports

import (
	"context"

	"command-registrar/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

// Publisher is the provider side of command registration.
type Publisher interface {
	BulkOverwrite(ctx context.Context, target domain.Target, commands []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error)
	Create(ctx context.Context, target domain.Target, command *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	List(ctx context.Context, target domain.Target) ([]*discordgo.ApplicationCommand, error)
	Delete(ctx context.Context, target domain.Target, commandID string) error
}

type HistoryStore interface {
	LastDeployment(ctx context.Context, target domain.Target) (*domain.Deployment, error)
	RecordDeployment(ctx context.Context, d domain.Deployment) error
	History(ctx context.Context, target domain.Target, limit int) ([]domain.Deployment, error)
	Close()
}

// Localizer resolves description keys into the default text plus per-locale
// translations.
type Localizer interface {
	Resolve(key string) (text string, localizations map[discordgo.Locale]string, ok bool)
}

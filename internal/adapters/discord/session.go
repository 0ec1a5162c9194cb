package discord

import (
	"log/slog"
	"net/http"

	"command-registrar/internal/config"

	"github.com/bwmarrin/discordgo"
)

// NewSession builds a REST-only session; it never opens a gateway connection.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	discord, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		return nil, err
	}

	discord.Client = &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: NewMetricsRoundTripper(http.DefaultTransport),
	}
	// Provider errors halt the run; nothing is retried, rate limits included.
	discord.MaxRestRetries = 0
	discord.ShouldRetryOnRateLimit = false

	return discord, nil
}

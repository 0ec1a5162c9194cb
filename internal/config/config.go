package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"command-registrar/internal/core/domain"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Token          string            `env:"BOT_TOKEN"`
	AppID          string            `env:"APP_ID"`
	GuildID        string            `env:"GUILD_ID"`
	PacksDir       string            `env:"PACKS_DIR"`
	I18nDir        string            `env:"I18N_DIR"`
	Mode           domain.SubmitMode `env:"SUBMIT_MODE" envDefault:"bulk"`
	PostInterval   time.Duration     `env:"POST_INTERVAL" envDefault:"1s"`
	RequestTimeout time.Duration     `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	DatabaseURL    string            `env:"DATABASE_URL"`
	PushgatewayURL string            `env:"PUSHGATEWAY_URL"`
	LogLevel       string            `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string            `env:"LOG_FORMAT" envDefault:"text"`
}

// Override adjusts a parsed config before validation, e.g. from CLI flags.
type Override func(*Config)

// Load reads .env, the environment and secret files, applies overrides and
// validates the result.
func Load(overrides ...Override) (*Config, error) {
	cfg, err := parse(overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOffline is Load for commands that never reach Discord; credentials are
// not required.
func LoadOffline(overrides ...Override) (*Config, error) {
	cfg, err := parse(overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateOffline(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(overrides []Override) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if token := readSecret("bot_token"); token != "" {
		cfg.Token = token
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("DISCORD_TOKEN")
	}
	if dbURL := readSecret("database_url"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}

	for _, o := range overrides {
		o(&cfg)
	}

	return &cfg, nil
}

func (c *Config) Target() domain.Target {
	return domain.Target{AppID: c.AppID, GuildID: c.GuildID}
}

// Canary reports whether commands go to a single dev guild rather than the
// global production scope.
func (c *Config) Canary() bool {
	return c.GuildID != ""
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"command-registrar/internal/core/domain"
)

// Validation constants define acceptable bounds for configuration values
const (
	// Token validation
	minTokenLength = 50 // Discord tokens are typically 50+ characters

	// PostInterval validation
	minPostInterval = 100 * time.Millisecond // Below this Discord starts returning 429s
	maxPostInterval = 1 * time.Minute

	// RequestTimeout validation
	minRequestTimeout = 1 * time.Second
	maxRequestTimeout = 2 * time.Minute
)

// Validate checks if the configuration values are valid and within acceptable ranges.
// It returns all validation errors at once using errors.Join for better user experience.
//
// Validated fields:
//   - Token: Must be at least 50 characters (Discord token format)
//   - AppID: Required, must be a snowflake
//   - GuildID: Optional, must be a snowflake when set
//   - Mode: bulk or sequential
//   - PostInterval: Must be between 100ms and 1m
//   - RequestTimeout: Must be between 1s and 2m
//   - LogLevel / LogFormat: known values only
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateOffline is Validate without the credential checks.
func (c *Config) ValidateOffline() error {
	return c.validate(false)
}

func (c *Config) validate(credentials bool) error {
	var errs []error

	if credentials {
		if err := c.validateToken(); err != nil {
			errs = append(errs, err)
		}

		if err := c.validateAppID(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.GuildID != "" {
		if err := validateSnowflake("GUILD_ID", c.GuildID); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.validateMode(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validatePostInterval(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateRequestTimeout(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateLogging(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

// validateToken ensures the bot token is present and has valid length
func (c *Config) validateToken() error {
	if c.Token == "" {
		return fmt.Errorf("BOT_TOKEN is required but not set (via --token, secret or env var)")
	}

	if len(c.Token) < minTokenLength {
		return fmt.Errorf(
			"BOT_TOKEN appears invalid (too short: %d chars, expected %d+)",
			len(c.Token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateAppID() error {
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required but not set")
	}
	return validateSnowflake("APP_ID", c.AppID)
}

func validateSnowflake(field, value string) error {
	if _, err := strconv.ParseUint(value, 10, 64); err != nil {
		return fmt.Errorf("%s must be a numeric Discord id, got %q", field, value)
	}
	return nil
}

func (c *Config) validateMode() error {
	switch c.Mode {
	case domain.ModeBulk, domain.ModeSequential:
		return nil
	}
	return fmt.Errorf("SUBMIT_MODE must be %q or %q, got %q", domain.ModeBulk, domain.ModeSequential, c.Mode)
}

// validatePostInterval ensures the sequential pacing stays within sane limits
func (c *Config) validatePostInterval() error {
	if c.PostInterval < minPostInterval {
		return fmt.Errorf(
			"POST_INTERVAL must be at least %v to respect rate limits, got %v",
			minPostInterval, c.PostInterval,
		)
	}

	if c.PostInterval > maxPostInterval {
		return fmt.Errorf("POST_INTERVAL must be at most %v, got %v", maxPostInterval, c.PostInterval)
	}

	return nil
}

func (c *Config) validateRequestTimeout() error {
	if c.RequestTimeout < minRequestTimeout || c.RequestTimeout > maxRequestTimeout {
		return fmt.Errorf(
			"REQUEST_TIMEOUT must be between %v and %v, got %v",
			minRequestTimeout, maxRequestTimeout, c.RequestTimeout,
		)
	}
	return nil
}

func (c *Config) validateLogging() error {
	var errs []error

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

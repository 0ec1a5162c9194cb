package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"command-registrar/internal/adapters/discord"
)

func main() {
	ctx, stop := NotifyContext(context.Background())
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()

	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	var apiErr *discord.APIError
	if errors.As(err, &apiErr) {
		slog.Error("Discord rejected the request",
			"status", apiErr.Status,
			"code", apiErr.Code,
			"message", apiErr.Message,
			"body", string(apiErr.Body),
			"retry_after", apiErr.RetryAfter,
			"error", err,
		)
		return
	}
	slog.Error("Command failed", "error", err)
}

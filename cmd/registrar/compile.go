package main

import (
	"fmt"
	"log/slog"

	"command-registrar/internal/commands"
	"command-registrar/internal/config"
	"command-registrar/internal/core/domain"
	"command-registrar/internal/core/services/compiler"
	"command-registrar/internal/i18n"
	"command-registrar/internal/manifest"
)

// collectSpecs returns the built-in commands followed by every pack under
// PacksDir. When manifestDir is set, only that manifest is read.
func collectSpecs(cfg *config.Config, manifestDir string) ([]domain.CommandSpec, error) {
	if manifestDir != "" {
		return manifest.LoadManifest(manifestDir)
	}

	specs := commands.Builtin()
	if cfg.PacksDir == "" {
		return specs, nil
	}

	packs, err := manifest.LoadPacks(cfg.PacksDir)
	if err != nil {
		return nil, err
	}
	for _, pack := range packs {
		specs = append(specs, pack.Commands...)
	}
	return specs, nil
}

func compileBatch(cfg *config.Config, manifestDir string) (compiler.Batch, error) {
	opts := compiler.Options{Canary: cfg.Canary()}

	if cfg.I18nDir != "" {
		catalog, err := i18n.Load(cfg.I18nDir, i18n.DefaultLocale)
		if err != nil {
			return nil, fmt.Errorf("load locale catalogs: %w", err)
		}
		slog.Debug("Loaded locale catalogs", "dir", cfg.I18nDir, "locales", catalog.Locales())
		opts.Localizer = catalog
	}

	specs, err := collectSpecs(cfg, manifestDir)
	if err != nil {
		return nil, err
	}

	batch, err := compiler.New(opts).Compile(specs...)
	if err != nil {
		return nil, err
	}

	slog.Info("Compiled command batch", "target", cfg.Target(), "commands", len(batch), "canary", cfg.Canary())
	return batch, nil
}

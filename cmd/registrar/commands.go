package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"command-registrar/internal/config"
	"command-registrar/internal/core/domain"
	"command-registrar/internal/core/services/registrar"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var errClearNotConfirmed = errors.New("clear removes every registered command; pass --yes to confirm")

type cliOptions struct {
	token    string
	appID    string
	guildID  string
	packsDir string
	i18nDir  string

	mode        string
	force       bool
	yes         bool
	manifestDir string
	limit       int
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "registrar",
		Short: "Compile and register Discord application commands",
		Long: `registrar compiles the built-in command declarations and pack manifests into
Discord application commands and registers them for one application, either
globally or for a single guild.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.token, "token", "", "bot token (overrides BOT_TOKEN)")
	flags.StringVar(&opts.appID, "app", "", "application id (overrides APP_ID)")
	flags.StringVar(&opts.guildID, "guild", "", "guild id; empty targets the global scope (overrides GUILD_ID)")
	flags.StringVar(&opts.packsDir, "packs", "", "directory of pack manifests (overrides PACKS_DIR)")
	flags.StringVar(&opts.i18nDir, "i18n", "", "directory of locale catalogs (overrides I18N_DIR)")

	root.AddCommand(
		newSyncCmd(opts, out),
		newPrintCmd(opts, out),
		newListCmd(opts, out),
		newDeleteCmd(opts, out),
		newClearCmd(opts, out),
		newHistoryCmd(opts, out),
	)

	return root
}

func newSyncCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replace the registered commands with the compiled batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, false)
			if err != nil {
				return err
			}

			batch, err := compileBatch(cfg, "")
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), cfg, out, func(ctx context.Context, app *App) error {
				return app.sync(ctx, batch, registrar.SubmitOptions{Mode: cfg.Mode, Force: opts.force})
			})
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "submission mode: bulk or sequential (overrides SUBMIT_MODE)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "submit even if the batch matches the last recorded deployment")
	return cmd
}

func newPrintCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Compile the batch and print it without contacting Discord",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, true)
			if err != nil {
				return err
			}

			batch, err := compileBatch(cfg, opts.manifestDir)
			if err != nil {
				return err
			}
			return printJSON(out, batch)
		},
	}

	cmd.Flags().StringVar(&opts.manifestDir, "manifest", "", "print only the commands of the manifest in this directory")
	return cmd
}

func newListCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the commands currently registered for the target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, out, func(ctx context.Context, app *App) error {
				return app.list(ctx)
			})
		},
	}
}

func newDeleteCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <command-id>",
		Short: "Delete one registered command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, out, func(ctx context.Context, app *App) error {
				return app.delete(ctx, args[0])
			})
		},
	}
}

func newClearCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every registered command with an empty bulk replace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.yes {
				return errClearNotConfirmed
			}

			cfg, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, out, func(ctx context.Context, app *App) error {
				return app.clear(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.yes, "yes", false, "confirm removal of every command")
	return cmd
}

func newHistoryCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recorded deployments for the target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", opts.limit)
			}

			cfg, err := opts.load(cmd, false)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), cfg, out, func(ctx context.Context, app *App) error {
				return app.history(ctx, opts.limit)
			})
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 10, "number of deployments to show")
	return cmd
}

// load reads the configuration with explicitly set flags taking precedence
// and installs the configured logger.
func (o *cliOptions) load(cmd *cobra.Command, offline bool) (*config.Config, error) {
	override := o.override(cmd)

	var cfg *config.Config
	var err error
	if offline {
		cfg, err = config.LoadOffline(override)
	} else {
		cfg, err = config.Load(override)
	}
	if err != nil {
		return nil, err
	}

	InitLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func (o *cliOptions) override(cmd *cobra.Command) config.Override {
	flags := cmd.Flags()
	return func(c *config.Config) {
		if flags.Changed("token") {
			c.Token = o.token
		}
		if flags.Changed("app") {
			c.AppID = o.appID
		}
		if flags.Changed("guild") {
			c.GuildID = o.guildID
		}
		if flags.Changed("packs") {
			c.PacksDir = o.packsDir
		}
		if flags.Changed("i18n") {
			c.I18nDir = o.i18nDir
		}
		if flags.Changed("mode") {
			c.Mode = domain.SubmitMode(o.mode)
		}
	}
}

func withApp(ctx context.Context, cfg *config.Config, out io.Writer, fn func(context.Context, *App) error) error {
	app, err := NewApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		app.Shutdown(shutdownCtx)
	}()

	return fn(ctx, app)
}

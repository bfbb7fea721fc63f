package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordbuddy/internal/app"
	"github.com/heartmarshall/wordbuddy/internal/config"
)

// cli carries state shared by every subcommand.
type cli struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "wordbuddy",
		Short: "Look up English words with simplified definitions and translated examples",
		Long: `wordbuddy fetches a definition from a free dictionary, caches it, and asks
an LLM (Gemini, OpenAI or Claude, in your fallback order) for a simpler
definition and two translated example sentences.

Configuration is read from --config, $CONFIG_PATH or ./wordbuddy.yaml,
then overridden by environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			cfg, err := config.LoadFrom(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = app.NewLoggerTo(cmd.ErrOrStderr(), cfg.Log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $CONFIG_PATH or ./wordbuddy.yaml)")

	root.AddCommand(
		newLookupCmd(c),
		newServeCmd(c),
		newSettingsCmd(c),
		newCacheCmd(c),
		newMigrateCmd(c),
		newVersionCmd(),
	)
	return root
}

// withApp builds the application graph, runs fn and releases storage.
func (c *cli) withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

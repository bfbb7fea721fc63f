package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordbuddy/internal/app"
)

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Migrate(cmd.Context(), c.cfg, c.logger)
		},
	}
}

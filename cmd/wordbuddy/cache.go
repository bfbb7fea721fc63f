package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordbuddy/internal/app"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the dictionary cache",
	}

	var dryRun bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached dictionary record (settings are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				out := cmd.OutOrStdout()
				if dryRun {
					words := a.Cache.Words(ctx)
					for _, w := range words {
						fmt.Fprintln(out, w)
					}
					fmt.Fprintf(out, "%d cached entries would be removed\n", len(words))
					return nil
				}
				a.Cache.Clear(ctx)
				fmt.Fprintln(out, "cache cleared")
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the cached words without removing them")

	cmd.AddCommand(clearCmd)
	return cmd
}

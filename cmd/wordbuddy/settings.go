package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordbuddy/internal/app"
	"github.com/heartmarshall/wordbuddy/internal/domain"
	"github.com/heartmarshall/wordbuddy/internal/service/settings"
)

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change LLM providers, API keys and the target language",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print current settings (keys are never printed)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					printSnapshot(cmd.OutOrStdout(), a.Settings.Snapshot(ctx))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set-key <provider> <api-key>",
			Short: "Store the API key of a provider (an empty key removes it)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := parseProviderArg(args[0])
				if err != nil {
					return err
				}
				return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					return a.Settings.SetAPIKey(ctx, p, args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "set-default <provider>",
			Short: "Set the provider tried first",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := parseProviderArg(args[0])
				if err != nil {
					return err
				}
				return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					return a.Settings.SetDefaultProvider(ctx, p)
				})
			},
		},
		&cobra.Command{
			Use:   "set-order <provider>[,<provider>...]",
			Short: "Set the fallback order, e.g. gemini,claude,openai",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				order, err := parseOrderArgs(args)
				if err != nil {
					return err
				}
				return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					return a.Settings.SetFallbackOrder(ctx, order)
				})
			},
		},
		&cobra.Command{
			Use:   "set-language <code>",
			Short: "Set the translation language, e.g. zh-CN or de",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					return a.Settings.SetTargetLanguage(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "clear-keys",
			Short: "Remove every stored API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
					a.Settings.ClearAPIKeys(ctx)
					return nil
				})
			},
		},
	)
	return cmd
}

func parseProviderArg(s string) (domain.ProviderID, error) {
	p, ok := domain.ParseProviderID(s)
	if !ok {
		return "", fmt.Errorf("unknown provider %q (known: %s)", s, domain.FormatProviderList(domain.KnownProviders()))
	}
	return p, nil
}

// parseOrderArgs accepts "a,b c" style input: commas and separate arguments
// both split providers.
func parseOrderArgs(args []string) ([]domain.ProviderID, error) {
	var order []domain.ProviderID
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			p, err := parseProviderArg(part)
			if err != nil {
				return nil, err
			}
			order = append(order, p)
		}
	}
	return order, nil
}

func printSnapshot(w io.Writer, snap settings.Snapshot) {
	policy := domain.FallbackPolicy{DefaultProvider: snap.DefaultProvider, Order: snap.FallbackOrder}

	fmt.Fprintf(w, "Default provider: %s\n", snap.DefaultProvider)
	fmt.Fprintf(w, "Fallback order:   %s\n", domain.FormatProviderList(snap.FallbackOrder))
	fmt.Fprintf(w, "Effective order:  %s\n", domain.FormatProviderList(policy.EffectiveOrder()))
	fmt.Fprintf(w, "Target language:  %s\n", snap.TargetLanguage)
	fmt.Fprintln(w, "API keys:")
	for _, p := range domain.KnownProviders() {
		state := "not set"
		if snap.Configured[p] {
			state = "configured"
		}
		fmt.Fprintf(w, "  %-7s %s\n", p, state)
	}
}

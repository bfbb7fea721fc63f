package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordbuddy/internal/app"
	"github.com/heartmarshall/wordbuddy/internal/domain"
)

func newLookupCmd(c *cli) *cobra.Command {
	var (
		noEnrich bool
		asJSON   bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word and enrich it",
		Long: `Look up a word in the dictionary (cached) and enrich it with an LLM.

Example:
  wordbuddy lookup crate
  wordbuddy lookup ice cream --json
  wordbuddy lookup crate --no-enrich`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			word := strings.Join(args, " ")
			return c.withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				rec, err := lookup(ctx, a, word, noEnrich, refresh)
				if err != nil {
					return err
				}
				if asJSON {
					return writeRecordJSON(cmd.OutOrStdout(), rec)
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip LLM enrichment")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "regenerate enrichment even if a previous attempt failed")
	cmd.MarkFlagsMutuallyExclusive("no-enrich", "refresh")
	return cmd
}

func lookup(ctx context.Context, a *app.App, word string, noEnrich, refresh bool) (domain.WordRecord, error) {
	if noEnrich {
		return a.Resolver.Lookup(ctx, word)
	}
	if !refresh {
		return a.Resolver.Resolve(ctx, word)
	}
	rec, err := a.Resolver.Lookup(ctx, word)
	if err != nil {
		return domain.WordRecord{}, err
	}
	return a.Resolver.Refresh(ctx, rec)
}

func writeRecordJSON(w io.Writer, rec domain.WordRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rec)
}

func printRecord(w io.Writer, rec domain.WordRecord) {
	head := rec.Word
	if rec.Phonetic != "" {
		head += " " + rec.Phonetic
	}
	if rec.PartOfSpeech != "" {
		head += " (" + rec.PartOfSpeech + ")"
	}
	fmt.Fprintln(w, head)

	if rec.SimplifiedDefinition != "" {
		fmt.Fprintf(w, "  %s\n", rec.SimplifiedDefinition)
		if rec.OriginalDefinition != "" && rec.OriginalDefinition != rec.SimplifiedDefinition {
			fmt.Fprintf(w, "  Dictionary: %s\n", rec.OriginalDefinition)
		}
	} else if rec.OriginalDefinition != "" {
		fmt.Fprintf(w, "  %s\n", rec.OriginalDefinition)
	}

	if len(rec.Examples) > 0 {
		fmt.Fprintln(w, "  Examples:")
		for _, ex := range rec.Examples {
			if ex.Translation != "" {
				fmt.Fprintf(w, "    - %s\n      %s\n", ex.English, ex.Translation)
			} else {
				fmt.Fprintf(w, "    - %s\n", ex.English)
			}
		}
	}

	if rec.AudioURL != "" {
		fmt.Fprintf(w, "  Audio: %s\n", rec.AudioURL)
	}
	if rec.EnrichmentState == domain.EnrichmentFailed {
		fmt.Fprintln(w, "  Enrichment failed. Check `wordbuddy settings show`, then retry with --refresh.")
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordbuddy/internal/app"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the build version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfig": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "wordbuddy", app.BuildVersion())
		},
	}
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kidevu123/expense-release/internal/service/release"
)

// historyLimit bounds how many releases are listed.
var historyLimit int

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent releases from the audit log.",
		Long: `Lists releases recorded in the history database, newest first. The log is
advisory: the version record JSON remains the source of truth for the
current version.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return release.RunHistory(ctx, historyLimit, baseOptions())
		},
	}

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of releases to list (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

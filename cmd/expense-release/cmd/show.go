package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kidevu123/expense-release/internal/service/release"
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current version record.",
		Long: `Prints the tracker's current version, build number, commit, branch and
release timestamp. Read-only: the persisted record is never modified, and a
repository that was never released shows the initial 0.1.0 record.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return release.RunShow(ctx, baseOptions())
		},
	})
}

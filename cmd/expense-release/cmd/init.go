package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kidevu123/expense-release/internal/service/release"
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the initial version record.",
		Long: `Creates the version record for a repository that has never been released.
When release tags already exist, the version is seeded from the highest one;
otherwise the record starts at 0.1.0 with build 0. Fails if a record is
already present.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return release.RunInit(ctx, baseOptions())
		},
	})
}

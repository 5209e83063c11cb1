package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kidevu123/expense-release/internal/service/release"
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "set <version>",
		Short: "Force the version record to an explicit version.",
		Long: `Overwrites the semantic version components of the record with an explicit
value such as 1.4.0 or v1.4.0. The build counter is kept so it stays
monotonic. No tag is created; use this to realign the record after manual
git surgery.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := commandContext()
			defer stop()

			return release.RunSet(ctx, args[0], baseOptions())
		},
	})
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kidevu123/expense-release/internal/service/deploy"
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "deploy-info",
		Short: "Print deployment instructions for the expense tracker.",
		Long: `Prints the static PythonAnywhere deployment runbook for the Trade Show
Expense Tracker. No remote actions are performed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := commandContext()
			defer stop()

			return deploy.Run(ctx, cmd.OutOrStdout())
		},
	})
}

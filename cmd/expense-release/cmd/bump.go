package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/kidevu123/expense-release/internal/domain/release"
	"github.com/kidevu123/expense-release/internal/service/release"
)

var (
	// message is the tag annotation supplied by the operator.
	message string
	// allowDirty permits releasing from a worktree with uncommitted changes.
	allowDirty bool
	// skipPush suppresses pushing to the remote for this invocation.
	skipPush bool
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	bumpCommands := []*cobra.Command{
		newBumpCommand(domain.KindPatch, "Cut a patch release (x.y.Z+1)."),
		newBumpCommand(domain.KindMinor, "Cut a minor release (x.Y+1.0)."),
		newBumpCommand(domain.KindMajor, "Cut a major release (X+1.0.0)."),
	}

	for _, c := range bumpCommands {
		c.Flags().StringVarP(&message, "message", "m", "", "custom tag annotation message")
		c.Flags().BoolVar(&allowDirty, "allow-dirty", false, "release despite uncommitted changes")
		c.Flags().BoolVar(&skipPush, "skip-push", false, "do not push the branch and tags")

		rootCmd.AddCommand(c)
	}
}

// newBumpCommand builds one of the patch/minor/major subcommands.
func newBumpCommand(kind domain.Kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind.String(),
		Short: short,
		Long: `Performs one release: computes the next version, creates an annotated git
tag, persists the new version record and pushes to the configured remote.

The build counter increases by one regardless of the bump kind. If tagging
or pushing fails, the version record is left exactly as it was.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := commandContext()
			defer stop()

			opts := baseOptions()
			opts.Message = message
			opts.AllowDirty = allowDirty
			opts.SkipPush = skipPush

			return release.RunBump(ctx, kind.String(), opts)
		},
	}
}

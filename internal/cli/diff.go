package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/threagile/editor-e2e/internal/report"
	"github.com/threagile/editor-e2e/pkg/modeldiff"
	"github.com/threagile/editor-e2e/pkg/snapshot"
)

type DiffOptions struct {
	*RootOptions
	Exclude     []string
	StrictOrder bool
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <initial.json> <final.json>",
		Short: "Compare two model snapshots",
		Long: `Diff tells whether final is the restored form of initial: mapping order
never matters and sequence order only with --strict-order. Every differing
path is printed. The exit code is 1 when the models differ.

Example:
  modelcheck diff before.json after.json
  modelcheck diff before.json after.json --exclude 'data_assets[*].tags'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial, err := readSnapshot(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read initial model", err)
			}
			final, err := readSnapshot(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read final model", err)
			}

			var diffOpts []modeldiff.Option
			for _, e := range opts.Exclude {
				p, err := snapshot.ParsePath(e)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --exclude", err)
				}
				diffOpts = append(diffOpts, modeldiff.Excluding(p))
			}
			if opts.StrictOrder {
				diffOpts = append(diffOpts, modeldiff.StrictOrder())
			}

			diffs := modeldiff.Differences(initial, final, diffOpts...)
			if err := report.PrintDifferences(cmd.OutOrStdout(), diffs); err != nil {
				return err
			}
			if len(diffs) > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d differences", len(diffs)))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "paths left out of the comparison ([*] matches any key or index)")
	cmd.Flags().BoolVar(&opts.StrictOrder, "strict-order", false, "make sequence order significant")

	return cmd
}

func readSnapshot(path string) (snapshot.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.Parse(data)
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/threagile/editor-e2e/api/v1"
	"github.com/threagile/editor-e2e/pkg/client"
)

type RemoteOptions struct {
	*RootOptions
	Server string
}

// NewRemoteCommand creates the remote command, which drives runs on a
// modelcheck server.
func NewRemoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Start, inspect and stop runs on a modelcheck server",
		Long: `Remote talks to the /api/v1 API of a running "modelcheck serve".

Example:
  modelcheck remote start technical-asset --server http://ci-host:8000
  modelcheck remote status
  modelcheck remote stop`,
	}
	cmd.PersistentFlags().StringVar(&opts.Server, "server", "http://localhost:8000", "modelcheck server URL")

	cmd.AddCommand(&cobra.Command{
		Use:   "start [group...]",
		Short: "Start a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient(opts.Server)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --server", err)
			}
			run, err := c.StartRun(cmd.Context(), args...)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to start run", err)
			}
			printRemoteRun(cmd, run)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status [run-id]",
		Short: "Show the run in progress, or a given run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient(opts.Server)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --server", err)
			}
			var run *v1.Run
			if len(args) == 1 {
				run, err = c.GetRun(cmd.Context(), args[0])
			} else {
				run, err = c.CurrentRun(cmd.Context())
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to get run", err)
			}
			if run == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no run in progress")
				return nil
			}
			printRemoteRun(cmd, run)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Cancel the run in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient(opts.Server)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid --server", err)
			}
			if err := c.StopCurrentRun(cmd.Context()); err != nil {
				return WrapExitError(ExitCommandError, "failed to stop run", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stop requested")
			return nil
		},
	})

	return cmd
}

func printRemoteRun(cmd *cobra.Command, run *v1.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s %s  %d passed, %d failed\n", run.Id, run.Status, run.Passed, run.Failed)
	fmt.Fprintf(out, "  groups:  %v\n", run.Groups)
	fmt.Fprintf(out, "  started: %s\n", run.StartedAt.Local().Format(time.DateTime))
	if run.Error != nil {
		fmt.Fprintf(out, "  error:   %s\n", *run.Error)
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/editor"
)

type SnapshotOptions struct {
	*RootOptions
	Example string
	Out     string
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the model held by the editor as JSON",
		Long: `Snapshot opens the editor, optionally loads an example model, and
prints the threagile model the editor holds. Two snapshots can be compared
with the diff command.

Example:
  modelcheck snapshot --example "#example-button" --out before.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.Config

			driver, err := browser.New(ctx, browserOptions(cfg.Browser))
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open browser", err)
			}
			defer func() { _ = driver.Close() }()

			gw := editor.NewGateway(driver, editorOptions(cfg.Editor))
			if err := gw.Open(ctx); err != nil {
				return WrapExitError(ExitCommandError, "failed to open editor", err)
			}
			if err := gw.WaitReady(ctx); err != nil {
				return WrapExitError(ExitCommandError, "editor not ready", err)
			}
			if opts.Example != "" {
				if err := gw.OpenExample(ctx, opts.Example); err != nil {
					return WrapExitError(ExitCommandError, "failed to open example", err)
				}
			}

			raw, err := gw.Model(ctx)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read model", err)
			}
			var out bytes.Buffer
			if err := json.Indent(&out, raw, "", "  "); err != nil {
				return WrapExitError(ExitCommandError, "editor returned invalid JSON", err)
			}
			out.WriteByte('\n')

			if opts.Out == "" {
				_, err = cmd.OutOrStdout().Write(out.Bytes())
				return err
			}
			return os.WriteFile(opts.Out, out.Bytes(), 0o644)
		},
	}

	cmd.Flags().StringVar(&opts.Example, "example", "", "CSS selector of an example model to open first")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write to file instead of stdout")

	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/report"
	"github.com/threagile/editor-e2e/internal/services"
	"github.com/threagile/editor-e2e/internal/store"
)

type ReportOptions struct {
	*RootOptions
	Status []string
	Limit  uint64
	XLSX   string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [run-id]",
		Short: "Show journaled runs",
		Long: `Without a run id, report lists the latest runs. With one, it prints the
run step by step. --xlsx additionally writes the listed runs and their steps
to a workbook.

Example:
  modelcheck report --status failed
  modelcheck report 6f1c... --xlsx run.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := openStore(ctx, opts.Config.Store.Path)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open store", err)
			}
			defer func() { _ = st.Close() }()
			runSrv := services.NewRunService(st)

			var runs []models.Run
			if len(args) == 1 {
				run, err := runSrv.Get(ctx, args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to get run", err)
				}
				runs = []models.Run{*run}
			} else {
				res, err := runSrv.List(ctx, services.RunListParams{
					Statuses: opts.Status,
					Sort:     []store.SortParam{{Field: "started", Desc: true}},
					Limit:    opts.Limit,
				})
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to list runs", err)
				}
				runs = res.Runs
			}

			steps, err := stepsOf(ctx, runSrv, runs)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to list steps", err)
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				err = report.PrintRun(out, runs[0], steps)
			} else {
				err = report.PrintRuns(out, runs)
			}
			if err != nil {
				return err
			}

			if opts.XLSX != "" {
				if err := writeWorkbook(opts.XLSX, runs, steps); err != nil {
					return WrapExitError(ExitCommandError, "failed to write workbook", err)
				}
				fmt.Fprintf(out, "wrote %s\n", opts.XLSX)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Status, "status", nil, "only runs with these statuses")
	cmd.Flags().Uint64Var(&opts.Limit, "limit", 20, "number of runs to list")
	cmd.Flags().StringVar(&opts.XLSX, "xlsx", "", "also write an xlsx workbook to this path")

	return cmd
}

func stepsOf(ctx context.Context, runSrv *services.RunService, runs []models.Run) ([]models.Step, error) {
	var steps []models.Step
	for _, r := range runs {
		res, err := runSrv.Steps(ctx, r.ID, services.StepListParams{})
		if err != nil {
			return nil, err
		}
		steps = append(steps, res.Steps...)
	}
	return steps, nil
}

func writeWorkbook(path string, runs []models.Run, steps []models.Step) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteWorkbook(f, runs, steps); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/browser"
	"github.com/threagile/editor-e2e/internal/config"
	"github.com/threagile/editor-e2e/internal/editor"
	"github.com/threagile/editor-e2e/internal/models"
	"github.com/threagile/editor-e2e/internal/report"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/services"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run [group...]",
		Short: "Run scenario groups against the editor",
		Long: `Run opens one browser session per scenario group, performs every step
and checks the model after each of them. Results are journaled in the
store and printed at the end.

Groups given as arguments override --groups. Without either, the whole
catalogue runs. The exit code is 1 when any step failed.

Example:
  modelcheck run
  modelcheck run technical-asset data-asset --workers 2
  modelcheck run --browser-driver chromedp --browser-headless=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSuite(ctx, rootOpts.Config, args, cmd)
		},
	}
}

func runSuite(ctx context.Context, cfg *config.Configuration, args []string, cmd *cobra.Command) error {
	catalog, err := loadCatalog(cfg.Runner)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load catalogue", err)
	}
	names := cfg.Runner.Groups
	if len(args) > 0 {
		names = args
	}
	groups, err := catalog.Select(names...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to select groups", err)
	}

	st, err := openStore(ctx, cfg.Store.Path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open store", err)
	}
	defer func() { _ = st.Close() }()

	suite := services.NewSuite(st, services.NewBrowserSessions(browserOptions(cfg.Browser)), suiteOptions(cfg, catalog))
	res, err := suite.Run(ctx, groups)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start run", err)
	}

	steps, err := services.NewRunService(st).Steps(context.WithoutCancel(ctx), res.Run.ID, services.StepListParams{})
	if err != nil {
		zap.S().Named("cli").Warnw("failed to read journaled steps", "run", res.Run.ID, "error", err)
	} else if err := report.PrintRun(cmd.OutOrStdout(), res.Run, steps.Steps); err != nil {
		return err
	}

	if res.Run.Status != models.RunStatusPassed {
		return NewExitError(ExitFailure, "run "+string(res.Run.Status))
	}
	return nil
}

func browserOptions(cfg config.Browser) browser.Options {
	return browser.Options{
		Driver:    cfg.Driver,
		RemoteURL: cfg.RemoteURL,
		ExecPath:  cfg.ExecPath,
		Headless:  cfg.Headless,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Timeout:   cfg.Timeout,
	}
}

func editorOptions(cfg config.Editor) editor.Options {
	return editor.Options{
		URL:          cfg.URL,
		ReadyTimeout: cfg.ReadyTimeout,
		Settle:       cfg.Settle,
	}
}

func suiteOptions(cfg *config.Configuration, catalog *scenario.Catalog) services.SuiteOptions {
	return services.SuiteOptions{
		Workers:  cfg.Runner.Workers,
		Driver:   cfg.Browser.Driver,
		Editor:   editorOptions(cfg.Editor),
		Defaults: catalog.Defaults,
	}
}

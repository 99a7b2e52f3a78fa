package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/threagile/editor-e2e/api/v1"
	"github.com/threagile/editor-e2e/internal/handlers"
	"github.com/threagile/editor-e2e/internal/server"
	"github.com/threagile/editor-e2e/internal/services"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor statics and the run API",
		Long: `Serve hosts the editor statics given by --statics-folder, so the
editor URL can point at this process, and exposes the run journal under
/api/v1. Runs can be started and stopped through the API.

Example:
  modelcheck serve --statics-folder ./threagile-editor --server-port 8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cfg := rootOpts.Config

			catalog, err := loadCatalog(cfg.Runner)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalogue", err)
			}

			st, err := openStore(ctx, cfg.Store.Path)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open store", err)
			}
			defer func() { _ = st.Close() }()

			suite := services.NewSuite(st, services.NewBrowserSessions(browserOptions(cfg.Browser)), suiteOptions(cfg, catalog))
			defer suite.Stop()

			h := handlers.New(services.NewRunService(st), suite, catalog)
			srv, err := server.NewServer(cfg.Server, func(router *gin.RouterGroup) {
				v1.RegisterHandlers(router, h)
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create server", err)
			}

			zap.S().Named("cli").Infow("serving", "port", cfg.Server.Port, "statics", cfg.Server.StaticsFolder, "store", cfg.Store.Path)
			return srv.Start(ctx)
		},
	}
}

package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/threagile/editor-e2e/internal/config"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/internal/store"
	"github.com/threagile/editor-e2e/internal/store/migrations"
)

// RootOptions is shared by every command. Config is loaded before any
// command runs.
type RootOptions struct {
	ConfigFile string
	Config     *config.Configuration
}

// NewRootCommand creates the modelcheck command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "modelcheck",
		Short: "Model-consistency checks for the threagile editor",
		Long: `modelcheck drives the threagile editor in a real browser and checks,
after every UI action, that the underlying threat model changed exactly as
expected and that undo restores it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), opts.ConfigFile)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load configuration", err)
			}
			opts.Config = cfg

			logger, err := newLogger(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to initialize logger", err)
			}
			zap.ReplaceGlobals(logger)
			zap.S().Named("cli").Debugw("configuration loaded", "config", cfg.DebugMap())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML configuration file")
	config.RegisterFlags(cmd.PersistentFlags(), config.NewConfigurationWithDefaults())

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))
	cmd.AddCommand(NewRemoteCommand(opts))

	return cmd
}

func newLogger(format, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func openStore(ctx context.Context, path string) (*store.Store, error) {
	db, err := store.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}
	return store.NewStore(db), nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		zap.S().Named("cli").Warnw("failed to close database", "error", err)
	}
}

func loadCatalog(runner config.Runner) (*scenario.Catalog, error) {
	if runner.Catalog == "" {
		return scenario.Default()
	}
	return scenario.Load(runner.Catalog)
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/threagile/editor-e2e/internal/config"
	"github.com/threagile/editor-e2e/internal/scenario"
	"github.com/threagile/editor-e2e/test/e2e/infra"
)

var (
	cfg        *config.Configuration
	catalog    *scenario.Catalog
	editorHost infra.EditorHost
	editorURL  string
)

func main() {
	fs := pflag.NewFlagSet("e2e", pflag.ExitOnError)
	mode := fs.String("infra-mode", infra.ModeLocal, "Infrastructure mode: 'local' (serve --statics-folder in-process) or 'external' (editor already running at --editor-url)")
	page := fs.String("page", "indexTests.html", "Test page served from the statics folder in local mode")
	configFile := fs.String("config", "", "YAML configuration file")
	config.RegisterFlags(fs, config.NewConfigurationWithDefaults())
	_ = fs.Parse(os.Args[1:])

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	cfg, err = config.Load(fs, *configFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	catalog, err = scenario.Load(cfg.Runner.Catalog)
	if err != nil {
		log.Fatalf("failed to load catalogue: %v", err)
	}

	groups, err := catalog.Select(cfg.Runner.Groups...)
	if err != nil {
		log.Fatalf("failed to select groups: %v", err)
	}
	describeCatalog(groups)

	switch *mode {
	case infra.ModeLocal:
		editorHost = infra.NewLocalEditorHost(cfg.Server, *page, cfg.Editor.ReadyTimeout)
	case infra.ModeExternal:
		editorHost = infra.NewExternalEditorHost(cfg.Editor.URL, cfg.Editor.ReadyTimeout)
	default:
		log.Fatalf("invalid infra-mode %q: must be '%s' or '%s'", *mode, infra.ModeLocal, infra.ModeExternal)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}

var _ = BeforeSuite(func() {
	var err error
	editorURL, err = editorHost.Start(context.Background())
	Expect(err).NotTo(HaveOccurred(), fmt.Sprintf("editor host did not start: %v", err))
})

var _ = AfterSuite(func() {
	Expect(editorHost.Stop()).To(Succeed())
})

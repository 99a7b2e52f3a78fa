package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/pflag"

	"github.com/threagile/editor-e2e/internal/config"
)

var _ = Describe("Configuration", func() {
	Context("defaults", func() {
		It("should describe the original browser setup", func() {
			cfg := config.NewConfigurationWithDefaults()

			Expect(cfg.Editor.URL).To(Equal("http://0.0.0.0:8000/indexTests.html"))
			Expect(cfg.Editor.ReadyTimeout).To(Equal(30 * time.Second))
			Expect(cfg.Browser.Driver).To(Equal("rod"))
			Expect(cfg.Browser.Headless).To(BeTrue())
			Expect(cfg.Browser.Width).To(Equal(1854))
			Expect(cfg.Browser.Height).To(Equal(1011))
			Expect(cfg.Runner.Workers).To(Equal(1))
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Context("Validate", func() {
		It("should report every invalid field", func() {
			// Given
			cfg := config.NewConfigurationWithDefaults()
			cfg.LogFormat = "xml"
			cfg.Browser.Driver = "selenium"
			cfg.Runner.Workers = 0
			cfg.Editor.URL = "indexTests.html"

			// When
			err := cfg.Validate()

			// Then
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("log format must be console or json"))
			Expect(err.Error()).To(ContainSubstring(`browser driver must be rod or chromedp, got "selenium"`))
			Expect(err.Error()).To(ContainSubstring("runner workers must be at least 1"))
			Expect(err.Error()).To(ContainSubstring("is not an absolute url"))
		})

		It("should reject unknown log levels", func() {
			cfg := config.NewConfigurationWithDefaults()
			cfg.LogLevel = "loud"

			Expect(cfg.Validate()).To(MatchError(ContainSubstring("log level")))
		})
	})

	Context("DebugMap", func() {
		It("should nest sections and mask hidden fields", func() {
			cfg := config.NewConfigurationWithDefaults()
			cfg.Browser.RemoteURL = "ws://127.0.0.1:9222/devtools/browser/secret"

			m := cfg.DebugMap()

			Expect(m).To(HaveKeyWithValue("LogLevel", "info"))
			Expect(m).To(HaveKey("Browser"))
			browser := m["Browser"].(map[string]any)
			Expect(browser).To(HaveKeyWithValue("Width", 1854))
			Expect(browser).To(HaveKeyWithValue("RemoteURL", "(sensitive)"))
		})

		It("should leave empty hidden fields out", func() {
			m := config.NewConfigurationWithDefaults().DebugMap()

			Expect(m["Browser"].(map[string]any)).NotTo(HaveKey("RemoteURL"))
		})
	})
})

var _ = Describe("Load", func() {
	var fs *pflag.FlagSet

	BeforeEach(func() {
		fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
		config.RegisterFlags(fs, config.NewConfigurationWithDefaults())
	})

	It("should return the defaults without any source", func() {
		cfg, err := config.Load(fs, "")

		Expect(err).NotTo(HaveOccurred())
		defaults := config.NewConfigurationWithDefaults()
		Expect(cfg.Editor).To(Equal(defaults.Editor))
		Expect(cfg.Browser).To(Equal(defaults.Browser))
		Expect(cfg.Store).To(Equal(defaults.Store))
		Expect(cfg.Server).To(Equal(defaults.Server))
		Expect(cfg.Runner.Workers).To(Equal(1))
		Expect(cfg.Runner.Groups).To(BeEmpty())
	})

	It("should let the file, the environment and flags override each other", func() {
		// Given a config file
		path := filepath.Join(GinkgoT().TempDir(), "modelcheck.yaml")
		Expect(os.WriteFile(path, []byte(`
editor:
  url: http://editor:8000/indexTests.html
  settle: 1s
browser:
  driver: chromedp
runner:
  workers: 2
  groups: [technical-asset, data-asset]
log_level: debug
`), 0o600)).To(Succeed())
		// And an environment variable
		GinkgoT().Setenv("MODELCHECK_RUNNER_WORKERS", "3")
		// And a flag
		Expect(fs.Parse([]string{"--log-level=warn"})).To(Succeed())

		// When
		cfg, err := config.Load(fs, path)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Editor.URL).To(Equal("http://editor:8000/indexTests.html"))
		Expect(cfg.Editor.Settle).To(Equal(time.Second))
		Expect(cfg.Browser.Driver).To(Equal("chromedp"))
		Expect(cfg.Runner.Groups).To(Equal([]string{"technical-asset", "data-asset"}))
		Expect(cfg.Runner.Workers).To(Equal(3))
		Expect(cfg.LogLevel).To(Equal("warn"))
		Expect(cfg.Browser.Width).To(Equal(1854))
	})

	It("should read the environment without flags", func() {
		GinkgoT().Setenv("MODELCHECK_STORE_PATH", ":memory:")

		cfg, err := config.Load(nil, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Store.Path).To(Equal(":memory:"))
	})

	It("should fail on an invalid result", func() {
		Expect(fs.Parse([]string{"--workers=0"})).To(Succeed())

		_, err := config.Load(fs, "")

		Expect(err).To(MatchError(ContainSubstring("invalid configuration")))
	})

	It("should fail on a missing file", func() {
		_, err := config.Load(fs, filepath.Join(GinkgoT().TempDir(), "missing.yaml"))

		Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
	})
})

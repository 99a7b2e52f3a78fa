package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable: editor.url is read from
// MODELCHECK_EDITOR_URL.
const EnvPrefix = "MODELCHECK"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"editor-url":           "editor.url",
	"editor-settle":        "editor.settle",
	"editor-ready-timeout": "editor.ready_timeout",
	"browser-driver":       "browser.driver",
	"browser-remote-url":   "browser.remote_url",
	"browser-exec-path":    "browser.exec_path",
	"browser-headless":     "browser.headless",
	"browser-width":        "browser.width",
	"browser-height":       "browser.height",
	"browser-timeout":      "browser.timeout",
	"catalog":              "runner.catalog",
	"groups":               "runner.groups",
	"workers":              "runner.workers",
	"db-path":              "store.path",
	"server-mode":          "server.mode",
	"server-port":          "server.port",
	"statics-folder":       "server.statics_folder",
	"log-format":           "log_format",
	"log-level":            "log_level",
}

// RegisterFlags adds a flag for every configuration key to fs, using the
// values of cfg as flag defaults.
func RegisterFlags(fs *pflag.FlagSet, cfg *Configuration) {
	fs.String("editor-url", cfg.Editor.URL, "URL of the page hosting the editor")
	fs.Duration("editor-settle", cfg.Editor.Settle, "delay after every UI mutation")
	fs.Duration("editor-ready-timeout", cfg.Editor.ReadyTimeout, "how long to wait for the editor to load")
	fs.String("browser-driver", cfg.Browser.Driver, "browser automation library: rod or chromedp")
	fs.String("browser-remote-url", cfg.Browser.RemoteURL, "DevTools websocket URL of a running browser")
	fs.String("browser-exec-path", cfg.Browser.ExecPath, "browser binary to launch")
	fs.Bool("browser-headless", cfg.Browser.Headless, "run the browser without a window")
	fs.Int("browser-width", cfg.Browser.Width, "browser window width")
	fs.Int("browser-height", cfg.Browser.Height, "browser window height")
	fs.Duration("browser-timeout", cfg.Browser.Timeout, "element wait timeout")
	fs.String("catalog", cfg.Runner.Catalog, "scenario catalogue file (default: built-in)")
	fs.StringSlice("groups", cfg.Runner.Groups, "scenario groups to run (default: all)")
	fs.Int("workers", cfg.Runner.Workers, "groups run in parallel, one browser each")
	fs.String("db-path", cfg.Store.Path, "path of the run journal database")
	fs.String("server-mode", cfg.Server.Mode, "server mode: dev or prod")
	fs.Int("server-port", cfg.Server.Port, "HTTP listen port")
	fs.String("statics-folder", cfg.Server.StaticsFolder, "folder with the editor statics to serve")
	fs.String("log-format", cfg.LogFormat, "log format: console or json")
	fs.String("log-level", cfg.LogLevel, "log level")
}

// Load builds the configuration from defaults, the optional YAML file at
// path, MODELCHECK_* environment variables and the flags in fs, later
// sources winning. Flags not registered in fs are skipped.
func Load(fs *pflag.FlagSet, path string) (*Configuration, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := NewConfigurationWithDefaults()
	for name, key := range flagKeys {
		if fs != nil {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
				continue
			}
		}
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"
)

type Configuration struct {
	Editor    Editor  `mapstructure:"editor" debugmap:"visible"`
	Browser   Browser `mapstructure:"browser" debugmap:"visible"`
	Runner    Runner  `mapstructure:"runner" debugmap:"visible"`
	Store     Store   `mapstructure:"store" debugmap:"visible"`
	Server    Server  `mapstructure:"server" debugmap:"visible"`
	LogFormat string  `mapstructure:"log_format" debugmap:"visible" default:"console"`
	LogLevel  string  `mapstructure:"log_level" debugmap:"visible" default:"info"`
}

type Editor struct {
	URL          string        `mapstructure:"url" debugmap:"visible" default:"http://0.0.0.0:8000/indexTests.html"`
	Settle       time.Duration `mapstructure:"settle" debugmap:"visible" default:"500ms"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout" debugmap:"visible" default:"30s"`
}

type Browser struct {
	Driver    string        `mapstructure:"driver" debugmap:"visible" default:"rod"`
	RemoteURL string        `mapstructure:"remote_url" debugmap:"hidden"`
	ExecPath  string        `mapstructure:"exec_path" debugmap:"visible"`
	Headless  bool          `mapstructure:"headless" debugmap:"visible" default:"true"`
	Width     int           `mapstructure:"width" debugmap:"visible" default:"1854"`
	Height    int           `mapstructure:"height" debugmap:"visible" default:"1011"`
	Timeout   time.Duration `mapstructure:"timeout" debugmap:"visible" default:"10s"`
}

type Runner struct {
	// Catalog is a scenario file. Empty uses the built-in catalogue.
	Catalog string   `mapstructure:"catalog" debugmap:"visible"`
	Groups  []string `mapstructure:"groups" debugmap:"visible"`
	Workers int      `mapstructure:"workers" debugmap:"visible" default:"1"`
}

type Store struct {
	// Path of the DuckDB journal. ":memory:" keeps nothing after exit.
	Path string `mapstructure:"path" debugmap:"visible" default:"modelcheck.duckdb"`
}

type Server struct {
	Mode          string `mapstructure:"mode" debugmap:"visible" default:"dev"`
	Port          int    `mapstructure:"port" debugmap:"visible" default:"8000"`
	StaticsFolder string `mapstructure:"statics_folder" debugmap:"visible"`
}

// NewConfigurationWithDefaults returns a Configuration with every default
// tag applied.
func NewConfigurationWithDefaults() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("invalid default tags: %v", err))
	}
	return cfg
}

// Validate reports every invalid field at once.
func (c *Configuration) Validate() error {
	var errs []error

	if !slices.Contains([]string{"console", "json"}, c.LogFormat) {
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.LogFormat))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}

	if c.Editor.URL == "" {
		errs = append(errs, errors.New("editor url is required"))
	} else if u, err := url.Parse(c.Editor.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("editor url %q is not an absolute url", c.Editor.URL))
	}
	if c.Editor.Settle < 0 {
		errs = append(errs, errors.New("editor settle must not be negative"))
	}

	if !slices.Contains([]string{"rod", "chromedp"}, c.Browser.Driver) {
		errs = append(errs, fmt.Errorf("browser driver must be rod or chromedp, got %q", c.Browser.Driver))
	}
	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		errs = append(errs, fmt.Errorf("browser window size %dx%d is invalid", c.Browser.Width, c.Browser.Height))
	}

	if c.Runner.Workers < 1 {
		errs = append(errs, fmt.Errorf("runner workers must be at least 1, got %d", c.Runner.Workers))
	}

	if c.Store.Path == "" {
		errs = append(errs, errors.New("store path is required"))
	}

	if !slices.Contains([]string{"dev", "prod"}, c.Server.Mode) {
		errs = append(errs, fmt.Errorf("server mode must be dev or prod, got %q", c.Server.Mode))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d is out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}

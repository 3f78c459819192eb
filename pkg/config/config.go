package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/boattime/portfolio/pkg/defaults"
	"github.com/boattime/portfolio/pkg/errors"
)

// Environment variable names recognized by Load.
const (
	EnvTemplatesDir = "PORTFOLIO_TEMPLATES_DIR"
	EnvOutput       = "PORTFOLIO_OUTPUT"
	EnvTemplate     = "PORTFOLIO_TEMPLATE"
	EnvInterval     = "PORTFOLIO_INTERVAL"
	EnvWorkers      = "PORTFOLIO_WORKERS"
	EnvLogLevel     = "LOG_LEVEL"
)

// PrometheusQuery names one instant query collected each cycle.
type PrometheusQuery struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// PrometheusConfig configures the Prometheus metrics source.
type PrometheusConfig struct {
	Address string            `yaml:"address"`
	Queries []PrometheusQuery `yaml:"queries"`
}

// InfluxConfig configures the InfluxDB metrics source.
type InfluxConfig struct {
	URL    string   `yaml:"url"`
	Token  string   `yaml:"token"`
	Org    string   `yaml:"org"`
	Bucket string   `yaml:"bucket"`
	Window Duration `yaml:"window"`
}

// LogFileConfig configures the log file source.
type LogFileConfig struct {
	Path     string `yaml:"path"`
	MaxLines int    `yaml:"max_lines"`
}

// SpanFileConfig configures the JSON-lines span file source.
type SpanFileConfig struct {
	Path     string `yaml:"path"`
	MaxSpans int    `yaml:"max_spans"`
}

// SourcesConfig selects the telemetry sources for each cycle.
type SourcesConfig struct {
	Prometheus *PrometheusConfig `yaml:"prometheus,omitempty"`
	Influx     *InfluxConfig     `yaml:"influxdb,omitempty"`
	LogFile    *LogFileConfig    `yaml:"logfile,omitempty"`
	SpanFile   *SpanFileConfig   `yaml:"spanfile,omitempty"`
}

// ServerConfig configures the operational HTTP listener.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Config is the complete daemon configuration.
type Config struct {
	// TemplatesDir holds the dashboard templates.
	TemplatesDir string `yaml:"templates_dir"`

	// Template is the template name rendered each cycle.
	Template string `yaml:"template"`

	// Output is the publish target: a directory path or an oci://
	// registry reference.
	Output string `yaml:"output"`

	// Interval between generation cycles.
	Interval Duration `yaml:"interval"`

	// Workers sizes the render worker pool.
	Workers int `yaml:"workers"`

	// QueueDepth bounds the worker pool's task queue.
	QueueDepth int `yaml:"queue_depth"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// Vars are user variables available to templates.
	Vars map[string]string `yaml:"vars"`

	Sources SourcesConfig `yaml:"sources"`
	Server  ServerConfig  `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TemplatesDir: "./templates",
		Template:     "index",
		Output:       "./public",
		Interval:     Duration(defaults.GenerationInterval),
		Workers:      max(runtime.NumCPU(), 1),
		QueueDepth:   defaults.QueueDepth,
		LogLevel:     "info",
	}
}

// Load reads the YAML file at path, if any, and applies environment
// overrides on top of the defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfig, "reading config file", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfig, "parsing config file", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTemplatesDir); v != "" {
		c.TemplatesDir = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		c.Output = v
	}
	if v := os.Getenv(EnvTemplate); v != "" {
		c.Template = v
	}
	if v := os.Getenv(EnvInterval); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Interval = Duration(d)
		}
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks value ranges and creates missing working directories.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return errors.Newf(errors.ErrCodeConfig, "interval must be positive, got %s", c.Interval)
	}
	if c.Workers < 1 {
		return errors.Newf(errors.ErrCodeConfig, "workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueDepth < 1 {
		return errors.Newf(errors.ErrCodeConfig, "queue_depth must be at least 1, got %d", c.QueueDepth)
	}
	if c.Template == "" {
		return errors.New(errors.ErrCodeConfig, "template name is required")
	}
	if c.Output == "" {
		return errors.New(errors.ErrCodeConfig, "output target is required")
	}

	if err := os.MkdirAll(c.TemplatesDir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "creating templates directory", err)
	}
	return nil
}

// Package config provides configuration management for the Framepick Agent.
// Values are layered: built-in defaults, then an optional .env file, then
// environment variables, then command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort        = 8000
	DefaultLogLevel    = "info"
	DefaultDataDir     = ".framepick"
	DefaultRefreshSecs = 30

	// MinRefreshSecs is the floor for the catalog refresh interval.
	MinRefreshSecs = 5

	// Environment variable names
	EnvBaseDir     = "FRAMEPICK_BASE_DIR"
	EnvTranscript  = "FRAMEPICK_TRANSCRIPT"
	EnvOutputDir   = "FRAMEPICK_OUTPUT_DIR"
	EnvDataDir     = "FRAMEPICK_DATA_DIR"
	EnvPort        = "FRAMEPICK_PORT"
	EnvRefreshSecs = "FRAMEPICK_REFRESH_SECS"
	EnvLogLevel    = "FRAMEPICK_LOG_LEVEL"
	EnvHeadless    = "FRAMEPICK_HEADLESS"

	// Database filename
	DBFilename = "framepick.db"
)

// Config defines the application configuration interface
type Config interface {
	BaseDir() string
	TranscriptPath() string
	OutputDir() string
	DataDir() string
	DBPath() string
	Port() int
	RefreshInterval() time.Duration
	LogLevel() string
	Headless() bool
}

// EnvConfig holds the resolved configuration after layering
type EnvConfig struct {
	baseDir     string
	transcript  string
	outputDir   string
	dataDir     string
	port        int
	refreshSecs int
	logLevel    string
	headless    bool
}

// New resolves configuration from defaults, an optional .env file,
// environment variables, and the given command-line arguments, then
// validates the result. args is os.Args[1:] in production.
func New(args []string) (*EnvConfig, error) {
	_ = godotenv.Load()

	cfg := &EnvConfig{
		port:        DefaultPort,
		refreshSecs: DefaultRefreshSecs,
		logLevel:    DefaultLogLevel,
		dataDir:     defaultDataDir(),
	}

	if bd := os.Getenv(EnvBaseDir); bd != "" {
		cfg.baseDir = bd
	}
	if tp := os.Getenv(EnvTranscript); tp != "" {
		cfg.transcript = tp
	}
	if od := os.Getenv(EnvOutputDir); od != "" {
		cfg.outputDir = od
	}
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		cfg.port = port
	}
	if rs := os.Getenv(EnvRefreshSecs); rs != "" {
		secs, err := strconv.Atoi(rs)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRefreshSecs, err)
		}
		cfg.refreshSecs = secs
	}
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}
	if hl := os.Getenv(EnvHeadless); hl != "" {
		headless, err := strconv.ParseBool(hl)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	fs := flag.NewFlagSet("framepick-agent", flag.ContinueOnError)
	fs.StringVar(&cfg.baseDir, "base-dir", cfg.baseDir, "directory of gallery images (required)")
	fs.StringVar(&cfg.transcript, "transcript", cfg.transcript, "path to the transcript markdown file")
	fs.StringVar(&cfg.outputDir, "output-dir", cfg.outputDir, "directory export bundles are written to (defaults to base-dir)")
	fs.StringVar(&cfg.dataDir, "data-dir", cfg.dataDir, "agent state directory")
	fs.IntVar(&cfg.port, "port", cfg.port, "HTTP port to listen on")
	fs.IntVar(&cfg.refreshSecs, "refresh-secs", cfg.refreshSecs, "catalog refresh interval in seconds")
	fs.BoolVar(&cfg.headless, "headless", cfg.headless, "run without the system tray")
	fs.StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *EnvConfig) validate() error {
	if c.baseDir == "" {
		return fmt.Errorf("base directory is required (set --base-dir or %s)", EnvBaseDir)
	}

	abs, err := filepath.Abs(c.baseDir)
	if err != nil {
		return fmt.Errorf("resolve base directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("base directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base directory %s is not a directory", abs)
	}
	c.baseDir = abs

	if c.transcript != "" {
		if c.transcript, err = filepath.Abs(c.transcript); err != nil {
			return fmt.Errorf("resolve transcript path: %w", err)
		}
	}

	if c.outputDir == "" {
		c.outputDir = c.baseDir
	} else if c.outputDir, err = filepath.Abs(c.outputDir); err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}

	if c.dataDir, err = filepath.Abs(c.dataDir); err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}

	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.port)
	}

	if c.refreshSecs < MinRefreshSecs {
		c.refreshSecs = MinRefreshSecs
	}

	return nil
}

// BaseDir returns the absolute path of the gallery image directory
func (c *EnvConfig) BaseDir() string {
	return c.baseDir
}

// TranscriptPath returns the transcript file path, empty when unset.
// A missing transcript file is not a configuration error; the transcript
// service degrades to an empty segment list.
func (c *EnvConfig) TranscriptPath() string {
	return c.transcript
}

// OutputDir returns the directory export bundles are written to
func (c *EnvConfig) OutputDir() string {
	return c.outputDir
}

// DataDir returns the agent state directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// RefreshInterval returns the catalog refresh interval
func (c *EnvConfig) RefreshInterval() time.Duration {
	return time.Duration(c.refreshSecs) * time.Second
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// Headless reports whether the system tray is disabled
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

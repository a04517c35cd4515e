package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeConvert = "convert"
	ModeServe   = "serve"

	// Default values
	DefaultWorkers     = 4
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the converter
type Config struct {
	// Run mode: "convert" or "serve"
	Mode string

	// Single-file conversion
	Input  string
	Output string

	// Batch conversion
	Batch     bool
	InputDir  string
	OutputDir string

	// Extraction options
	Pages    string
	Fast     bool
	NoTables bool
	NoImages bool

	// Output options
	TraditionalFormat bool
	Workers           int

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeConvert,
		Workers:     DefaultWorkers,
		Version:     "1.0.0",
		ServerName:  "pdf2sheet",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	expandConfigPaths(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PDF2SHEET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input", cfg.Input)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("batch", cfg.Batch)
	viper.SetDefault("input-dir", cfg.InputDir)
	viper.SetDefault("output-dir", cfg.OutputDir)
	viper.SetDefault("pages", cfg.Pages)
	viper.SetDefault("fast", cfg.Fast)
	viper.SetDefault("no-tables", cfg.NoTables)
	viper.SetDefault("no-images", cfg.NoImages)
	viper.SetDefault("traditional-format", cfg.TraditionalFormat)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'convert' to produce workbooks, 'serve' for MCP standard I/O")
	pflag.String("input", cfg.Input, "PDF file to convert")
	pflag.String("output", cfg.Output, "Output workbook path (defaults to the input name with .xlsx)")
	pflag.Bool("batch", cfg.Batch, "Convert every PDF in --input-dir")
	pflag.String("input-dir", cfg.InputDir, "Directory of PDF files for batch conversion")
	pflag.String("output-dir", cfg.OutputDir, "Directory for batch output workbooks")
	pflag.String("pages", cfg.Pages, "Page selection, e.g. '3', '1-5', or '1,3,7-9' (default all pages)")
	pflag.Bool("fast", cfg.Fast, "Skip the color/shape scan and image cataloging for speed")
	pflag.Bool("no-tables", cfg.NoTables, "Disable table detection; all text renders as rows")
	pflag.Bool("no-images", cfg.NoImages, "Disable image cataloging")
	pflag.Bool("traditional-format", cfg.TraditionalFormat, "Write the multi-sheet summary workbook instead of layout sheets")
	pflag.Int("workers", cfg.Workers, "Concurrent conversions in batch mode")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "input", "output", "batch", "input-dir", "output-dir",
		"pages", "fast", "no-tables", "no-images", "traditional-format",
		"workers", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\npdf2sheet - Convert PDF documents into styled Excel workbooks\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input=statement.pdf                        "+
			"# convert one file next to the input\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=in.pdf --output=out.xlsx --pages=1-3 "+
			"# selected pages to a chosen path\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --batch --input-dir=./pdfs --output-dir=./out # convert a directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=in.pdf --traditional-format           # multi-sheet summary workbook\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=serve                                  # MCP server on stdio\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_MODE                Run mode\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_INPUT               Input PDF file\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_OUTPUT              Output workbook path\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_BATCH               Batch mode\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_INPUT_DIR           Batch input directory\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_OUTPUT_DIR          Batch output directory\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_PAGES               Page selection\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_FAST                Fast mode\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_NO_TABLES           Disable table detection\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_NO_IMAGES           Disable image cataloging\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_TRADITIONAL_FORMAT  Multi-sheet summary workbook\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_WORKERS             Batch worker count\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_LOGLEVEL            Log level\n")
		fmt.Fprintf(os.Stderr, "  PDF2SHEET_MAXFILESIZE         Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Input = viper.GetString("input")
	cfg.Output = viper.GetString("output")
	cfg.Batch = viper.GetBool("batch")
	cfg.InputDir = viper.GetString("input-dir")
	cfg.OutputDir = viper.GetString("output-dir")
	cfg.Pages = viper.GetString("pages")
	cfg.Fast = viper.GetBool("fast")
	cfg.NoTables = viper.GetBool("no-tables")
	cfg.NoImages = viper.GetBool("no-images")
	cfg.TraditionalFormat = viper.GetBool("traditional-format")
	cfg.Workers = viper.GetInt("workers")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// expandConfigPaths makes the configured paths absolute where set
func expandConfigPaths(cfg *Config) {
	for _, path := range []*string{&cfg.Input, &cfg.Output, &cfg.InputDir, &cfg.OutputDir} {
		if *path == "" {
			continue
		}
		if expanded, err := filepath.Abs(*path); err == nil {
			*path = expanded
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeConvert && c.Mode != ModeServe {
		return errors.New("mode must be either 'convert' or 'serve'")
	}

	// Convert mode needs something to convert
	if c.Mode == ModeConvert {
		if c.Batch {
			if c.InputDir == "" {
				return errors.New("batch conversion requires --input-dir")
			}
		} else if c.Input == "" {
			return errors.New("convert mode requires --input, or --batch with --input-dir")
		}
	}

	// Check if output directory exists, create if it doesn't
	if c.OutputDir != "" {
		if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
		}
	}

	// Validate worker count
	if c.Workers < 1 {
		return errors.New("worker count must be at least 1")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, InputDir: %s, OutputDir: %s, Workers: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Input, c.InputDir, c.OutputDir, c.Workers, c.LogLevel, c.MaxFileSize)
}

// IsServeMode returns true if the MCP server mode was selected
func (c *Config) IsServeMode() bool {
	return c.Mode == ModeServe
}

// IsConvertMode returns true if the converter mode was selected
func (c *Config) IsConvertMode() bool {
	return c.Mode == ModeConvert
}

// IsBatch returns true if batch conversion was selected
func (c *Config) IsBatch() bool {
	return c.Batch
}

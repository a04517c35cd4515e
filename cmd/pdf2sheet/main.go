package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sheetforge/pdf2sheet/internal/config"
	"github.com/sheetforge/pdf2sheet/internal/convert"
	"github.com/sheetforge/pdf2sheet/internal/mcp"
	"github.com/sheetforge/pdf2sheet/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsServeMode() {
		// In serve mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		// Reduce log verbosity in serve mode unless debug is enabled
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		// In convert mode, use normal stdout logging with more detail
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// runServeMode starts the MCP server on stdio
func runServeMode(ctx context.Context, converter *convert.Service, cfg *config.Config) {
	// In serve mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error
	pdfService := pdf.NewService(cfg.MaxFileSize)

	server, err := mcp.NewServer(cfg, converter, pdfService)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Start server and wait for it to complete
	if err := server.Run(ctx); err != nil {
		// Only log to stderr in debug mode to avoid protocol interference
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// runConvertFile converts a single PDF and prints the outcome
func runConvertFile(converter *convert.Service, cfg *config.Config) {
	result, err := converter.ConvertFile(convert.ConvertRequest{
		InputPath:   cfg.Input,
		OutputPath:  cfg.Output,
		Pages:       cfg.Pages,
		Fast:        cfg.Fast,
		NoTables:    cfg.NoTables,
		NoImages:    cfg.NoImages,
		Traditional: cfg.TraditionalFormat,
	})
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	printConvertResult(result)
}

// runConvertBatch converts every PDF in the input directory with
// signal-aware cancellation for the in-flight workers
func runConvertBatch(ctx context.Context, cancel context.CancelFunc, converter *convert.Service, cfg *config.Config) {
	// Set up signal handling so interrupts cancel the remaining files
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		sig := <-signalCh
		log.Printf("Received signal: %s", sig)
		log.Println("Canceling remaining conversions...")
		cancel()
	}()

	result, err := converter.ConvertBatch(ctx, convert.BatchRequest{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		Workers:     cfg.Workers,
		Pages:       cfg.Pages,
		Fast:        cfg.Fast,
		NoTables:    cfg.NoTables,
		NoImages:    cfg.NoImages,
		Traditional: cfg.TraditionalFormat,
	})
	if err != nil {
		log.Fatalf("Batch conversion failed: %v", err)
	}

	fmt.Printf("Converted %d of %d files in %s\n", result.Succeeded, len(result.Results), result.Duration)
	for _, outcome := range result.Results {
		if outcome.Error != "" {
			fmt.Printf("  failed: %s: %s\n", outcome.InputPath, outcome.Error)
		} else {
			fmt.Printf("  %s -> %s (%d pages)\n", outcome.InputPath, outcome.OutputPath, outcome.Pages)
		}
	}

	// A batch with nothing converted is a failure; partial success is not
	if result.Succeeded == 0 {
		os.Exit(1)
	}
}

// printConvertResult prints a single-file conversion summary to stdout
func printConvertResult(result *convert.ConvertResult) {
	fmt.Printf("Converted %s -> %s\n", result.InputPath, result.OutputPath)
	fmt.Printf("Pages: %d, tables: %d, duration: %s\n", result.PageCount, result.TableCount, result.Duration)
	if result.Report != nil {
		if skipped := result.Report.SkippedCount(); skipped > 0 {
			fmt.Printf("Skipped elements: %d\n", skipped)
		}
		if degraded := result.Report.DegradedPages(); len(degraded) > 0 {
			fmt.Printf("Pages rendered plain after analysis failure: %v\n", degraded)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging based on mode
	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() && cfg.IsConvertMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	converter := convert.NewService(cfg.MaxFileSize)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle different modes
	switch {
	case cfg.IsServeMode():
		runServeMode(ctx, converter, cfg)
	case cfg.IsBatch():
		runConvertBatch(ctx, cancel, converter, cfg)
	default:
		runConvertFile(converter, cfg)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("pdf2sheet - PDF to Excel layout converter\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}

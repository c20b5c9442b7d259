package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subdl/subreddit-dl/internal/config"
	"github.com/subdl/subreddit-dl/internal/download"
	"github.com/subdl/subreddit-dl/internal/model"
)

func main() {
	// Command line flags
	var (
		subredditFlag   = flag.String("subreddit", "", "Subreddit to download, with or without the r/ prefix")
		afterFlag       = flag.String("after", "", "Only consider posts on or after this date (YYYY-MM-DD)")
		beforeFlag      = flag.String("before", "", "Only consider posts before this date (YYYY-MM-DD)")
		outputFlag      = flag.String("output", "", "Download root directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		concurrencyFlag = flag.Int("concurrency", 0, "Maximum concurrent downloads (overrides config)")
		jpgFlag         = flag.Bool("jpg", false, "Convert downloaded images to JPEG")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag      = flag.Bool("dry-run", false, "Resolve media without downloading")
	)

	flag.Parse()

	// CLI mode - require a subreddit
	if *subredditFlag == "" && flag.NArg() == 0 {
		fmt.Println("Subreddit Downloader - Download a subreddit's media")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  subreddit-dl -subreddit <name> [options]")
		fmt.Println("  subreddit-dl <name> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: subreddit-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	subreddit := *subredditFlag
	if subreddit == "" && flag.NArg() > 0 {
		subreddit = flag.Arg(0)
	}
	settings.Subreddit = subreddit
	if *afterFlag != "" {
		settings.After = *afterFlag
	}
	if *beforeFlag != "" {
		settings.Before = *beforeFlag
	}
	if *outputFlag != "" {
		settings.DownloadRoot = *outputFlag
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}
	if *jpgFlag {
		settings.ConvertImagesToJPG = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})
	defer manager.Close()

	// Initialize
	fmt.Println("📷 Subreddit Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nResolved %d media items.\n", manager.ItemCount())

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	// Start downloads
	fmt.Println("\n📥 Starting downloads...")
	fmt.Println()

	started := time.Now()
	results := manager.StartDownloads(ctx)
	if ctx.Err() != nil {
		fmt.Println("\nDownload cancelled.")
		os.Exit(130)
	}

	var succeeded, skipped, failed int
	for _, res := range results {
		switch res.Outcome {
		case model.OutcomeSuccess:
			succeeded++
		case model.OutcomeSkippedGone, model.OutcomeUnrecognized:
			skipped++
		default:
			failed++
		}
	}

	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! Downloaded %d/%d items", succeeded, len(results))
	if skipped > 0 {
		fmt.Printf(", %d skipped", skipped)
	}
	if failed > 0 {
		fmt.Printf(", %d failed", failed)
	}
	fmt.Printf(" in %s\n", time.Since(started).Round(time.Second))

	if failed > 0 {
		os.Exit(1)
	}
}

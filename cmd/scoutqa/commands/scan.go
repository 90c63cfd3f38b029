package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/report"
	"github.com/scoutqa/scoutqa/pkg/scoutqa"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a QA scan against a website",
	Long: `Scan discovers pages reachable from a seed URL, drives a headless
browser against each to find console errors, failed network requests,
broken links and images, accessibility violations, and responsive
overflow, then prints a consolidated report.

Examples:
  scoutqa scan -u "https://example.com"
  scoutqa scan -u "https://example.com" --max-pages 10 --format yaml`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	flags := scanCmd.Flags()
	flags.StringP("url", "u", "", "seed URL to scan (required)")
	flags.Int("max-pages", 20, "maximum pages to crawl")
	flags.Int("concurrency", 3, "maximum concurrent page loads")
	flags.StringP("provider", "p", "", "external LLM provider for remediation hints: anthropic, openai (auto-detects from env vars)")
	flags.StringP("model", "m", "", "model name (provider-specific)")
	flags.StringP("api-key", "k", "", "API key (or use env var)")
	flags.String("cache-path", "scoutqa-cache.json", "prompt cache file")
	flags.String("analytics-path", "", "append a scan-complete record to this file (disabled if empty)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "report format: json, yaml")

	_ = scanCmd.MarkFlagRequired("url")
}

func runScan(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	seedURL, _ := cmd.Flags().GetString("url")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	provider, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	cachePath, _ := cmd.Flags().GetString("cache-path")
	analyticsPath, _ := cmd.Flags().GetString("analytics-path")
	outPath, _ := cmd.Flags().GetString("output")
	formatStr, _ := cmd.Flags().GetString("format")

	engine, err := scoutqa.New(
		scoutqa.WithMaxPages(maxPages),
		scoutqa.WithMaxConcurrency(concurrency),
		scoutqa.WithLLMProvider(provider),
		scoutqa.WithLLMModel(model),
		scoutqa.WithLLMAPIKey(apiKey),
		scoutqa.WithCachePath(cachePath),
		scoutqa.WithAnalyticsPath(analyticsPath),
	)
	if err != nil {
		logError("failed to initialize: %v", err)
		return err
	}

	scanID, err := engine.StartScan(seedURL)
	if err != nil {
		logError("failed to start scan: %v", err)
		return err
	}
	logInfo("scan %s started for %s", scanID, seedURL)

	done := make(chan struct{})
	unsubscribe, err := engine.SubscribeProgress(scanID, func(ev scoutqa.ProgressEvent) {
		logInfo("[%3d%%] %s: %s", ev.Progress, ev.Phase, ev.Message)
		if ev.Phase == scoutqa.PhaseComplete {
			close(done)
		}
	})
	if err != nil {
		logError("failed to subscribe to progress: %v", err)
		return err
	}
	defer unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
	case <-waitForTerminal(ctx, engine, scanID):
	}

	status, rep, errMsg, err := engine.GetReport(scanID)
	if err != nil {
		logError("failed to fetch report: %v", err)
		return err
	}
	if status == scoutqa.StatusError {
		return fmt.Errorf("scan failed: %s", errMsg)
	}
	if rep == nil {
		return fmt.Errorf("scan did not produce a report")
	}

	outFile := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) //#nosec G304 -- CLI tool writes to user-specified output file
		if err != nil {
			logError("failed to create output file: %v", err)
			return err
		}
		defer func() { _ = f.Close() }()
		outFile = f
	}

	return report.Write(outFile, *rep, report.Format(formatStr))
}

// waitForTerminal polls GetReport as a fallback in case the complete
// event is missed by a subscriber that races scan completion (the
// progress bus never replays events, per spec §4.7).
func waitForTerminal(ctx context.Context, engine *scoutqa.Engine, scanID string) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status, _, _, err := engine.GetReport(scanID)
				if err != nil || status != scoutqa.StatusRunning {
					return
				}
			}
		}
	}()
	return ch
}

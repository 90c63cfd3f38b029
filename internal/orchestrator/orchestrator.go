// Package orchestrator drives the end-to-end pipeline (spec §4.4):
// crawl, page-drive every discovered page, generate prompts, build the
// report, publishing progress at each step.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/scoutqa/scoutqa/internal/analytics"
	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/crawler"
	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/model"
	"github.com/scoutqa/scoutqa/internal/pagedriver"
	"github.com/scoutqa/scoutqa/internal/promptcache"
	"github.com/scoutqa/scoutqa/internal/promptgen"
	"github.com/scoutqa/scoutqa/internal/report"
	"github.com/scoutqa/scoutqa/pkg/llm"
)

// ScanTimeout is the whole-scan budget from spec §4.4: past this, the
// orchestrator gives up and returns no partial report.
const ScanTimeout = 5 * time.Minute

// ErrScanTimeout is returned when a scan does not complete within
// ScanTimeout.
var ErrScanTimeout = errors.New("orchestrator: scan timed out")

// Orchestrator owns one run of the pipeline.
type Orchestrator struct {
	crawlerConfig crawler.Config
	provider      llm.Provider
	cache         *promptcache.Cache
	sink          analytics.Sink
	scanTimeout   time.Duration
}

// New builds an Orchestrator. provider may be nil when no external LLM
// credential was detected (spec §6's "missing credential" case); sink
// may be nil, in which case scan-complete records are dropped.
// scanTimeout overrides the whole-scan budget; zero keeps ScanTimeout.
func New(crawlerConfig crawler.Config, provider llm.Provider, cache *promptcache.Cache, sink analytics.Sink, scanTimeout time.Duration) *Orchestrator {
	if sink == nil {
		sink = analytics.NoopSink{}
	}
	if scanTimeout <= 0 {
		scanTimeout = ScanTimeout
	}
	return &Orchestrator{
		crawlerConfig: crawlerConfig,
		provider:      provider,
		cache:         cache,
		sink:          sink,
		scanTimeout:   scanTimeout,
	}
}

// Run executes one full scan of seedURL, publishing progress through
// onProgress, and returns the finished report.
func (o *Orchestrator) Run(ctx context.Context, seedURL string, onProgress func(model.ProgressEvent)) (model.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, o.scanTimeout)
	defer cancel()

	type runResult struct {
		report model.Report
		err    error
	}
	done := make(chan runResult, 1)

	go func() {
		rep, err := o.run(ctx, seedURL, onProgress)
		done <- runResult{rep, err}
	}()

	select {
	case <-ctx.Done():
		return model.Report{}, ErrScanTimeout
	case r := <-done:
		return r.report, r.err
	}
}

func (o *Orchestrator) run(ctx context.Context, seedURL string, onProgress func(model.ProgressEvent)) (model.Report, error) {
	var progressMu sync.Mutex
	maxProgress := 0
	publish := func(phase, message string, progress int) {
		progressMu.Lock()
		if progress < maxProgress {
			progress = maxProgress
		}
		maxProgress = progress
		progressMu.Unlock()
		if onProgress != nil {
			onProgress(model.ProgressEvent{Phase: phase, Message: message, Progress: progress})
		}
	}

	publish(model.PhaseCrawling, "Starting page discovery...", 0)

	launcher, err := browser.NewLauncher()
	if err != nil {
		return model.Report{}, fmt.Errorf("launch browser: %w", err)
	}
	defer launcher.Close()

	crawl := crawler.New(launcher, o.crawlerConfig)
	pages, err := crawl.Crawl(ctx, seedURL, func(ev model.ProgressEvent) {
		publish(model.PhaseCrawling, ev.Message, scaleProgress(ev.Progress, 0, 30))
	})
	if err != nil {
		return model.Report{}, fmt.Errorf("crawl: %w", err)
	}
	publish(model.PhaseCrawling, fmt.Sprintf("Found %d page(s)", len(pages)), 30)

	driver := pagedriver.New(launcher)
	total := len(pages)
	for i := range pages {
		label := pages[i].Title
		if label == "" {
			label = pages[i].URL
		}
		publish(model.PhaseTesting, fmt.Sprintf("Testing page %d/%d: %s", i+1, total, label),
			30+progressStep(i+1, total, 50))
		pages[i].Defects = driver.Run(ctx, pages[i].URL)
	}

	publish(model.PhasePrompts, "Generating fix prompts...", 85)

	var allDefects []model.Defect
	offsets := make([]int, len(pages))
	for i, p := range pages {
		offsets[i] = len(allDefects)
		allDefects = append(allDefects, p.Defects...)
	}

	filled, result := promptgen.Generate(ctx, o.provider, o.cache, allDefects)

	var warnings []string
	if result.UsedFallback {
		publish(model.PhasePrompts, result.FallbackReason, 90)
		warnings = append(warnings, result.FallbackReason)
	}

	for i := range pages {
		start := offsets[i]
		end := start + len(pages[i].Defects)
		pages[i].Defects = filled[start:end]
	}

	publish(model.PhaseReport, "Building report...", 95)
	rep := report.Build(seedURL, pages)
	rep.Warnings = append(rep.Warnings, warnings...)

	o.recordAnalytics(ctx, seedURL, rep, result.UsedFallback)

	publish(model.PhaseComplete, "Scan complete!", 100)
	return rep, nil
}

func (o *Orchestrator) recordAnalytics(ctx context.Context, seedURL string, rep model.Report, usedTemplates bool) {
	rec := analytics.ScanComplete{
		Domain:         domainOf(seedURL),
		PagesScanned:   len(rep.Pages),
		TotalBugs:      rep.Summary.TotalDefects,
		BugsByType:     rep.Summary.ByType,
		BugsBySeverity: rep.Summary.BySeverity,
		UsedTemplates:  usedTemplates,
		Timestamp:      time.Now(),
	}
	if err := o.sink.Record(ctx, rec); err != nil {
		logger.Warn("analytics sink failed", "error", err)
	}
}

// scaleProgress maps a 0-100 inner progress value onto the [lo, hi]
// outer range (spec §4.4 step 2's "maps inner 0-100 to outer 0-30").
func scaleProgress(inner, lo, hi int) int {
	return lo + (inner*(hi-lo))/100
}

// progressStep computes floor((done/total) * span) for the per-page
// testing phase (spec §4.4 step 3).
func progressStep(done, total, span int) int {
	if total == 0 {
		return span
	}
	return (done * span) / total
}

// domainOf returns seedURL's host for the analytics record, falling
// back to the raw URL if it doesn't parse.
func domainOf(seedURL string) string {
	u, err := url.Parse(seedURL)
	if err != nil || u.Host == "" {
		return seedURL
	}
	return u.Host
}

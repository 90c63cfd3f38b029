// Package scoutqa is the public façade over the scan engine: it wires
// the crawler, page driver, prompt generator, report builder, and
// progress bus into the three-method surface spec §6 names
// (startScan/subscribeProgress/getReport), owning the process-wide
// single-scan rule and the scan registry.
package scoutqa

import (
	"context"
	"fmt"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoutqa/scoutqa/internal/crawler"
	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/orchestrator"
	"github.com/scoutqa/scoutqa/internal/promptcache"
)

// Version returns the module version scoutqa was built with, the same
// way the teacher's refyne.Version reads runtime/debug build info.
func Version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown)"
}

// Engine is the entry point for running QA scans.
type Engine struct {
	config       Config
	orchestrator *orchestrator.Orchestrator
	registry     *registry
}

// New builds an Engine. A missing LLM credential is not an error: the
// prompt generator falls back to templates (spec §6).
func New(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("scoutqa: invalid config: %w", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("scoutqa: build LLM provider: %w", err)
	}

	cache := promptcache.New(cfg.CachePath)
	sink := buildSink(cfg)

	crawlerCfg := crawler.Config{MaxPages: cfg.MaxPages, MaxConcurrency: cfg.MaxConcurrency}

	return &Engine{
		config:       cfg,
		orchestrator: orchestrator.New(crawlerCfg, provider, cache, sink, cfg.ScanTimeout),
		registry:     newRegistry(),
	}, nil
}

// scanTimeout returns the configured whole-scan budget, falling back to
// the orchestrator's default when the caller didn't override it.
func (e *Engine) scanTimeout() time.Duration {
	if e.config.ScanTimeout <= 0 {
		return orchestrator.ScanTimeout
	}
	return e.config.ScanTimeout
}

// StartScan begins a scan of seedURL and returns its id immediately;
// the scan runs in the background and publishes progress through
// SubscribeProgress until GetReport can return a terminal status.
func (e *Engine) StartScan(seedURL string) (string, error) {
	if !isValidSeedURL(seedURL) {
		return "", ErrInvalidSeedURL
	}
	if e.registry.hasRunning() {
		return "", ErrScanInProgress
	}

	id := uuid.New().String()
	s := newScan(id, seedURL)
	e.registry.add(s)

	go e.runScan(s)

	return id, nil
}

func (e *Engine) runScan(s *scan) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, e.scanTimeout())
	defer cancel()

	report, err := e.orchestrator.Run(ctx, s.seedURL, func(ev ProgressEvent) {
		s.bus.publish(ev)
	})
	if err != nil {
		if ferr := s.fail(err); ferr != nil {
			logger.Warn("scan status transition failed", "scan", s.id, "error", ferr)
		}
		return
	}
	if cerr := s.complete(report); cerr != nil {
		logger.Warn("scan status transition failed", "scan", s.id, "error", cerr)
	}
}

// SubscribeProgress attaches onEvent to scanId's progress stream and
// returns an idempotent detach function. Events are never replayed: a
// subscriber attaching after completion receives nothing (spec §4.7).
func (e *Engine) SubscribeProgress(scanID string, onEvent func(ProgressEvent)) (func(), error) {
	s, ok := e.registry.get(scanID)
	if !ok {
		return nil, ErrScanNotFound
	}
	return s.bus.subscribe(onEvent), nil
}

// GetReport returns scanId's current status and, once complete, its
// report. errMsg is populated when status is StatusError.
func (e *Engine) GetReport(scanID string) (Status, *Report, string, error) {
	s, ok := e.registry.get(scanID)
	if !ok {
		return "", nil, "", ErrScanNotFound
	}
	status, report, errMsg := s.snapshot()
	return status, report, errMsg, nil
}

func isValidSeedURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !u.IsAbs() {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return hasValidHostname(u.Hostname())
}

// hasValidHostname reports whether host has at least two dot-separated
// parts with a TLD of two or more characters (spec §6), rejecting bare
// hosts like "localhost" or "notld" that carry no real TLD.
func hasValidHostname(host string) bool {
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return false
	}
	tld := parts[len(parts)-1]
	return len(tld) >= 2
}

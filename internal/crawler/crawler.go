package crawler

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/model"
)

const (
	navigationBudget = 15 * time.Second
	handlerBudget    = 30 * time.Second
)

// DefaultMaxPages and DefaultMaxConcurrency are spec §4.1's documented
// defaults.
const (
	DefaultMaxPages       = 20
	DefaultMaxConcurrency = 3
)

// Config bounds a crawl.
type Config struct {
	MaxPages       int
	MaxConcurrency int
}

// DefaultConfig returns the crawler's documented defaults.
func DefaultConfig() Config {
	return Config{MaxPages: DefaultMaxPages, MaxConcurrency: DefaultMaxConcurrency}
}

// Crawler discovers same-origin pages reachable from a seed URL, loading
// each one through the shared browser launcher the page driver's testers
// reuse for the same page afterward.
type Crawler struct {
	launcher *browser.Launcher
	config   Config
}

// New creates a Crawler bound to launcher.
func New(launcher *browser.Launcher, cfg Config) *Crawler {
	if cfg.MaxPages < 1 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	return &Crawler{launcher: launcher, config: cfg}
}

// loaded is one successfully loaded page, keyed by normalized final URL.
type loaded struct {
	url        string
	title      string
	loadMillis int64
}

// Crawl runs the bounded breadth-first discovery from spec §4.1 and
// returns the discovered pages. Fails only if the seed itself cannot be
// loaded; any other load failure is swallowed and logged. onProgress, if
// non-nil, receives phase "crawling" events as pages are found, and a
// final 100% event once the crawl is done.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, onProgress func(model.ProgressEvent)) ([]model.PageRecord, error) {
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Host == "" {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}

	logger.Debug("crawler starting", "seed", seedURL, "max_pages", c.config.MaxPages, "concurrency", c.config.MaxConcurrency)

	queue := NewURLQueue()
	queue.Add(seedURL)

	var mu sync.Mutex
	var ordered []loaded
	seen := make(map[string]int)
	seedFailed := false
	var seedErr error
	seedDone := false

	sem := make(chan struct{}, c.config.MaxConcurrency)
	var wg sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return collect(ordered), nil
		default:
		}

		if queue.VisitedCount() >= c.config.MaxPages && queue.Len() == 0 {
			break
		}

		current, ok := queue.Pop()
		if !ok {
			wg.Wait()
			if queue.Len() == 0 {
				break
			}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(pageURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			rec, links, loadErr := c.loadPage(ctx, pageURL)

			mu.Lock()
			isSeed := !seedDone
			seedDone = true
			mu.Unlock()

			if loadErr != nil {
				logger.Info("crawler page load failed", "url", pageURL, "error", loadErr)
				if isSeed {
					mu.Lock()
					seedFailed = true
					seedErr = loadErr
					mu.Unlock()
				}
				return
			}

			mu.Lock()
			if _, dup := seen[rec.url]; !dup {
				seen[rec.url] = len(ordered)
				ordered = append(ordered, rec)
			}
			found := len(ordered)
			mu.Unlock()

			if onProgress != nil {
				pct := (90 * found) / c.config.MaxPages
				if pct > 90 {
					pct = 90
				}
				onProgress(model.ProgressEvent{
					Phase:    model.PhaseCrawling,
					Message:  fmt.Sprintf("crawled %s", pageURL),
					Progress: pct,
				})
			}

			for _, link := range links {
				if queue.VisitedCount() >= c.config.MaxPages {
					break
				}
				queue.Add(link)
			}
		}(current)
	}

	wg.Wait()

	mu.Lock()
	failed, fErr, n := seedFailed, seedErr, len(ordered)
	mu.Unlock()

	if failed && n == 0 {
		return nil, fErr
	}

	if onProgress != nil {
		onProgress(model.ProgressEvent{Phase: model.PhaseCrawling, Message: "crawl complete", Progress: 100})
	}

	return collect(ordered), nil
}

// collect converts discovery-ordered loaded pages into the report's
// PageRecord shape, preserving that order (spec §5: "report order
// equals discovery order at crawl-time").
func collect(ordered []loaded) []model.PageRecord {
	out := make([]model.PageRecord, 0, len(ordered))
	for _, r := range ordered {
		out = append(out, model.PageRecord{URL: r.url, Title: r.title, LoadTimeMillis: r.loadMillis})
	}
	return out
}

// loadPage loads pageURL under the navigation and handler budgets from
// spec §4.1 and extracts the outbound links worth following next.
func (c *Crawler) loadPage(ctx context.Context, pageURL string) (loaded, []string, error) {
	handlerCtx, cancelHandler := context.WithTimeout(ctx, handlerBudget)
	defer cancelHandler()

	page := c.launcher.NewPage()
	defer page.Close()

	navCtx, cancelNav := context.WithTimeout(handlerCtx, navigationBudget)
	defer cancelNav()

	start := time.Now()
	if err := page.Navigate(navCtx, pageURL); err != nil {
		return loaded{}, nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	loadMillis := time.Since(start).Milliseconds()

	title, err := page.Title(handlerCtx)
	if err != nil {
		title = ""
	}

	html, err := page.OuterHTML(handlerCtx)
	if err != nil {
		html = ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return loaded{}, nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	var links []string
	if html != "" {
		links = extractLinks(html, base)
	}

	recURL := normalizeURL(pageURL)
	var finalURL string
	if err := page.Eval(handlerCtx, "window.location.href", &finalURL); err == nil {
		if norm := normalizeURL(finalURL); norm != "" {
			recURL = norm
		}
	}

	return loaded{url: recURL, title: title, loadMillis: loadMillis}, links, nil
}

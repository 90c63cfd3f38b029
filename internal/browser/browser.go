// Package browser wraps chromedp into the small set of hooks the scan
// engine needs: navigation, console/network listeners attached before
// navigation, viewport control, and best-effort element clicking. It is
// the concrete instance of the "headless browser with scripting hooks"
// dependency spec §9 deliberately leaves abstract.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/scoutqa/scoutqa/internal/logger"
)

// Launcher owns one browser allocator for the lifetime of a scan's test
// phase. Pages created from it share the same browser process but each
// gets its own isolated browsing context.
type Launcher struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
}

// NewLauncher starts a headless Chrome/Chromium instance.
func NewLauncher() (*Launcher, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 900),
	)

	if chromePath := FindChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	// Force allocation of the browser process now rather than lazily on
	// the first page, so launch failures surface immediately.
	probeCtx, cancelProbe := chromedp.NewContext(allocCtx)
	defer cancelProbe()
	if err := chromedp.Run(probeCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	logger.Debug("browser launched")
	return &Launcher{allocCtx: allocCtx, cancelAlloc: cancel}, nil
}

// Close shuts down the browser process and every page derived from it.
func (l *Launcher) Close() {
	if l.cancelAlloc != nil {
		l.cancelAlloc()
	}
}

// Page is one isolated browsing context. Listener registration
// (OnConsole, OnException, OnResponse, OnRequestFailed) must happen
// before Navigate for the tester contracts in spec §4.2 that require
// handlers attached before the page loads.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPage creates a fresh browsing context. Callers must call Close on
// all exit paths, including timeout and panic-recovery paths.
func (l *Launcher) NewPage() *Page {
	ctx, cancel := chromedp.NewContext(l.allocCtx)
	return &Page{ctx: ctx, cancel: cancel}
}

// Close releases the page's browsing context.
func (p *Page) Close() {
	p.cancel()
}

// OnConsole registers a handler for console API calls (console.log,
// console.error, ...). level is the cdproto console type string.
func (p *Page) OnConsole(handler func(level string, text string)) {
	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		e, ok := ev.(*runtime.EventConsoleAPICalled)
		if !ok {
			return
		}
		var parts []string
		for _, arg := range e.Args {
			if arg.Value != nil {
				parts = append(parts, string(arg.Value))
			} else if arg.Description != "" {
				parts = append(parts, arg.Description)
			}
		}
		text := joinArgs(parts)
		handler(string(e.Type), text)
	})
}

// OnException registers a handler for uncaught page exceptions.
func (p *Page) OnException(handler func(message, stack string)) {
	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		e, ok := ev.(*runtime.EventExceptionThrown)
		if !ok || e.ExceptionDetails == nil {
			return
		}
		msg := e.ExceptionDetails.Text
		stack := msg
		if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
			msg = e.ExceptionDetails.Exception.Description
			stack = msg
		}
		handler(msg, stack)
	})
}

// ResponseInfo describes one completed network response.
type ResponseInfo struct {
	URL    string
	Method string
	Status int64
}

// RequestFailure describes a request that never received a response.
type RequestFailure struct {
	URL       string
	Method    string
	ErrorText string
}

// OnResponse registers a handler invoked for every response received by
// the page, and OnRequestFailed for requests that fail outright (DNS,
// connection reset, ...). Both require network events enabled first via
// EnableNetwork.
func (p *Page) OnResponse(handler func(ResponseInfo)) {
	methods := make(map[network.RequestID]string)
	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			methods[e.RequestID] = e.Request.Method
		case *network.EventResponseReceived:
			handler(ResponseInfo{
				URL:    e.Response.URL,
				Method: methods[e.RequestID],
				Status: e.Response.Status,
			})
		}
	})
}

// OnRequestFailed registers a handler for requests that never completed.
func (p *Page) OnRequestFailed(handler func(RequestFailure)) {
	methods := make(map[network.RequestID]string)
	urls := make(map[network.RequestID]string)
	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			methods[e.RequestID] = e.Request.Method
			urls[e.RequestID] = e.Request.URL
		case *network.EventLoadingFailed:
			handler(RequestFailure{
				URL:       urls[e.RequestID],
				Method:    methods[e.RequestID],
				ErrorText: e.ErrorText,
			})
		}
	})
}

// EnableNetwork turns on CDP network event delivery. Call before
// Navigate when OnResponse/OnRequestFailed are registered.
func (p *Page) EnableNetwork(ctx context.Context) error {
	return chromedp.Run(ctx, network.Enable())
}

// Navigate loads url and waits for the body element to be ready.
func (p *Page) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body"))
}

// Settle sleeps for d to let async console/network/layout activity
// finish, per the per-tester settle windows in spec §4.2.
func (p *Page) Settle(ctx context.Context, d time.Duration) error {
	return chromedp.Run(ctx, chromedp.Sleep(d))
}

// Title returns the page title.
func (p *Page) Title(ctx context.Context) (string, error) {
	var title string
	if err := chromedp.Run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

// OuterHTML returns the full document HTML.
func (p *Page) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}

// Eval evaluates a JavaScript expression and decodes the result into res.
func (p *Page) Eval(ctx context.Context, expr string, res interface{}) error {
	return chromedp.Run(ctx, chromedp.Evaluate(expr, res))
}

// SetViewport emulates a viewport of the given size.
func (p *Page) SetViewport(ctx context.Context, width, height int64) error {
	return chromedp.Run(ctx, chromedp.EmulateViewport(width, height))
}

// ClickFirst clicks the first visible element matching any of the given
// CSS selectors, stopping at the first success. Used for best-effort
// cookie-consent dismissal; failures are swallowed by the caller.
func (p *Page) ClickFirst(ctx context.Context, selectors []string) bool {
	for _, sel := range selectors {
		clickCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		err := chromedp.Run(clickCtx, chromedp.Click(sel, chromedp.ByQuery))
		cancel()
		if err == nil {
			return true
		}
	}
	return false
}

// Context returns the page's browsing context, for callers that need to
// derive their own timeout context from it.
func (p *Page) Context() context.Context {
	return p.ctx
}

func joinArgs(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

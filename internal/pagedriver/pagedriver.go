// Package pagedriver runs the fixed tester set against one page,
// isolating each tester's failure from the others and from the page.
package pagedriver

import (
	"context"
	"time"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/logger"
	"github.com/scoutqa/scoutqa/internal/model"
	"github.com/scoutqa/scoutqa/internal/testers"
)

// perTesterTimeout is the isolation budget from spec §4.3: a tester that
// doesn't return within this window contributes zero defects.
const perTesterTimeout = 30 * time.Second

// Driver runs every tester against one URL using pages drawn from a
// shared browser launcher.
type Driver struct {
	launcher *browser.Launcher
}

// New creates a Driver bound to launcher.
func New(launcher *browser.Launcher) *Driver {
	return &Driver{launcher: launcher}
}

// Run executes all six testers sequentially against pageURL, each in
// its own fresh page, and returns the combined defect list. A tester
// that times out or panics contributes no defects; it never fails the
// page or the scan.
func (d *Driver) Run(ctx context.Context, pageURL string) []model.Defect {
	var defects []model.Defect

	for _, tester := range testers.All() {
		found := d.runOne(ctx, tester, pageURL)
		defects = append(defects, found...)
	}

	return defects
}

func (d *Driver) runOne(ctx context.Context, tester testers.Tester, pageURL string) []model.Defect {
	testCtx, cancel := context.WithTimeout(ctx, perTesterTimeout)
	defer cancel()

	page := d.launcher.NewPage()
	defer page.Close()

	type outcome struct {
		defects []model.Defect
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: panicError{r}}
			}
		}()
		found, err := tester.Run(testCtx, page, pageURL)
		done <- outcome{defects: found, err: err}
	}()

	select {
	case <-testCtx.Done():
		logger.Warn("tester timed out", "type", tester.Type, "url", pageURL)
		return nil
	case o := <-done:
		if o.err != nil {
			logger.Warn("tester failed", "type", tester.Type, "url", pageURL, "error", o.err)
			return nil
		}
		return o.defects
	}
}

type panicError struct{ value any }

func (p panicError) Error() string {
	return "tester panicked"
}

// Package testers implements the six independent defect detectors the
// page driver runs against every crawled page. Each is expressed as a
// Tester value rather than an interface implementation, since the set
// is fixed and enumerated explicitly rather than discovered (spec §9:
// "a variant set rather than open inheritance").
package testers

import (
	"context"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// Tester runs one defect check against a freshly created, not-yet-
// navigated page. Testers that need handlers attached before navigation
// (console, network) register them and then call pg.Navigate; testers
// that only need to inspect a loaded page (image, link, accessibility,
// responsive) navigate first thing in Run.
type Tester struct {
	Type model.DefectType
	Run  func(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error)
}

// All returns the six testers in the fixed order the page driver runs
// them: console, network, image, link, accessibility, responsive.
func All() []Tester {
	return []Tester{
		ConsoleErrorTester,
		NetworkErrorTester,
		BrokenImageTester,
		BrokenLinkTester,
		AccessibilityTester,
		ResponsiveTester,
	}
}

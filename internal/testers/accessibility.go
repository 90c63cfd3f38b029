package testers

import (
	"context"
	"strings"
	"time"

	"github.com/scoutqa/scoutqa/internal/a11y"
	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// AccessibilityTester implements spec §4.2.5.
var AccessibilityTester = Tester{
	Type: model.DefectAccessibility,
	Run:  runAccessibilityTester,
}

func runAccessibilityTester(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error) {
	if err := pg.Navigate(ctx, pageURL); err != nil {
		return nil, err
	}
	if err := pg.Settle(ctx, 300*time.Millisecond); err != nil {
		return nil, err
	}

	html, err := pg.OuterHTML(ctx)
	if err != nil {
		return nil, err
	}

	violations, err := a11y.Audit(html)
	if err != nil {
		return nil, err
	}

	defects := make([]model.Defect, 0, len(violations))
	for _, v := range violations {
		defects = append(defects, model.Defect{
			Type:     model.DefectAccessibility,
			Severity: severityForImpact(v.Impact),
			Title:    v.RuleID + ": " + v.Help,
			Details:  v.Description + ". Affected elements: " + strings.Join(v.Nodes, ", "),
			Page:     pageURL,
		})
	}
	return defects, nil
}

func severityForImpact(impact a11y.Impact) model.Severity {
	switch impact {
	case a11y.ImpactCritical:
		return model.SeverityCritical
	case a11y.ImpactSerious:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

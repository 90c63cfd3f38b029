package testers

import (
	"context"
	"fmt"
	"time"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// ResponsiveTester implements spec §4.2.6.
var ResponsiveTester = Tester{
	Type: model.DefectResponsive,
	Run:  runResponsiveTester,
}

type viewport struct {
	name     string
	width    int64
	height   int64
	severity model.Severity
}

var viewports = []viewport{
	{name: "Mobile", width: 375, height: 812, severity: model.SeverityWarning},
	{name: "Tablet", width: 768, height: 1024, severity: model.SeverityWarning},
	{name: "Desktop", width: 1440, height: 900, severity: model.SeverityInfo},
}

const overflowExpr = `({scrollWidth: document.documentElement.scrollWidth, clientWidth: document.documentElement.clientWidth})`

type overflowResult struct {
	ScrollWidth int64 `json:"scrollWidth"`
	ClientWidth int64 `json:"clientWidth"`
}

func runResponsiveTester(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error) {
	var defects []model.Defect

	for _, vp := range viewports {
		if err := pg.SetViewport(ctx, vp.width, vp.height); err != nil {
			return nil, err
		}
		if err := pg.Navigate(ctx, pageURL); err != nil {
			return nil, err
		}
		if err := pg.Settle(ctx, 300*time.Millisecond); err != nil {
			return nil, err
		}

		var res overflowResult
		if err := pg.Eval(ctx, overflowExpr, &res); err != nil {
			return nil, err
		}

		if res.ScrollWidth > res.ClientWidth {
			defects = append(defects, model.Defect{
				Type:     model.DefectResponsive,
				Severity: vp.severity,
				Title:    "Horizontal overflow at " + vp.name,
				Details: fmt.Sprintf(
					"Page has horizontal overflow at %dpx width. Content width: %dpx, viewport: %dpx.",
					vp.width, res.ScrollWidth, vp.width),
				Page: pageURL,
			})
		}
	}

	return defects, nil
}

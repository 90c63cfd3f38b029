package testers

import (
	"context"
	"time"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// BrokenImageTester implements spec §4.2.3: images that finished
// loading with a natural width of zero are broken.
var BrokenImageTester = Tester{
	Type: model.DefectBrokenImage,
	Run:  runBrokenImageTester,
}

const brokenImageExpr = `Array.from(document.images)
	.filter(img => img.src && !img.src.startsWith('data:') && img.complete && img.naturalWidth === 0)
	.map(img => ({src: img.src, alt: img.alt}))`

type brokenImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

func runBrokenImageTester(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error) {
	if err := pg.Navigate(ctx, pageURL); err != nil {
		return nil, err
	}
	if err := pg.Settle(ctx, 500*time.Millisecond); err != nil {
		return nil, err
	}

	var images []brokenImage
	if err := pg.Eval(ctx, brokenImageExpr, &images); err != nil {
		return nil, err
	}

	defects := make([]model.Defect, 0, len(images))
	for _, img := range images {
		label := img.Alt
		if label == "" {
			label = img.Src
		}
		defects = append(defects, model.Defect{
			Type:     model.DefectBrokenImage,
			Severity: model.SeverityWarning,
			Title:    "Broken image: " + label,
			Details:  "Image failed to load: " + img.Src,
			Page:     pageURL,
		})
	}
	return defects, nil
}

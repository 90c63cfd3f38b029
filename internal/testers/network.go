package testers

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// NetworkErrorTester implements spec §4.2.2: failed or error-status
// sub-resource requests become defects, filtered through the shared
// noise list plus a few additional third-party domains.
var NetworkErrorTester = Tester{
	Type: model.DefectNetworkError,
	Run:  runNetworkErrorTester,
}

func runNetworkErrorTester(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error) {
	if err := pg.EnableNetwork(pg.Context()); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var defects []model.Defect

	pg.OnResponse(func(r browser.ResponseInfo) {
		if r.Status < 400 {
			return
		}
		if r.URL == pageURL || matchesNoise(r.URL, networkNoise) {
			return
		}
		severity := model.SeverityWarning
		kind := "Client error"
		if r.Status >= 500 {
			severity = model.SeverityCritical
			kind = "Server error"
		}
		mu.Lock()
		defer mu.Unlock()
		defects = append(defects, model.Defect{
			Type:     model.DefectNetworkError,
			Severity: severity,
			Title:    fmt.Sprintf("%s %d on %s", kind, r.Status, pathOf(r.URL)),
			Details:  fmt.Sprintf("%s %s returned %d", r.Method, r.URL, r.Status),
			Page:     pageURL,
		})
	})

	pg.OnRequestFailed(func(f browser.RequestFailure) {
		if matchesNoise(f.URL, networkNoise) {
			return
		}
		errText := f.ErrorText
		if errText == "" {
			errText = "unknown error"
		}
		mu.Lock()
		defer mu.Unlock()
		defects = append(defects, model.Defect{
			Type:     model.DefectNetworkError,
			Severity: model.SeverityCritical,
			Title:    "Request failed: " + pathOf(f.URL),
			Details:  fmt.Sprintf("%s %s failed: %s", f.Method, f.URL, errText),
			Page:     pageURL,
		})
	})

	if err := pg.Navigate(ctx, pageURL); err != nil {
		return nil, err
	}
	if err := pg.Settle(ctx, 500*time.Millisecond); err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return defects, nil
}

// pathOf returns rawURL's path component, or the whole string if it
// cannot be parsed.
func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return rawURL
	}
	return u.Path
}

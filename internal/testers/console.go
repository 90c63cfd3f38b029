package testers

import (
	"context"
	"sync"
	"time"

	"github.com/scoutqa/scoutqa/internal/browser"
	"github.com/scoutqa/scoutqa/internal/model"
)

// ConsoleErrorTester implements spec §4.2.1: uncaught exceptions become
// critical defects, console.error calls become warnings, both filtered
// through the shared noise list.
var ConsoleErrorTester = Tester{
	Type: model.DefectConsoleError,
	Run:  runConsoleErrorTester,
}

func runConsoleErrorTester(ctx context.Context, pg *browser.Page, pageURL string) ([]model.Defect, error) {
	var mu sync.Mutex
	var defects []model.Defect

	pg.OnException(func(message, stack string) {
		mu.Lock()
		defer mu.Unlock()
		defects = append(defects, model.Defect{
			Type:     model.DefectConsoleError,
			Severity: model.SeverityCritical,
			Title:    "Uncaught exception: " + firstLine(message),
			Details:  stack,
			Page:     pageURL,
		})
	})

	pg.OnConsole(func(level, text string) {
		if level != "error" {
			return
		}
		if matchesNoise(text, consoleNoise) {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		defects = append(defects, model.Defect{
			Type:     model.DefectConsoleError,
			Severity: model.SeverityWarning,
			Title:    "Console error: " + truncate(text, 100),
			Details:  text,
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

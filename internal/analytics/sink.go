// Package analytics writes the one structured record the core emits per
// completed scan (spec §6's "analytics sink"). The core never reads it
// back; aggregation is an external collaborator's job.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/scoutqa/scoutqa/internal/model"
)

// ScanComplete is the record emitted once per completed scan.
type ScanComplete struct {
	Event          string                   `json:"event"`
	Domain         string                   `json:"domain"`
	PagesScanned   int                      `json:"pagesScanned"`
	TotalBugs      int                      `json:"totalBugs"`
	BugsByType     map[model.DefectType]int `json:"bugsByType"`
	BugsBySeverity map[model.Severity]int   `json:"bugsBySeverity"`
	UsedTemplates  bool                     `json:"usedTemplates"`
	Timestamp      time.Time                `json:"ts"`
}

// Sink records a completed scan. Implementations must tolerate being
// called from the orchestrator's own goroutine and must not block the
// scan's result on slow I/O for longer than necessary.
type Sink interface {
	Record(ctx context.Context, rec ScanComplete) error
}

// FileSink appends one JSON line per scan completion to a file,
// grounded on the teacher's JSONLWriter (internal/output/json.go):
// one json.Marshal plus a trailing newline per item, no buffering
// across calls since scans complete infrequently.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink returns a Sink that appends newline-delimited JSON
// records to path, creating it if necessary.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Record(ctx context.Context, rec ScanComplete) error {
	rec.Event = "scan_complete"

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal analytics record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open analytics sink: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write analytics record: %w", err)
	}
	return nil
}

// NoopSink discards every record. Used when no analytics path is
// configured.
type NoopSink struct{}

func (NoopSink) Record(ctx context.Context, rec ScanComplete) error { return nil }

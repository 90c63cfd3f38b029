package scoutqa

import (
	"errors"

	"github.com/scoutqa/scoutqa/internal/orchestrator"
)

// Sentinel errors returned by Engine methods (spec §6's error channel).
var (
	// ErrInvalidSeedURL is returned when StartScan is given a seed that
	// isn't an absolute http(s) URL.
	ErrInvalidSeedURL = errors.New("scoutqa: invalid seed URL")

	// ErrScanInProgress is returned by StartScan when a scan is already
	// running, enforcing the process-wide single-scan rule (spec §5).
	ErrScanInProgress = errors.New("scoutqa: a scan is already in progress")

	// ErrScanNotFound is returned by SubscribeProgress and GetReport for
	// an unknown scan id.
	ErrScanNotFound = errors.New("scoutqa: scan not found")

	// ErrScanTimeout is returned when a scan exceeds its whole-scan
	// budget (spec §4.4); re-exported from internal/orchestrator so
	// callers can errors.Is against this package alone.
	ErrScanTimeout = orchestrator.ErrScanTimeout
)

package scoutqa

import "github.com/scoutqa/scoutqa/internal/model"

// The domain types are defined once in internal/model and re-exported
// here verbatim as type aliases, so internal packages never need to
// import this façade just to share shapes with it.

type (
	Defect        = model.Defect
	DefectType    = model.DefectType
	Severity      = model.Severity
	PageRecord    = model.PageRecord
	Summary       = model.Summary
	Report        = model.Report
	ProgressEvent = model.ProgressEvent
	Status        = model.Status
)

const (
	DefectConsoleError  = model.DefectConsoleError
	DefectNetworkError  = model.DefectNetworkError
	DefectBrokenLink    = model.DefectBrokenLink
	DefectBrokenImage   = model.DefectBrokenImage
	DefectAccessibility = model.DefectAccessibility
	DefectResponsive    = model.DefectResponsive
)

const (
	SeverityCritical = model.SeverityCritical
	SeverityWarning  = model.SeverityWarning
	SeverityInfo     = model.SeverityInfo
)

const (
	PhaseCrawling = model.PhaseCrawling
	PhaseTesting  = model.PhaseTesting
	PhasePrompts  = model.PhasePrompts
	PhaseReport   = model.PhaseReport
	PhaseComplete = model.PhaseComplete
)

const (
	StatusRunning  = model.StatusRunning
	StatusComplete = model.StatusComplete
	StatusError    = model.StatusError
)

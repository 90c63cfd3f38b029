package report

import (
	"testing"

	"github.com/scoutqa/scoutqa/internal/model"
)

func TestBuild_DedupKeepsEarliestOccurrence(t *testing.T) {
	pages := []model.PageRecord{
		{URL: "https://example.com/a", Defects: []model.Defect{
			{Type: model.DefectBrokenLink, Title: "Broken link: /x", Details: "Returned 404", Page: "https://example.com/a"},
		}},
		{URL: "https://example.com/b", Defects: []model.Defect{
			{Type: model.DefectBrokenLink, Title: "Broken link: /x", Details: "Returned 404", Page: "https://example.com/b"},
		}},
	}

	r := Build("https://example.com", pages)

	if len(r.Pages[0].Defects) != 1 {
		t.Fatalf("page a should keep its defect, got %d", len(r.Pages[0].Defects))
	}
	if len(r.Pages[1].Defects) != 0 {
		t.Fatalf("page b's duplicate should be dropped, got %d", len(r.Pages[1].Defects))
	}
	if r.Summary.TotalDefects != 1 {
		t.Errorf("TotalDefects = %d, want 1", r.Summary.TotalDefects)
	}
}

func TestBuild_AssignsIDs(t *testing.T) {
	pages := []model.PageRecord{
		{URL: "https://example.com/a", Defects: []model.Defect{
			{Type: model.DefectConsoleError, Title: "t1", Details: "d1", Page: "https://example.com/a"},
		}},
	}
	r := Build("https://example.com", pages)
	if r.Pages[0].Defects[0].ID == "" {
		t.Error("expected a non-empty ID")
	}
}

func TestBuild_SortsBySeverity(t *testing.T) {
	pages := []model.PageRecord{
		{URL: "https://example.com/a", Defects: []model.Defect{
			{Type: model.DefectConsoleError, Severity: model.SeverityInfo, Title: "info-one", Details: "d1", Page: "https://example.com/a"},
			{Type: model.DefectConsoleError, Severity: model.SeverityCritical, Title: "critical-one", Details: "d2", Page: "https://example.com/a"},
			{Type: model.DefectConsoleError, Severity: model.SeverityWarning, Title: "warning-one", Details: "d3", Page: "https://example.com/a"},
		}},
	}
	r := Build("https://example.com", pages)
	got := []model.Severity{
		r.Pages[0].Defects[0].Severity,
		r.Pages[0].Defects[1].Severity,
		r.Pages[0].Defects[2].Severity,
	}
	want := []model.Severity{model.SeverityCritical, model.SeverityWarning, model.SeverityInfo}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, got, want)
		}
	}
}

func TestBuild_SummaryIncludesAllTypesAndSeverities(t *testing.T) {
	r := Build("https://example.com", nil)
	for _, st := range model.DefectTypes {
		if _, ok := r.Summary.ByType[st]; !ok {
			t.Errorf("ByType missing key %v", st)
		}
	}
	for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityWarning, model.SeverityInfo} {
		if _, ok := r.Summary.BySeverity[sev]; !ok {
			t.Errorf("BySeverity missing key %v", sev)
		}
	}
}

func TestBuild_PagesFoundIsPreDedupCount(t *testing.T) {
	pages := []model.PageRecord{
		{URL: "https://example.com/a"},
		{URL: "https://example.com/b"},
	}
	r := Build("https://example.com", pages)
	if r.PagesFound != 2 {
		t.Errorf("PagesFound = %d, want 2", r.PagesFound)
	}
}

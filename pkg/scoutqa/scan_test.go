package scoutqa

import (
	"errors"
	"testing"

	"github.com/scoutqa/scoutqa/internal/model"
)

func TestScan_CompleteTransitionsOnce(t *testing.T) {
	s := newScan("id-1", "https://example.com")
	if err := s.complete(model.Report{SeedURL: "https://example.com"}); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if err := s.complete(model.Report{}); err == nil {
		t.Error("expected error on second transition")
	}

	status, report, _ := s.snapshot()
	if status != model.StatusComplete {
		t.Errorf("status = %v, want complete", status)
	}
	if report == nil || report.SeedURL != "https://example.com" {
		t.Errorf("report = %+v", report)
	}
}

func TestScan_FailTransitionsOnce(t *testing.T) {
	s := newScan("id-2", "https://example.com")
	if err := s.fail(errors.New("boom")); err != nil {
		t.Fatalf("first fail: %v", err)
	}
	status, _, errMsg := s.snapshot()
	if status != model.StatusError {
		t.Errorf("status = %v, want error", status)
	}
	if errMsg != "boom" {
		t.Errorf("errMsg = %q", errMsg)
	}

	if err := s.fail(errors.New("again")); err == nil {
		t.Error("expected error transitioning an already-failed scan")
	}
}

func TestRegistry_HasRunning(t *testing.T) {
	r := newRegistry()
	if r.hasRunning() {
		t.Fatal("empty registry should report no running scan")
	}

	s := newScan("id-3", "https://example.com")
	r.add(s)
	if !r.hasRunning() {
		t.Error("expected a running scan")
	}

	_ = s.complete(model.Report{})
	if r.hasRunning() {
		t.Error("expected no running scan after completion")
	}
}

func TestRegistry_GetUnknownID(t *testing.T) {
	r := newRegistry()
	if _, ok := r.get("nope"); ok {
		t.Error("expected not found")
	}
}

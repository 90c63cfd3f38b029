package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/scoutqa/scoutqa/internal/model"
)

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	rep := model.Report{SeedURL: "https://example.com"}
	if err := Write(&buf, rep, FormatJSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `"seedUrl": "https://example.com"`) {
		t.Errorf("output = %s", buf.String())
	}
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	rep := model.Report{SeedURL: "https://example.com"}
	if err := Write(&buf, rep, FormatYAML); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "seedUrl: https://example.com") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, model.Report{}, Format("xml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

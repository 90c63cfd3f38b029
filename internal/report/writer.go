package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/scoutqa/scoutqa/internal/model"
)

// Format is a report serialization format, grounded on the teacher's
// output.Format (internal/output/writer.go's Format + NewWriter
// switch), trimmed to the two encodings a report actually needs.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Write serializes rep as Format to w. JSON is pretty-printed to match
// the report's role as a human-inspectable artifact, not a wire
// payload (the HTTP collaborator re-serializes for transport).
func Write(w io.Writer, rep model.Report, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rep)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

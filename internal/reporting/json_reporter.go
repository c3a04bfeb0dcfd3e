// File: internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// json renders reports with sorted map keys so identical reports always
// serialize identically.
var json = jsoniter.Config{EscapeHTML: false, SortMapKeys: true, IndentionStep: 2}.Froze()

// JSONReporter writes each report as an indented JSON document.
type JSONReporter struct {
	writer io.WriteCloser
}

// NewJSONReporter creates a JSON reporter. It takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser) *JSONReporter {
	return &JSONReporter{writer: writer}
}

// Write implements Reporter.
func (r *JSONReporter) Write(report any) error {
	if report == nil {
		return fmt.Errorf("nil report")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if _, err := r.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Close implements Reporter.
func (r *JSONReporter) Close() error {
	return r.writer.Close()
}

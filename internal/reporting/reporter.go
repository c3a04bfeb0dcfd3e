// File: internal/reporting/reporter.go

// Package reporting renders engine reports to an output stream in a chosen
// format. The CLI feeds it verification, audit, reputation, and scan
// reports; every format must tolerate any of the four.
package reporting

import (
	"fmt"
	"io"
	"os"
)

// Reporter writes assessment reports to an output.
type Reporter interface {
	// Write renders a single report. Supported values are
	// *schemas.VerificationResult, *schemas.AuditReport,
	// *schemas.ReputationReport, and *schemas.ScanReport.
	Write(report any) error
	// Close finalizes the report and closes any underlying resources (e.g., file handles).
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// Option configures the reporters New builds.
type Option func(*options)

type options struct {
	topRanked int
}

// WithTopRanked sets how many top-scoring identities the text format lists
// for a scan report. The JSON format always carries the full summary list.
func WithTopRanked(n int) Option {
	return func(o *options) { o.topRanked = n }
}

// New creates a new reporter based on the specified format and output path.
// An empty path or "stdout" writes to standard output.
func New(format, outputPath string, opts ...Option) (Reporter, error) {
	o := options{topRanked: 10}
	for _, opt := range opts {
		opt(&o)
	}

	var writer io.WriteCloser // Use interface type
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		// Wrap Stdout so Close() is a no-op.
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "json":
		// NewJSONReporter takes ownership of the writer.
		return NewJSONReporter(writer), nil
	case "text":
		return NewTextReporter(writer, o.topRanked), nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

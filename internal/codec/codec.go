// Package codec reads and writes extraction reports in exchange formats.
package codec

import (
	"fmt"
	"io"
	"sort"

	"adaptkit/internal/domain"
)

// Importer interface for reading reports back from an exchange format
type Importer interface {
	Parse(r io.Reader) (*domain.Report, error)
	Format() string
}

// Exporter interface for writing reports to an exchange format
type Exporter interface {
	Export(report *domain.Report, w io.Writer) error
	Format() string
}

// Exporters returns every exporter keyed by format
func Exporters() map[string]Exporter {
	out := make(map[string]Exporter)
	for _, e := range []Exporter{NewJSONCodec(), NewYAMLCodec(), NewTextCodec()} {
		out[e.Format()] = e
	}
	return out
}

// Formats lists the supported export formats in sorted order
func Formats() []string {
	exporters := Exporters()
	formats := make([]string, 0, len(exporters))
	for f := range exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// ExporterFor returns the exporter for format
func ExporterFor(format string) (Exporter, error) {
	if e, ok := Exporters()[format]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unsupported format %q (supported: %v)", format, Formats())
}

package codec

import (
	"fmt"
	"io"
	"text/tabwriter"

	"adaptkit/internal/domain"
)

// TextCodec renders reports as aligned columns for terminals
type TextCodec struct{}

// NewTextCodec creates a new text codec
func NewTextCodec() *TextCodec {
	return &TextCodec{}
}

// Format returns the codec format identifier
func (c *TextCodec) Format() string {
	return "text"
}

// Export writes a header line, then one block per unit
func (c *TextCodec) Export(report *domain.Report, w io.Writer) error {
	status := "complete"
	if report.Canceled {
		status = "canceled"
	}
	if _, err := fmt.Fprintf(w, "model %s: %d units, %d elements (%s)\n",
		report.Model, len(report.Units), report.ElementCount(), status); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, u := range report.Units {
		fmt.Fprintf(tw, "\n[%s]\n", u.Variant)
		for _, el := range u.Elements {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", el.Adapter, el.Type, el.Value)
		}
	}
	return tw.Flush()
}

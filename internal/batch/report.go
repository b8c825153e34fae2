package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/surface.report/internal/fsutil"
)

// ReportFile is the default name of the JSON run report.
const ReportFile = "batch_report.json"

// WriteJSON encodes the report with two-space indentation.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// ExportJSON writes the report to path through fs.
func ExportJSON(fs fsutil.FileSystem, r *Report, path string) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	return f.Close()
}

// Print writes a short per-pair summary for the operator.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "\n=== Batch %s ===\n", r.RunID)
	fmt.Fprintf(w, "Directory: %s\n", r.Dir)
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusOK:
			fmt.Fprintf(w, "  %-24s ok       %d points (%d front, %d back) -> %s\n",
				o.Base, o.Points, o.FrontPoints, o.BackPoints, o.Output)
		default:
			fmt.Fprintf(w, "  %-24s %-8s %s\n", o.Base, o.Status, o.Reason)
		}
	}
	fmt.Fprintf(w, "Converted: %d  Skipped: %d  Failed: %d\n", r.Converted, r.Skipped, r.Failed)
}

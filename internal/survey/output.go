package survey

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/reliability"
	"github.com/banshee-data/surface.report/internal/roughness"
	"github.com/banshee-data/surface.report/internal/units"
)

// ResultFile is the default name of the statistics file in a survey directory.
const ResultFile = "resultado.csv"

// StatsHeader is the column header of the statistics file, which is also
// the input format of the reliability ranking.
func StatsHeader() []string {
	h := []string{reliability.SampleColumn}
	for i, name := range roughness.StatNames {
		if i < 3 {
			h = append(h, units.Label(name, units.Micrometre))
		} else {
			h = append(h, name)
		}
	}
	return h
}

func format4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// WriteStatsCSV writes one comma-separated row per sample with four decimals.
func WriteStatsCSV(w io.Writer, stats []roughness.Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StatsHeader()); err != nil {
		return err
	}
	for _, s := range stats {
		row := []string{s.Source}
		for _, v := range s.Values() {
			row = append(row, format4(v))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable prints the statistics as an aligned table.
func WriteTable(w io.Writer, stats []roughness.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, h := range StatsHeader() {
		fmt.Fprintf(tw, "%s\t", h)
	}
	fmt.Fprintln(tw, "Points\t")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t", s.Source)
		for _, v := range s.Values() {
			fmt.Fprintf(tw, "%s\t", format4(v))
		}
		fmt.Fprintf(tw, "%d\t\n", s.Points)
	}
	return tw.Flush()
}

// ExportStatsCSV writes the statistics file to path through fs.
func ExportStatsCSV(fs fsutil.FileSystem, path string, stats []roughness.Stats) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := WriteStatsCSV(f, stats); err != nil {
		f.Close()
		return fmt.Errorf("write statistics: %w", err)
	}
	return f.Close()
}

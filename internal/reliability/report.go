package reliability

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/banshee-data/surface.report/internal/roughness"
)

// Column headers shared by the text, CSV and workbook outputs.
func scoreHeader() []string {
	h := []string{"Protocol"}
	for _, name := range roughness.StatNames {
		h = append(h, "Instability "+name+" (%)")
	}
	return append(h, "Overall Instability (%)", "Measurements")
}

func formatPercent(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// WriteText prints the ranking as an aligned table with two decimals.
func WriteText(w io.Writer, r Ranking) error {
	fmt.Fprintf(w, "Protocol reliability ranking (%d distinct samples)\n", r.Samples)
	fmt.Fprintln(w, "Lower instability means a more reliable protocol.")
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := scoreHeader()
	for _, h := range header[:len(header)-1] {
		fmt.Fprintf(tw, "%s\t", h)
	}
	fmt.Fprintln(tw)
	for _, s := range r.Scores {
		fmt.Fprintf(tw, "%s\t", s.Protocol)
		for _, v := range s.Instability {
			fmt.Fprintf(tw, "%s\t", formatPercent(v, 2))
		}
		fmt.Fprintf(tw, "%s\t\n", formatPercent(s.Overall, 2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if best, ok := r.Best(); ok {
		_, err := fmt.Fprintf(w, "\nMost reliable protocol: %s\n", best.Protocol)
		return err
	}
	return nil
}

// WriteCSV writes the ranking as comma-separated rows in rank order.
func WriteCSV(w io.Writer, r Ranking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scoreHeader()); err != nil {
		return err
	}
	for _, s := range r.Scores {
		row := []string{s.Protocol}
		for _, v := range s.Instability {
			row = append(row, formatPercent(v, 4))
		}
		row = append(row, formatPercent(s.Overall, 4), strconv.Itoa(s.Measurements))
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const (
	rankingSheet   = "Ranking"
	deviationSheet = "Deviations"
)

// cellValue leaves NaN cells empty so the workbook stays numeric.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// WriteXLSX writes a workbook with a ranking sheet and a per-measurement
// deviation sheet.
func WriteXLSX(w io.Writer, r Ranking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rankingSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	header := scoreHeader()
	if err := writeRow(f, rankingSheet, 1, toRow(header)); err != nil {
		return err
	}
	for i, s := range r.Scores {
		row := []interface{}{s.Protocol}
		for _, v := range s.Instability {
			row = append(row, cellValue(v))
		}
		row = append(row, cellValue(s.Overall), s.Measurements)
		if err := writeRow(f, rankingSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(rankingSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(rankingSheet, "A", "H", 22); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.NewSheet(deviationSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	devHeader := []string{SampleColumn, "Sample", "Protocol"}
	for _, name := range roughness.StatNames {
		devHeader = append(devHeader, name, name+" consensus", name+" deviation (%)")
	}
	if err := writeRow(f, deviationSheet, 1, toRow(devHeader)); err != nil {
		return err
	}
	for i, d := range r.Deviations {
		m := d.Measurement
		row := []interface{}{m.SampleID, m.Sample, m.Protocol}
		for k := range m.Values {
			row = append(row, cellValue(m.Values[k]), cellValue(d.Consensus[k]), cellValue(d.Percent[k]))
		}
		if err := writeRow(f, deviationSheet, i+2, row); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(deviationSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(deviationSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, addr, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// Package testutil provides shared test fixtures: synthetic LabVIEW scan
// files and the sweeps that fill them.
package testutil

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/banshee-data/surface.report/internal/fsutil"
)

// Row is one (y, z) sample of a synthetic scan.
type Row struct {
	Y, Z float64
}

// LVMOptions controls how a synthetic scan file is rendered.
type LVMOptions struct {
	DecimalSeparator string // "." when empty
	Date             string
	Time             string
	// Extra lines appended verbatim after the data rows.
	Trailer []string
}

// LVM renders rows as a two-section LabVIEW measurement file.
func LVM(rows []Row) []byte {
	return LVMWith(LVMOptions{}, rows)
}

// LVMWith renders rows with explicit options.
func LVMWith(opts LVMOptions, rows []Row) []byte {
	sep := opts.DecimalSeparator
	if sep == "" {
		sep = "."
	}
	date := opts.Date
	if date == "" {
		date = "2024/03/12"
	}
	clock := opts.Time
	if clock == "" {
		clock = "10:15:02.5"
	}

	var b strings.Builder
	header := []string{
		"LabVIEW Measurement\t",
		"Writer_Version\t2",
		"Reader_Version\t2",
		"Separator\tTab",
		"Decimal_Separator\t" + sep,
		"Multi_Headings\tNo",
		"X_Columns\tOne",
		"Time_Pref\tAbsolute",
		"Operator\tlab",
		"Date\t" + date,
		"Time\t" + clock,
		"***End_of_Header***\t",
		"\t",
		"Channels\t2\t",
		fmt.Sprintf("Samples\t%d\t%d\t", len(rows), len(rows)),
		"Date\t" + date + "\t" + date + "\t",
		"Y_Unit_Label\tmm\tum\t",
		"X_Dimension\tTime\tTime\t",
		"***End_of_Header***\t\t\t",
		"X_Value\tY\tZ\tComment",
	}
	for _, line := range header {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	for i, r := range rows {
		fields := []string{
			formatNumber(float64(i), sep),
			formatNumber(r.Y, sep),
			formatNumber(r.Z, sep),
		}
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteString("\r\n")
	}
	for _, line := range opts.Trailer {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return []byte(b.String())
}

func formatNumber(v float64, sep string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if sep != "." {
		s = strings.Replace(s, ".", sep, 1)
	}
	return s
}

// IncreasingSweep returns profiles*samples rows where y climbs from 0 in
// steps of dy within each profile and resets at every new profile.
func IncreasingSweep(profiles, samples int, dy float64, z func(profile, sample int) float64) []Row {
	rows := make([]Row, 0, profiles*samples)
	for p := 0; p < profiles; p++ {
		for i := 0; i < samples; i++ {
			rows = append(rows, Row{Y: float64(i) * dy, Z: z(p, i)})
		}
	}
	return rows
}

// DecreasingSweep mirrors IncreasingSweep with y falling within each profile.
func DecreasingSweep(profiles, samples int, dy float64, z func(profile, sample int) float64) []Row {
	rows := make([]Row, 0, profiles*samples)
	for p := 0; p < profiles; p++ {
		for i := 0; i < samples; i++ {
			rows = append(rows, Row{Y: float64(samples-1-i) * dy, Z: z(p, i)})
		}
	}
	return rows
}

// Flat is a z generator returning a constant height.
func Flat(h float64) func(int, int) float64 {
	return func(int, int) float64 { return h }
}

// WriteLVM stores a synthetic scan in fs, failing the test on error.
func WriteLVM(t testing.TB, fs fsutil.FileSystem, path string, rows []Row) {
	t.Helper()
	if err := fs.WriteFile(path, LVM(rows), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

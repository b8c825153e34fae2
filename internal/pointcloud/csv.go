package pointcloud

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/surface.report/internal/fsutil"
)

// Delimiter separates fields in point cloud files.
const Delimiter = ';'

// Header is the column header written by WriteCSV.
var Header = []string{"x", "y", "z"}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes the cloud as "x;y;z" rows in the order given.
func WriteCSV(w io.Writer, c Cloud) error {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, 3)
	for _, p := range c {
		row[0], row[1], row[2] = formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a semicolon-delimited point cloud. Columns are located by
// their x, y and z header names; rows that cannot be parsed are dropped.
func ReadCSV(r io.Reader) (Cloud, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty point cloud file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{"x": -1, "y": -1, "z": -1}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if j, ok := idx[key]; ok && j < 0 {
			idx[key] = i
		}
	}
	for _, col := range Header {
		if idx[col] < 0 {
			return nil, fmt.Errorf("missing column %q in header %v", col, header)
		}
	}

	var c Cloud
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read row: %w", err)
		}
		p, ok := parsePoint(rec, idx["x"], idx["y"], idx["z"])
		if !ok {
			continue
		}
		c = append(c, p)
	}
	return c, nil
}

func parsePoint(rec []string, ix, iy, iz int) (Point, bool) {
	var vals [3]float64
	for k, i := range [3]int{ix, iy, iz} {
		if i >= len(rec) {
			return Point{}, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return Point{}, false
		}
		vals[k] = v
	}
	return Point{X: vals[0], Y: vals[1], Z: vals[2]}, true
}

// WriteCSVFile writes the cloud to path through fs.
func WriteCSVFile(fs fsutil.FileSystem, path string, c Cloud) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, c); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// ReadCSVFile reads a point cloud file through fs.
func ReadCSVFile(fs fsutil.FileSystem, path string) (Cloud, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c, nil
}

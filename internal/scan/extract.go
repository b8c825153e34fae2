// Package scan reads LabVIEW measurement (.lvm) scan files and turns their
// (y, z) records into profile-tagged surface points.
package scan

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/pointcloud"
)

// ErrNoData is returned when the header is found but no record parses.
var ErrNoData = errors.New("scan contains no valid records")

// Record is one data row of a scan file.
type Record struct {
	Y, Z float64
}

// Options controls decoding and profile detection.
type Options struct {
	Encodings    []string
	HeaderMarker string
	MinBreakJump float64
}

// DefaultOptions returns the standard encoding order and header marker.
func DefaultOptions() Options {
	return Options{
		Encodings:    config.DefaultEncodings(),
		HeaderMarker: config.DefaultHeaderMarker,
	}
}

// OptionsFromConfig builds Options from a loaded configuration. An encoding
// name the decoder does not know is an error.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	encodings := cfg.GetEncodings()
	for _, name := range encodings {
		if !KnownEncoding(name) {
			return Options{}, fmt.Errorf("unknown encoding %q in config (want latin-1, utf-8 or cp1252)", name)
		}
	}
	return Options{
		Encodings:    encodings,
		HeaderMarker: cfg.GetHeaderMarker(),
		MinBreakJump: cfg.GetMinBreakJump(),
	}, nil
}

func (o Options) withDefaults() Options {
	if len(o.Encodings) == 0 {
		o.Encodings = config.DefaultEncodings()
	}
	if o.HeaderMarker == "" {
		o.HeaderMarker = config.DefaultHeaderMarker
	}
	return o
}

// Result is the outcome of extracting one scan file.
type Result struct {
	Points   []pointcloud.Point
	Header   Header
	Encoding string
	Profiles int
	// Dropped counts data lines that were not valid records.
	Dropped int
}

// Records parses the data lines. Lines with fewer than three fields or a
// non-numeric y or z are skipped and counted.
func (d *Document) Records() (records []Record, dropped int) {
	comma := d.Header.DecimalSeparator == ","
	for _, line := range d.Lines {
		rec, ok := parseRecord(line, comma)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

func parseRecord(line string, decimalComma bool) (Record, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 3 {
		return Record{}, false
	}
	y, ok := parseNumber(fields[1], decimalComma)
	if !ok {
		return Record{}, false
	}
	z, ok := parseNumber(fields[2], decimalComma)
	if !ok {
		return Record{}, false
	}
	return Record{Y: y, Z: z}, true
}

func parseNumber(s string, decimalComma bool) (float64, bool) {
	s = strings.TrimSpace(s)
	if decimalComma {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Extract reads a whole scan from r and assigns profile x coordinates.
func Extract(r io.Reader, p ProfileParams, opts Options) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scan: %w", err)
	}
	return ExtractBytes(data, p, opts)
}

// ExtractBytes is Extract over an in-memory file.
func ExtractBytes(data []byte, p ProfileParams, opts Options) (*Result, error) {
	doc, err := Decode(data, opts)
	if err != nil {
		return nil, err
	}

	records, dropped := doc.Records()
	if len(records) == 0 {
		return nil, fmt.Errorf("%w (%d lines dropped)", ErrNoData, dropped)
	}

	tracker := NewProfileTracker(p, opts.MinBreakJump)
	points := make([]pointcloud.Point, len(records))
	for i, rec := range records {
		x, _ := tracker.Next(rec.Y)
		points[i] = pointcloud.Point{X: x, Y: rec.Y, Z: rec.Z}
	}

	return &Result{
		Points:   points,
		Header:   doc.Header,
		Encoding: doc.Encoding,
		Profiles: tracker.Profiles(),
		Dropped:  dropped,
	}, nil
}

// ExtractFile reads path through fs. A missing file yields an error
// wrapping fs.ErrNotExist.
func ExtractFile(fs fsutil.FileSystem, path string, p ProfileParams, opts Options) (*Result, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scan: %w", err)
	}
	res, err := ExtractBytes(data, p, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

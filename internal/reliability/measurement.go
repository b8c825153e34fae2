// Package reliability ranks measurement protocols by how far their results
// stray from the per-sample consensus (median) across all protocols.
package reliability

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/surface.report/internal/roughness"
	"github.com/banshee-data/surface.report/internal/units"
)

// ErrBadSampleID is returned for identifiers that do not follow
// <sample>_<velocity>_<step>.
var ErrBadSampleID = errors.New("malformed sample identifier")

// SampleColumn is the header of the identifier column.
const SampleColumn = "Amostra"

// Measurement is one row of the aggregated statistics file.
type Measurement struct {
	SampleID string
	Sample   string
	Protocol string
	// Values holds Sa, Sq, Sz, Ssk and Sku; NaN marks a missing value.
	Values [5]float64
}

// ParseSampleID splits an identifier into the sample base name and the
// protocol V<velocity>_P<step>. The last two underscore-separated tokens
// are the protocol; everything before them is the sample.
func ParseSampleID(id string) (sample, protocol string, err error) {
	tokens := strings.Split(strings.TrimSpace(id), "_")
	n := len(tokens)
	if n < 3 {
		return "", "", fmt.Errorf("%w: %q has %d parts, need at least 3", ErrBadSampleID, id, n)
	}
	sample = strings.Join(tokens[:n-2], "_")
	velocity, step := tokens[n-2], tokens[n-1]
	if sample == "" || velocity == "" || step == "" {
		return "", "", fmt.Errorf("%w: %q has an empty part", ErrBadSampleID, id)
	}
	return sample, "V" + velocity + "_P" + step, nil
}

// lengthStats is the number of leading statistics (Sa, Sq, Sz) that carry a
// length unit.
const lengthStats = 3

// ReadMeasurements parses a comma-delimited statistics file. Sa, Sq and Sz
// are converted to micrometres from the unit in their header ("Sz (nm)");
// a header without a unit is taken as micrometres and an unknown unit is an
// error. Rows with a malformed identifier are skipped and reported in
// rowErrs; non-numeric statistics become NaN.
func ReadMeasurements(r io.Reader) (ms []Measurement, rowErrs []error, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty measurements file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	idCol := -1
	statCols := [5]int{-1, -1, -1, -1, -1}
	var statUnits [lengthStats]string
	for i, h := range header {
		name, unit := units.StripSuffix(h)
		if strings.EqualFold(name, SampleColumn) || strings.EqualFold(name, "Sample") {
			if idCol < 0 {
				idCol = i
			}
			continue
		}
		for k, stat := range roughness.StatNames {
			if !strings.EqualFold(name, stat) || statCols[k] >= 0 {
				continue
			}
			statCols[k] = i
			if k < lengthStats && unit != "" {
				if !units.IsValid(unit) {
					return nil, nil, fmt.Errorf("column %q: unknown unit %q (valid: %s)", h, unit, units.GetValidUnitsString())
				}
				statUnits[k] = unit
			}
		}
	}
	if idCol < 0 {
		return nil, nil, fmt.Errorf("missing column %q", SampleColumn)
	}
	for k, c := range statCols {
		if c < 0 {
			return nil, nil, fmt.Errorf("missing column %q", roughness.StatNames[k])
		}
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowErrs = append(rowErrs, fmt.Errorf("line %d: %w", perr.Line, err))
				continue
			}
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		id := cell(rec, idCol)
		sample, protocol, err := ParseSampleID(id)
		if err != nil {
			line, _ := cr.FieldPos(0)
			rowErrs = append(rowErrs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		m := Measurement{SampleID: strings.TrimSpace(id), Sample: sample, Protocol: protocol}
		for k, c := range statCols {
			v := parseValue(cell(rec, c))
			if k < lengthStats && statUnits[k] != "" && statUnits[k] != units.Micrometre {
				v = units.ConvertLength(v, statUnits[k], units.Micrometre)
			}
			m.Values[k] = v
		}
		ms = append(ms, m)
	}
	return ms, rowErrs, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseValue(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

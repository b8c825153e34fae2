// Package roughness computes areal surface-texture parameters of a point
// cloud after removing its least-squares plane.
package roughness

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/surface.report/internal/pointcloud"
)

// DegenerateTolerance scales the variance threshold below which residuals
// are treated as exactly zero.
const DegenerateTolerance = 1e-10

// StatNames lists the statistics in the order returned by Stats.Values.
var StatNames = [5]string{"Sa", "Sq", "Sz", "Ssk", "Sku"}

// Stats holds the roughness parameters of one surface. Sa, Sq and Sz are in
// the length unit of z; Ssk and Sku are dimensionless.
type Stats struct {
	Source string
	Sa     float64 // arithmetic mean height
	Sq     float64 // root mean square height
	Sz     float64 // maximum peak-to-valley height
	Ssk    float64 // skewness
	Sku    float64 // kurtosis (normal = 3)
	Points int
}

// Values returns Sa, Sq, Sz, Ssk and Sku in StatNames order.
func (s Stats) Values() [5]float64 {
	return [5]float64{s.Sa, s.Sq, s.Sz, s.Ssk, s.Sku}
}

// Compute detrends the cloud and evaluates its roughness statistics.
// An empty cloud returns ErrInsufficientData. A surface whose residual RMS
// is negligible relative to its heights reports all statistics as zero.
func Compute(source string, c pointcloud.Cloud) (Stats, error) {
	if len(c) == 0 {
		return Stats{}, fmt.Errorf("%s: %w", source, ErrInsufficientData)
	}

	plane, err := FitPlane(c)
	if err != nil {
		return Stats{}, fmt.Errorf("%s: %w", source, err)
	}
	r := Residuals(c, plane)
	s := FromResiduals(r)
	s.Source = source
	if s.Sq <= DegenerateTolerance*math.Max(1, maxAbsZ(c)) {
		return Stats{Source: source, Points: len(c)}, nil
	}
	return s, nil
}

// FromResiduals evaluates the statistics of already detrended heights.
func FromResiduals(r []float64) Stats {
	s := Stats{Points: len(r)}
	if len(r) == 0 {
		return s
	}

	abs := make([]float64, len(r))
	sq := make([]float64, len(r))
	for i, v := range r {
		abs[i] = math.Abs(v)
		sq[i] = v * v
	}
	s.Sa = stat.Mean(abs, nil)
	s.Sq = math.Sqrt(stat.Mean(sq, nil))
	s.Sz = floats.Max(r) - floats.Min(r)

	mean := stat.Mean(r, nil)
	m2 := stat.MomentAbout(2, r, mean, nil)
	if m2 == 0 {
		return s
	}
	s.Ssk = stat.MomentAbout(3, r, mean, nil) / math.Pow(m2, 1.5)
	s.Sku = stat.MomentAbout(4, r, mean, nil) / (m2 * m2)
	return s
}

func maxAbsZ(c pointcloud.Cloud) float64 {
	var m float64
	for _, p := range c {
		m = math.Max(m, math.Abs(p.Z))
	}
	return m
}

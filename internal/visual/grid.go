// Package visual renders point clouds and roughness results as PNG charts
// (gonum/plot) and interactive 3D HTML pages (go-echarts).
package visual

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/surface.report/internal/pointcloud"
)

// Grid is a regular surface resampled from a point cloud. Cells outside the
// area covered by the scan are NaN. It implements plotter.GridXYZ.
type Grid struct {
	Xs, Ys []float64
	// Values is row-major: Values[r*len(Xs)+c].
	Values   []float64
	min, max float64
}

// Dims returns the number of columns and rows.
func (g *Grid) Dims() (c, r int) { return len(g.Xs), len(g.Ys) }

// Z returns the height at column c, row r.
func (g *Grid) Z(c, r int) float64 { return g.Values[r*len(g.Xs)+c] }

// X returns the x of column c.
func (g *Grid) X(c int) float64 { return g.Xs[c] }

// Y returns the y of row r.
func (g *Grid) Y(r int) float64 { return g.Ys[r] }

// Min returns the smallest defined height.
func (g *Grid) Min() float64 { return g.min }

// Max returns the largest defined height.
func (g *Grid) Max() float64 { return g.max }

// Defined counts the non-NaN cells.
func (g *Grid) Defined() int {
	n := 0
	for _, v := range g.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// profileSampler interpolates heights along one profile.
type profileSampler struct {
	ys, zs []float64
}

func newProfileSampler(p pointcloud.Profile) profileSampler {
	s := profileSampler{ys: make([]float64, 0, len(p.Points)), zs: make([]float64, 0, len(p.Points))}
	for _, pt := range p.Points {
		// Repeated y keeps the first sample.
		if n := len(s.ys); n > 0 && s.ys[n-1] == pt.Y {
			continue
		}
		s.ys = append(s.ys, pt.Y)
		s.zs = append(s.zs, pt.Z)
	}
	return s
}

func (s profileSampler) at(y float64) float64 {
	k := sort.SearchFloat64s(s.ys, y)
	switch {
	case k < len(s.ys) && s.ys[k] == y:
		return s.zs[k]
	case k == 0 || k == len(s.ys):
		return math.NaN()
	}
	t := (y - s.ys[k-1]) / (s.ys[k] - s.ys[k-1])
	return s.zs[k-1] + t*(s.zs[k]-s.zs[k-1])
}

// Interpolate resamples the cloud onto an nx by ny grid spanning its x and
// y extent. Heights are interpolated linearly along each profile and then
// linearly between neighbouring profiles.
func Interpolate(c pointcloud.Cloud, nx, ny int) (*Grid, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("grid must be at least 2x2, got %dx%d", nx, ny)
	}
	profiles := c.Profiles()
	if len(profiles) < 2 {
		return nil, fmt.Errorf("need at least 2 profiles to interpolate, got %d", len(profiles))
	}
	b := c.Bounds()
	if b.Height() == 0 {
		return nil, fmt.Errorf("profiles have no extent along y")
	}

	g := &Grid{
		Xs:     linspace(b.MinX, b.MaxX, nx),
		Ys:     linspace(b.MinY, b.MaxY, ny),
		Values: make([]float64, nx*ny),
		min:    math.Inf(1),
		max:    math.Inf(-1),
	}

	px := make([]float64, len(profiles))
	samplers := make([]profileSampler, len(profiles))
	for i, p := range profiles {
		px[i] = p.X
		samplers[i] = newProfileSampler(p)
	}

	along := make([]float64, len(profiles))
	for r, y := range g.Ys {
		for i, s := range samplers {
			along[i] = s.at(y)
		}
		for col, x := range g.Xs {
			v := between(px, along, x)
			g.Values[r*nx+col] = v
			if !math.IsNaN(v) {
				g.min = math.Min(g.min, v)
				g.max = math.Max(g.max, v)
			}
		}
	}
	if math.IsInf(g.min, 1) {
		g.min, g.max = 0, 0
	}
	return g, nil
}

// between interpolates across profiles positioned at px with heights vs.
func between(px, vs []float64, x float64) float64 {
	k := sort.SearchFloat64s(px, x)
	switch {
	case k < len(px) && px[k] == x:
		return vs[k]
	case k == 0 || k == len(px):
		return math.NaN()
	}
	t := (x - px[k-1]) / (px[k] - px[k-1])
	return vs[k-1] + t*(vs[k]-vs[k-1])
}

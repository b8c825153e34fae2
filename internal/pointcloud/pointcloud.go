// Package pointcloud holds the stitched (x, y, z) surface samples produced
// from scan files, together with the semicolon-delimited CSV codec used to
// persist them.
package pointcloud

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Point is a single surface sample. X identifies the profile, Y is the
// position along it and Z is the measured height.
type Point struct {
	X, Y, Z float64
}

// Cloud is an ordered set of points.
type Cloud []Point

// Profile is a maximal run of points sharing the same X, ordered by Y.
type Profile struct {
	X      float64
	Points []Point
}

// Bounds is the axis-aligned extent of a cloud.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// Width returns MaxX - MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

func comparePoints(a, b Point) int {
	if n := cmp.Compare(a.X, b.X); n != 0 {
		return n
	}
	return cmp.Compare(a.Y, b.Y)
}

// Sort orders the cloud by (x, y) ascending. Points with equal (x, y) keep
// their relative order.
func (c Cloud) Sort() {
	slices.SortStableFunc(c, comparePoints)
}

// Stitch concatenates the front and back sweeps and sorts the result.
func Stitch(front, back []Point) Cloud {
	c := make(Cloud, 0, len(front)+len(back))
	c = append(c, front...)
	c = append(c, back...)
	c.Sort()
	return c
}

// Columns splits the cloud into its coordinate slices.
func (c Cloud) Columns() (xs, ys, zs []float64) {
	xs = make([]float64, len(c))
	ys = make([]float64, len(c))
	zs = make([]float64, len(c))
	for i, p := range c {
		xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
	}
	return xs, ys, zs
}

// Bounds returns the extent of the cloud. An empty cloud has zero bounds.
func (c Cloud) Bounds() Bounds {
	if len(c) == 0 {
		return Bounds{}
	}
	xs, ys, zs := c.Columns()
	return Bounds{
		MinX: floats.Min(xs), MaxX: floats.Max(xs),
		MinY: floats.Min(ys), MaxY: floats.Max(ys),
		MinZ: floats.Min(zs), MaxZ: floats.Max(zs),
	}
}

// TrimBorder drops points lying within fraction of the x and y extent of
// any edge. Bounds are inclusive. A non-positive fraction returns a copy.
func (c Cloud) TrimBorder(fraction float64) Cloud {
	if len(c) == 0 || fraction <= 0 {
		return slices.Clone(c)
	}
	b := c.Bounds()
	bx := b.Width() * fraction
	by := b.Height() * fraction

	out := make(Cloud, 0, len(c))
	for _, p := range c {
		if p.X < b.MinX+bx || p.X > b.MaxX-bx {
			continue
		}
		if p.Y < b.MinY+by || p.Y > b.MaxY-by {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Profiles groups the cloud by distinct x. The receiver is not modified.
func (c Cloud) Profiles() []Profile {
	sorted := slices.Clone(c)
	sorted.Sort()

	var profiles []Profile
	for _, p := range sorted {
		if n := len(profiles); n > 0 && profiles[n-1].X == p.X {
			profiles[n-1].Points = append(profiles[n-1].Points, p)
			continue
		}
		profiles = append(profiles, Profile{X: p.X, Points: []Point{p}})
	}
	return profiles
}

// Downsample keeps every k-th point so that at most limit points remain.
func (c Cloud) Downsample(limit int) Cloud {
	if limit <= 0 || len(c) <= limit {
		return slices.Clone(c)
	}
	stride := (len(c) + limit - 1) / limit
	out := make(Cloud, 0, limit)
	for i := 0; i < len(c); i += stride {
		out = append(out, c[i])
	}
	return out
}

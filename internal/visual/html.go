package visual

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/surface.report/internal/pointcloud"
)

// heightVisualMap colours series by the z value of each item.
func heightVisualMap(lo, hi float64) opts.VisualMap {
	if hi <= lo {
		hi = lo + 1
	}
	return opts.VisualMap{
		Show:       opts.Bool(true),
		Calculable: opts.Bool(true),
		Min:        float32(lo),
		Max:        float32(hi),
		Dimension:  "2",
		InRange:    &opts.VisualMapInRange{Color: viridisStops},
	}
}

func globalOpts3D(title, subtitle string, lo, hi float64) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(heightVisualMap(lo, hi)),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "X", Show: opts.Bool(true)}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "Y", Show: opts.Bool(true)}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "Z", Show: opts.Bool(true)}),
		charts.WithGrid3DOpts(opts.Grid3D{
			Show:      opts.Bool(true),
			BoxWidth:  200,
			BoxDepth:  100,
			BoxHeight: 60,
		}),
	}
}

// Scatter3DHTML writes an interactive 3D scatter page of the cloud. Clouds
// larger than maxPoints are thinned with Cloud.Downsample.
func Scatter3DHTML(w io.Writer, c pointcloud.Cloud, title string, maxPoints int) error {
	if len(c) == 0 {
		return fmt.Errorf("empty point cloud")
	}
	shown := c.Downsample(maxPoints)
	b := c.Bounds()

	data := make([]opts.Chart3DData, len(shown))
	for i, pt := range shown {
		data[i] = opts.Chart3DData{Value: []interface{}{pt.X, pt.Y, pt.Z}}
	}

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(globalOpts3D(title, fmt.Sprintf("points=%d of %d", len(shown), len(c)), b.MinZ, b.MaxZ)...)
	scatter.AddSeries("points", data)

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render scatter page: %w", err)
	}
	return nil
}

// Surface3DHTML writes an interactive 3D surface page of the grid. Cells
// without data are emitted as gaps.
func Surface3DHTML(w io.Writer, g *Grid, title string) error {
	if g == nil || g.Defined() == 0 {
		return fmt.Errorf("grid has no defined cells")
	}
	nx, ny := g.Dims()

	data := make([]opts.Chart3DData, 0, nx*ny)
	for r := 0; r < ny; r++ {
		for c := 0; c < nx; c++ {
			var z interface{} = "-"
			if v := g.Z(c, r); !math.IsNaN(v) {
				z = v
			}
			data = append(data, opts.Chart3DData{Value: []interface{}{g.X(c), g.Y(r), z}})
		}
	}

	surface := charts.NewSurface3D()
	surface.SetGlobalOptions(globalOpts3D(title, fmt.Sprintf("grid=%dx%d", nx, ny), g.Min(), g.Max())...)
	surface.AddSeries("surface", data)

	if err := surface.Render(w); err != nil {
		return fmt.Errorf("render surface page: %w", err)
	}
	return nil
}

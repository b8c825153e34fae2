package visual

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/surface.report/internal/pointcloud"
	"github.com/banshee-data/surface.report/internal/roughness"
	"github.com/banshee-data/surface.report/internal/units"
)

// ChartPrefix names comparison charts: comparacao_<stat>.png.
const ChartPrefix = "comparacao_"

// Chart sizes.
var (
	barWidth, barHeight = 10 * vg.Inch, 6 * vg.Inch
	mapWidth, mapHeight = 12 * vg.Inch, 9 * vg.Inch
	colorBarWidth       = 1.5 * vg.Inch
)

// viridisStops are the control colours of the height colour map.
var viridisStops = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// barPalettes assigns each statistic its set of bar colours.
var barPalettes = map[string][]color.Color{
	"Sa":  hexColors("#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78"),
	"Sq":  hexColors("#2ca02c", "#98df8a", "#d62728", "#ff9896"),
	"Sz":  {colornames.Mediumpurple, colornames.Thistle, colornames.Sienna, colornames.Tan},
	"Ssk": {colornames.Palevioletred, colornames.Pink, colornames.Dimgray, colornames.Silver},
	"Sku": {colornames.Olive, colornames.Khaki, colornames.Teal, colornames.Paleturquoise},
}

func hexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return colornames.Gray
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexColors(hex ...string) []color.Color {
	out := make([]color.Color, len(hex))
	for i, h := range hex {
		out[i] = hexColor(h)
	}
	return out
}

// Viridis returns the colour map used for heights, scaled to [lo, hi].
func Viridis(lo, hi float64) palette.ColorMap {
	cm, err := moreland.NewLuminance(hexColors(viridisStops...))
	if err != nil {
		cm = moreland.ExtendedKindlmann()
	}
	if hi <= lo {
		hi = lo + 1
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	return cm
}

func statIndex(stat string) (int, error) {
	for i, name := range roughness.StatNames {
		if name == stat {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown statistic %q", stat)
}

func statAxisLabel(stat string) string {
	switch stat {
	case "Sa", "Sq", "Sz":
		return units.Label(stat, units.Micrometre)
	}
	return stat
}

// BarChart writes a PNG bar chart comparing one statistic across sources.
// Bars whose value is not finite are left empty.
func BarChart(w io.Writer, stats []roughness.Stats, stat string) error {
	idx, err := statIndex(stat)
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		return fmt.Errorf("no statistics to chart")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Comparison of %s by test condition", stat)
	p.X.Label.Text = "Test condition"
	p.Y.Label.Text = statAxisLabel(stat)

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = colornames.Lightgray
	grid.Horizontal.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(grid)

	colors := barPalettes[stat]
	names := make([]string, len(stats))
	for i, s := range stats {
		names[i] = s.Source
		v := s.Values()[idx]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(40))
		if err != nil {
			return fmt.Errorf("build bar for %s: %w", s.Source, err)
		}
		bar.XMin = float64(i)
		bar.Color = colors[i%len(colors)]
		bar.LineStyle.Color = colornames.Black
		bar.LineStyle.Width = vg.Points(0.5)
		p.Add(bar)
	}
	p.NominalX(names...)

	wt, err := p.WriterTo(barWidth, barHeight, "png")
	if err != nil {
		return fmt.Errorf("render %s chart: %w", stat, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// PointMap writes a top view PNG of the cloud with each point coloured by
// height, alongside a colour bar.
func PointMap(w io.Writer, c pointcloud.Cloud, title string) error {
	if len(c) == 0 {
		return fmt.Errorf("empty point cloud")
	}
	b := c.Bounds()
	cm := Viridis(b.MinZ, b.MaxZ)

	xys := make(plotter.XYs, len(c))
	for i, pt := range c {
		xys[i].X, xys[i].Y = pt.X, pt.Y
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		col, err := cm.At(c[i].Z)
		if err != nil {
			col = colornames.Gray
		}
		return draw.GlyphStyle{Color: col, Radius: vg.Points(1.5), Shape: draw.CircleGlyph{}}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(sc)

	return drawWithColorBar(w, p, cm)
}

// SurfaceMap writes the interpolated grid as a PNG heat map. Cells without
// data are left transparent.
func SurfaceMap(w io.Writer, g *Grid, title string) error {
	if g == nil || g.Defined() == 0 {
		return fmt.Errorf("grid has no defined cells")
	}
	cm := Viridis(g.Min(), g.Max())

	hm := plotter.NewHeatMap(g, cm.Palette(255))

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"
	p.Add(hm)

	return drawWithColorBar(w, p, cm)
}

// drawWithColorBar renders p next to a vertical colour bar for cm as PNG.
func drawWithColorBar(w io.Writer, p *plot.Plot, cm palette.ColorMap) error {
	img := vgimg.New(mapWidth, mapHeight)
	dc := draw.New(img)

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = "Z"
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	p.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))
	bar.Draw(draw.Crop(dc, mapWidth-colorBarWidth, 0, 0, 0))

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

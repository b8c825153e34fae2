package visual

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/roughness"
)

// SaveFile creates path on fs and passes it to render.
func SaveFile(fs fsutil.FileSystem, path string, render func(io.Writer) error) (err error) {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return render(f)
}

// SaveBarCharts writes one comparison chart per statistic into dir and
// returns the paths written.
func SaveBarCharts(fs fsutil.FileSystem, dir string, stats []roughness.Stats, names ...string) ([]string, error) {
	var paths []string
	for _, stat := range names {
		path := filepath.Join(dir, ChartPrefix+stat+".png")
		err := SaveFile(fs, path, func(w io.Writer) error {
			return BarChart(w, stats, stat)
		})
		if err != nil {
			return paths, fmt.Errorf("save %s plot: %w", stat, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Command surface-plot renders a stitched point cloud as a coloured point
// map, an interpolated surface map, or both. PNG images and interactive 3D
// HTML pages are written next to the input unless -out is given.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/pointcloud"
	"github.com/banshee-data/surface.report/internal/security"
	"github.com/banshee-data/surface.report/internal/version"
	"github.com/banshee-data/surface.report/internal/visual"
)

// Config holds the command-line options.
type Config struct {
	InputFile   string
	Mode        string
	OutputDir   string
	Grid        int
	MaxPoints   int
	ConfigFile  string
	ShowVersion bool

	set map[string]bool
}

func main() {
	cfg := parseFlags()
	if cfg.ShowVersion {
		fmt.Println(version.String("surface-plot"))
		return
	}

	if cfg.InputFile == "" {
		log.Fatal("-csv is required")
	}
	mode := strings.ToLower(cfg.Mode)
	if mode != "point" && mode != "surface" && mode != "both" {
		log.Fatalf("unknown mode %q (want point, surface or both)", cfg.Mode)
	}

	sc, err := config.LoadOrDefault(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.set["grid"] {
		sc.GridResolution = &cfg.Grid
	}
	if cfg.set["max-points"] {
		sc.MaxPoints3D = &cfg.MaxPoints
	}
	if err := sc.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	fs := fsutil.OSFileSystem{}
	cloud, err := pointcloud.ReadCSVFile(fs, cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to read point cloud: %v", err)
	}
	if len(cloud) == 0 {
		log.Fatalf("No points in %s", cfg.InputFile)
	}
	log.Printf("Loaded %d points from %s", len(cloud), cfg.InputFile)

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(cfg.InputFile)
	} else if err := fs.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	base := strings.TrimSuffix(filepath.Base(cfg.InputFile), filepath.Ext(cfg.InputFile))
	base = strings.TrimSuffix(base, "_perfis")

	save := func(suffix string, render func(io.Writer) error) {
		path, err := security.OutputPath(outDir, base, suffix)
		if err != nil {
			log.Fatalf("Invalid output name: %v", err)
		}
		if err := visual.SaveFile(fs, path, render); err != nil {
			log.Fatalf("Failed to save %s: %v", path, err)
		}
		log.Printf("Saved: %s", path)
	}

	if mode == "point" || mode == "both" {
		save("_pontos.png", func(w io.Writer) error {
			return visual.PointMap(w, cloud, "Point cloud "+base)
		})
		save("_pontos.html", func(w io.Writer) error {
			return visual.Scatter3DHTML(w, cloud, "Point cloud "+base, sc.GetMaxPoints3D())
		})
	}

	if mode == "surface" || mode == "both" {
		n := sc.GetGridResolution()
		grid, err := visual.Interpolate(cloud, n, n)
		if err != nil {
			log.Fatalf("Failed to interpolate surface: %v", err)
		}
		save("_mapa.png", func(w io.Writer) error {
			return visual.SurfaceMap(w, grid, "Surface "+base)
		})
		save("_superficie.html", func(w io.Writer) error {
			return visual.Surface3DHTML(w, grid, "Surface "+base)
		})
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.InputFile, "csv", "", "Point cloud CSV (x;y;z)")
	flag.StringVar(&cfg.Mode, "mode", "both", "What to render: point, surface, both")
	flag.StringVar(&cfg.OutputDir, "out", "", "Output directory (default: directory of the input)")
	flag.IntVar(&cfg.Grid, "grid", 100, "Surface grid resolution per axis (overrides config)")
	flag.IntVar(&cfg.MaxPoints, "max-points", 20000, "Maximum points in the 3D scatter page (overrides config)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Processing config file (.json or .toml)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()

	cfg.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg
}

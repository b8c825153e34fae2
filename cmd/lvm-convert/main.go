// Command lvm-convert stitches one front and back LVM scan of a sample into
// a <base>_perfis.csv point cloud.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/banshee-data/surface.report/internal/batch"
	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/version"
)

// Config holds the command-line options.
type Config struct {
	FrontFile   string
	BackFile    string
	OutputDir   string
	ConfigFile  string
	FrontStart  float64
	BackStart   float64
	Step        float64
	ShowVersion bool

	set map[string]bool
}

func main() {
	cfg := parseFlags()
	if cfg.ShowVersion {
		fmt.Println(version.String("lvm-convert"))
		return
	}

	if cfg.FrontFile == "" || cfg.BackFile == "" {
		log.Fatal("both -front and -back are required")
	}
	fs := fsutil.OSFileSystem{}
	for _, path := range []string{cfg.FrontFile, cfg.BackFile} {
		if !fs.Exists(path) {
			log.Fatalf("scan file not found: %s", path)
		}
	}

	sc, err := config.LoadOrDefault(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.apply(sc)
	if err := sc.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	stitcher, err := batch.NewStitcher(fs, sc)
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if cfg.OutputDir != "" {
		if err := fs.MkdirAll(cfg.OutputDir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		stitcher.OutDir = cfg.OutputDir
	}

	pair := batch.PairFromPaths(cfg.FrontFile, cfg.BackFile)
	log.Printf("Converting %s (front %s, back %s)", pair.Base, filepath.Base(pair.Front), filepath.Base(pair.Back))

	o := stitcher.ProcessPair(pair)
	if o.Status != batch.StatusOK {
		log.Fatalf("Conversion %s: %s", o.Status, o.Reason)
	}

	fmt.Println("\n=== Conversion ===")
	fmt.Printf("Front points:  %d\n", o.FrontPoints)
	fmt.Printf("Back points:   %d\n", o.BackPoints)
	fmt.Printf("Profiles:      %d\n", o.Profiles)
	fmt.Printf("Dropped rows:  %d\n", o.Dropped)
	fmt.Printf("Total points:  %d\n", o.Points)
	log.Printf("Point cloud written to: %s", o.Output)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.FrontFile, "front", "", "Path to the front scan (.lvm)")
	flag.StringVar(&cfg.BackFile, "back", "", "Path to the back scan (.lvm)")
	flag.StringVar(&cfg.OutputDir, "out", "", "Output directory (default: directory of the front scan)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Processing config file (.json or .toml)")
	flag.Float64Var(&cfg.FrontStart, "front-start", 0, "X of the first front profile (overrides config)")
	flag.Float64Var(&cfg.BackStart, "back-start", 0, "X of the first back profile (overrides config)")
	flag.Float64Var(&cfg.Step, "step", 0, "X increment between profiles (overrides config)")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()

	cfg.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg
}

// apply copies explicitly set flags over the loaded config.
func (c Config) apply(sc *config.Config) {
	if c.set["front-start"] {
		sc.FrontStartX = &c.FrontStart
	}
	if c.set["back-start"] {
		sc.BackStartX = &c.BackStart
	}
	if c.set["step"] {
		sc.StepX = &c.Step
	}
}

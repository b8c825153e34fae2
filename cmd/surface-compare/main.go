// Command surface-compare computes roughness statistics for the stitched
// point clouds of a directory, writes them as the reliability input file and
// charts the selected statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/survey"
	"github.com/banshee-data/surface.report/internal/version"
	"github.com/banshee-data/surface.report/internal/visual"
)

// Config holds the command-line options.
type Config struct {
	Dir         string
	Mode        string
	OutputFile  string
	Border      float64
	ConfigFile  string
	Charts      bool
	ChartStats  string
	ShowVersion bool

	set map[string]bool
}

func main() {
	cfg := parseFlags()
	if cfg.ShowVersion {
		fmt.Println(version.String("surface-compare"))
		return
	}

	if cfg.Dir == "" {
		log.Fatal("-dir is required")
	}
	fs := fsutil.OSFileSystem{}
	if info, err := fs.Stat(cfg.Dir); err != nil || !info.IsDir() {
		log.Fatalf("directory not found: %s", cfg.Dir)
	}
	mode, err := survey.ParseMode(cfg.Mode)
	if err != nil {
		log.Fatal(err)
	}

	sc, err := config.LoadOrDefault(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.set["border"] {
		sc.BorderFraction = &cfg.Border
	}
	if err := sc.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	stats, skips, err := survey.New(fs, mode, sc).Collect(cfg.Dir)
	if err != nil {
		log.Fatalf("Survey failed: %v", err)
	}
	for _, s := range skips {
		log.Printf("Skipped %s: %s", s.Source, s.Reason)
	}
	if len(stats) == 0 {
		log.Fatalf("No point clouds could be evaluated in %s", cfg.Dir)
	}

	fmt.Printf("\n=== Roughness (%s, border %.0f%%) ===\n", mode, sc.GetBorderFraction()*100)
	if err := survey.WriteTable(os.Stdout, stats); err != nil {
		log.Fatalf("Failed to print table: %v", err)
	}

	outPath := cfg.OutputFile
	if outPath == "" {
		outPath = filepath.Join(cfg.Dir, survey.ResultFile)
	}
	if err := survey.ExportStatsCSV(fs, outPath, stats); err != nil {
		log.Fatalf("Failed to write statistics: %v", err)
	}
	log.Printf("Statistics exported to: %s", outPath)

	if !cfg.Charts {
		return
	}
	var names []string
	for _, name := range strings.Split(cfg.ChartStats, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	paths, err := visual.SaveBarCharts(fs, filepath.Dir(outPath), stats, names...)
	for _, p := range paths {
		log.Printf("Chart saved: %s", p)
	}
	if err != nil {
		log.Fatalf("Failed to save charts: %v", err)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Dir, "dir", "", "Directory containing *_perfis.csv point clouds")
	flag.StringVar(&cfg.Mode, "mode", string(survey.ModeAll), "Selection mode: all, conditions")
	flag.StringVar(&cfg.OutputFile, "out", "", "Statistics CSV path (default: <dir>/"+survey.ResultFile+")")
	flag.Float64Var(&cfg.Border, "border", 0.10, "Fraction of the x and y extent trimmed from each edge (overrides config)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Processing config file (.json or .toml)")
	flag.BoolVar(&cfg.Charts, "charts", true, "Write comparison bar charts next to the statistics file")
	flag.StringVar(&cfg.ChartStats, "chart-stats", "Sa,Sq", "Comma-separated statistics to chart")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()

	cfg.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })
	return cfg
}

// Command lvm-batch converts every front/back LVM pair in a directory into
// point cloud files and writes a JSON run report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/surface.report/internal/batch"
	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/version"
)

// Config holds the command-line options.
type Config struct {
	Dir         string
	OutputDir   string
	Ext         string
	ConfigFile  string
	ReportFile  string
	ShowVersion bool
}

func main() {
	cfg := parseFlags()
	if cfg.ShowVersion {
		fmt.Println(version.String("lvm-batch"))
		return
	}

	if cfg.Dir == "" {
		log.Fatal("-dir is required")
	}
	fs := fsutil.OSFileSystem{}
	if info, err := fs.Stat(cfg.Dir); err != nil || !info.IsDir() {
		log.Fatalf("scan directory not found: %s", cfg.Dir)
	}

	sc, err := config.LoadOrDefault(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Ext != "" {
		sc.ScanExtension = &cfg.Ext
	}
	if err := sc.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	stitcher, err := batch.NewStitcher(fs, sc)
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	stitcher.OutDir = cfg.OutputDir

	log.Printf("Looking for *_front.%s / *_back.%s pairs in: %s", sc.GetScanExtension(), sc.GetScanExtension(), cfg.Dir)
	rep, err := stitcher.Run(cfg.Dir)
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}
	rep.Print(os.Stdout)

	reportPath := cfg.ReportFile
	if reportPath == "" {
		reportDir := cfg.OutputDir
		if reportDir == "" {
			reportDir = cfg.Dir
		}
		reportPath = filepath.Join(reportDir, batch.ReportFile)
	}
	if err := batch.ExportJSON(fs, rep, reportPath); err != nil {
		log.Fatalf("Failed to export report: %v", err)
	}
	log.Printf("Report exported to: %s", reportPath)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.Dir, "dir", "", "Directory containing the scan pairs")
	flag.StringVar(&cfg.OutputDir, "out", "", "Output directory (default: the scan directory)")
	flag.StringVar(&cfg.Ext, "ext", "", "Scan file extension (overrides config, default lvm)")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Processing config file (.json or .toml)")
	flag.StringVar(&cfg.ReportFile, "report", "", "JSON report path (default: <out>/"+batch.ReportFile+")")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()

	return cfg
}

// Command reliability ranks measurement protocols by how consistently they
// reproduce the per-sample consensus of each roughness statistic.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/reliability"
	"github.com/banshee-data/surface.report/internal/version"
)

// Config holds the command-line options.
type Config struct {
	InputFile   string
	OutputCSV   string
	OutputXLSX  string
	ShowVersion bool
}

func main() {
	cfg := parseFlags()
	if cfg.ShowVersion {
		fmt.Println(version.String("reliability"))
		return
	}

	if cfg.InputFile == "" {
		log.Fatal("-csv is required")
	}
	fs := fsutil.OSFileSystem{}
	f, err := fs.Open(cfg.InputFile)
	if err != nil {
		log.Fatalf("Failed to open measurements: %v", err)
	}
	ms, rowErrs, err := reliability.ReadMeasurements(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to read measurements: %v", err)
	}
	for _, e := range rowErrs {
		log.Printf("Skipped row: %v", e)
	}
	if len(ms) == 0 {
		log.Fatalf("No usable measurements in %s", cfg.InputFile)
	}

	ranking := reliability.Rank(ms)
	fmt.Println()
	if err := reliability.WriteText(os.Stdout, ranking); err != nil {
		log.Fatalf("Failed to print ranking: %v", err)
	}

	if cfg.OutputCSV != "" {
		var buf bytes.Buffer
		if err := reliability.WriteCSV(&buf, ranking); err != nil {
			log.Fatalf("Failed to encode ranking: %v", err)
		}
		if err := fs.WriteFile(cfg.OutputCSV, buf.Bytes(), 0644); err != nil {
			log.Fatalf("Failed to write ranking: %v", err)
		}
		log.Printf("Ranking exported to: %s", cfg.OutputCSV)
	}

	if cfg.OutputXLSX != "" {
		var buf bytes.Buffer
		if err := reliability.WriteXLSX(&buf, ranking); err != nil {
			log.Fatalf("Failed to build workbook: %v", err)
		}
		if err := fs.WriteFile(cfg.OutputXLSX, buf.Bytes(), 0644); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Workbook exported to: %s", cfg.OutputXLSX)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.InputFile, "csv", "", "Statistics CSV (Amostra,Sa,Sq,Sz,Ssk,Sku)")
	flag.StringVar(&cfg.OutputCSV, "out", "", "Write the ranking as CSV to this path")
	flag.StringVar(&cfg.OutputXLSX, "xlsx", "", "Write the ranking and deviations workbook to this path")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()

	return cfg
}

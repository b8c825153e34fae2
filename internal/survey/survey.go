// Package survey evaluates roughness statistics for a directory of stitched
// point clouds, either every sample or one file per test condition.
package survey

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/monitoring"
	"github.com/banshee-data/surface.report/internal/pointcloud"
	"github.com/banshee-data/surface.report/internal/roughness"
)

// Mode selects which files of a directory are evaluated.
type Mode string

const (
	// ModeAll evaluates every *_perfis.csv file.
	ModeAll Mode = "all"
	// ModeConditions evaluates the first file matching each configured condition.
	ModeConditions Mode = "conditions"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAll, ModeConditions:
		return m, nil
	}
	return "", fmt.Errorf("unknown survey mode %q (want all or conditions)", s)
}

const cloudSuffix = "_perfis.csv"

// Skip records a sample that produced no statistics.
type Skip struct {
	Source string
	Path   string
	Reason string
}

// Survey collects statistics from point cloud files.
type Survey struct {
	FS             fsutil.FileSystem
	Mode           Mode
	Conditions     []config.Condition
	BorderFraction float64
}

// New builds a Survey from configuration.
func New(fs fsutil.FileSystem, mode Mode, cfg *config.Config) *Survey {
	return &Survey{
		FS:             fs,
		Mode:           mode,
		Conditions:     cfg.GetConditions(),
		BorderFraction: cfg.GetBorderFraction(),
	}
}

type target struct {
	source, path string
}

func (s *Survey) targets(dir string) ([]target, []Skip, error) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var csvNames []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			csvNames = append(csvNames, e.Name())
		}
	}

	var targets []target
	var skips []Skip
	switch s.Mode {
	case ModeConditions:
		for _, cond := range s.Conditions {
			found := false
			for _, name := range csvNames {
				if strings.Contains(name, cond.Key) {
					targets = append(targets, target{source: cond.Label, path: filepath.Join(dir, name)})
					found = true
					break
				}
			}
			if !found {
				skips = append(skips, Skip{Source: cond.Label, Reason: fmt.Sprintf("no CSV file matching %q", cond.Key)})
			}
		}
	default:
		for _, name := range csvNames {
			if !strings.HasSuffix(strings.ToLower(name), cloudSuffix) {
				continue
			}
			source := name[:len(name)-len(cloudSuffix)]
			targets = append(targets, target{source: source, path: filepath.Join(dir, name)})
		}
	}
	return targets, skips, nil
}

// Collect evaluates the selected files of dir. Each cloud is border-trimmed
// before its statistics are computed. Unreadable or empty clouds are
// returned as skips; only a failure to list dir is an error.
func (s *Survey) Collect(dir string) ([]roughness.Stats, []Skip, error) {
	targets, skips, err := s.targets(dir)
	if err != nil {
		return nil, nil, err
	}

	var stats []roughness.Stats
	for _, t := range targets {
		cloud, err := pointcloud.ReadCSVFile(s.FS, t.path)
		if err != nil {
			skips = append(skips, Skip{Source: t.source, Path: t.path, Reason: err.Error()})
			monitoring.Skip("sample", t.source, err)
			continue
		}
		st, err := roughness.Compute(t.source, cloud.TrimBorder(s.BorderFraction))
		if err != nil {
			skips = append(skips, Skip{Source: t.source, Path: t.path, Reason: err.Error()})
			monitoring.Skip("sample", t.source, err)
			continue
		}
		stats = append(stats, st)
	}
	return stats, skips, nil
}

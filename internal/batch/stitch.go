package batch

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/monitoring"
	"github.com/banshee-data/surface.report/internal/pointcloud"
	"github.com/banshee-data/surface.report/internal/scan"
	"github.com/banshee-data/surface.report/internal/security"
	"github.com/banshee-data/surface.report/internal/timeutil"
)

// ErrIncompletePair is returned for a sample missing its front or back scan.
var ErrIncompletePair = errors.New("incomplete front/back pair")

// ErrOutputCollision is returned when two samples map to the same output file.
var ErrOutputCollision = errors.New("output file already written by another sample")

// OutputSuffix is appended to the sample base name of stitched files.
const OutputSuffix = "_perfis.csv"

// Status is the result of processing one pair.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one pair.
type Outcome struct {
	Base        string `json:"base"`
	Status      Status `json:"status"`
	Reason      string `json:"reason,omitempty"`
	FrontPoints int    `json:"front_points"`
	BackPoints  int    `json:"back_points"`
	Points      int    `json:"points"`
	Profiles    int    `json:"profiles"`
	Dropped     int    `json:"dropped_rows"`
	Output      string `json:"output,omitempty"`
}

// Stitcher converts scan pairs into point cloud files.
type Stitcher struct {
	FS fsutil.FileSystem
	// OutDir receives the stitched files; empty means next to the inputs.
	OutDir  string
	Front   scan.ProfileParams
	Back    scan.ProfileParams
	Options scan.Options
	Ext     string
	// Clock stamps run reports; nil means the system clock.
	Clock timeutil.Clock
}

// NewStitcher builds a Stitcher from the configured start positions, step,
// encodings and scan extension.
func NewStitcher(fs fsutil.FileSystem, cfg *config.Config) (*Stitcher, error) {
	opts, err := scan.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Stitcher{
		FS:      fs,
		Front:   scan.ProfileParams{StartX: cfg.GetFrontStartX(), StepX: cfg.GetStepX(), Direction: scan.Increasing},
		Back:    scan.ProfileParams{StartX: cfg.GetBackStartX(), StepX: cfg.GetStepX(), Direction: scan.Decreasing},
		Options: opts,
		Ext:     cfg.GetScanExtension(),
		Clock:   timeutil.RealClock{},
	}, nil
}

// OutputPath returns the file ProcessPair writes for p: <base>_perfis.csv in
// OutDir, or next to the front scan when OutDir is empty.
func (s *Stitcher) OutputPath(p Pair) (string, error) {
	dir := s.OutDir
	if dir == "" {
		dir = filepath.Dir(p.Front)
	}
	return security.OutputPath(dir, p.Base, OutputSuffix)
}

func failed(out Outcome, err error) Outcome {
	monitoring.Logf("pair %q: %v", out.Base, err)
	out.Status = StatusFailed
	out.Reason = err.Error()
	return out
}

func skipped(base string, err error) Outcome {
	monitoring.Skip("pair", base, err)
	return Outcome{Base: base, Status: StatusSkipped, Reason: err.Error()}
}

// ProcessPair extracts both sides, stitches them and writes
// <base>_perfis.csv. Problems with the inputs are skips; a failure to write
// the output is a failure.
func (s *Stitcher) ProcessPair(p Pair) Outcome {
	if !p.Complete() {
		missing := "back"
		if p.Front == "" {
			missing = "front"
		}
		return skipped(p.Base, fmt.Errorf("%w: missing %s scan", ErrIncompletePair, missing))
	}

	front, err := scan.ExtractFile(s.FS, p.Front, s.Front, s.Options)
	if err != nil {
		return skipped(p.Base, err)
	}
	back, err := scan.ExtractFile(s.FS, p.Back, s.Back, s.Options)
	if err != nil {
		return skipped(p.Base, err)
	}

	out := Outcome{
		Base:        p.Base,
		FrontPoints: len(front.Points),
		BackPoints:  len(back.Points),
		Profiles:    front.Profiles + back.Profiles,
		Dropped:     front.Dropped + back.Dropped,
	}
	cloud := pointcloud.Stitch(front.Points, back.Points)
	out.Points = len(cloud)

	path, err := s.OutputPath(p)
	if err == nil {
		err = pointcloud.WriteCSVFile(s.FS, path, cloud)
	}
	if err != nil {
		return failed(out, err)
	}

	out.Status = StatusOK
	out.Output = path
	return out
}

// Report summarises one directory run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	ElapsedMs  int64     `json:"elapsed_ms"`
	Dir        string    `json:"dir"`
	OutDir     string    `json:"out_dir,omitempty"`
	Converted  int       `json:"converted"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Run processes every pair in dir sequentially. Only a failure to list the
// directory is returned as an error; per-pair problems are recorded.
func (s *Stitcher) Run(dir string) (*Report, error) {
	clock := s.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	rep := &Report{
		RunID:     uuid.NewString(),
		StartedAt: clock.Now(),
		Dir:       dir,
		OutDir:    s.OutDir,
	}

	pairs, err := FindPairs(s.FS, dir, s.Ext)
	if err != nil {
		return nil, err
	}
	if s.OutDir != "" {
		if err := s.FS.MkdirAll(s.OutDir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	written := make(map[string]string)
	for _, p := range pairs {
		var o Outcome
		path, err := s.OutputPath(p)
		prev, taken := written[path]
		if p.Complete() && err == nil && taken {
			o = failed(Outcome{Base: p.Base}, fmt.Errorf("%w: %s (sample %q)", ErrOutputCollision, path, prev))
		} else {
			o = s.ProcessPair(p)
		}
		if o.Status == StatusOK {
			written[o.Output] = p.Base
		}
		switch o.Status {
		case StatusOK:
			rep.Converted++
		case StatusSkipped:
			rep.Skipped++
		case StatusFailed:
			rep.Failed++
		}
		rep.Outcomes = append(rep.Outcomes, o)
	}
	rep.FinishedAt = clock.Now()
	rep.ElapsedMs = rep.FinishedAt.Sub(rep.StartedAt).Milliseconds()
	return rep, nil
}

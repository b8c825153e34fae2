package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is the path to the canonical processing defaults file.
const DefaultConfigPath = "config/surface.defaults.json"

// DefaultHeaderMarker terminates the LVM header block (it appears twice).
const DefaultHeaderMarker = "***End_of_Header***"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Condition maps a file-name fragment to the label used for a test condition.
type Condition struct {
	Key   string `json:"key" toml:"key"`
	Label string `json:"label" toml:"label"`
}

// Config holds the processing parameters shared by the command-line tools.
// Unset fields fall back to the defaults returned by the Get* methods, so
// partial files are safe.
type Config struct {
	// Profile extraction
	FrontStartX  *float64 `json:"front_start_x,omitempty" toml:"front_start_x"`
	BackStartX   *float64 `json:"back_start_x,omitempty" toml:"back_start_x"`
	StepX        *float64 `json:"step_x,omitempty" toml:"step_x"`
	MinBreakJump *float64 `json:"min_break_jump,omitempty" toml:"min_break_jump"`
	Encodings    []string `json:"encodings,omitempty" toml:"encodings"`
	HeaderMarker *string  `json:"header_marker,omitempty" toml:"header_marker"`

	// Directory processing
	ScanExtension *string     `json:"scan_extension,omitempty" toml:"scan_extension"`
	Conditions    []Condition `json:"conditions,omitempty" toml:"conditions"`

	// Statistics and visualisation
	BorderFraction *float64 `json:"border_fraction,omitempty" toml:"border_fraction"`
	GridResolution *int     `json:"grid_resolution,omitempty" toml:"grid_resolution"`
	MaxPoints3D    *int     `json:"max_points_3d,omitempty" toml:"max_points_3d"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultEncodings is the encoding fallback order for scan files.
func DefaultEncodings() []string {
	return []string{"latin-1", "utf-8", "cp1252"}
}

// DefaultConditions is the standard set of velocity/step test conditions.
func DefaultConditions() []Condition {
	return []Condition{
		{Key: "50_01", Label: "V50_P0.01"},
		{Key: "50_02", Label: "V50_P0.02"},
		{Key: "100_01", Label: "V100_P0.01"},
		{Key: "100_02", Label: "V100_P0.02"},
	}
}

// DefaultConfig returns a Config with every field populated.
func DefaultConfig() *Config {
	return &Config{
		FrontStartX:    ptrFloat64(0.0),
		BackStartX:     ptrFloat64(0.2),
		StepX:          ptrFloat64(0.4),
		MinBreakJump:   ptrFloat64(0),
		Encodings:      DefaultEncodings(),
		HeaderMarker:   ptrString(DefaultHeaderMarker),
		ScanExtension:  ptrString("lvm"),
		Conditions:     DefaultConditions(),
		BorderFraction: ptrFloat64(0.10),
		GridResolution: ptrInt(100),
		MaxPoints3D:    ptrInt(20000),
	}
}

// LoadConfig loads a Config from a .json or .toml file, chosen by extension.
// The file must be under 1MB.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".toml" {
		return nil, fmt.Errorf("config file must have .json or .toml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is non-empty and returns DefaultConfig otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents. Panics if the file cannot
// be loaded; intended for test setup.
func MustLoadDefaultConfig() *Config {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.StepX != nil && *c.StepX <= 0 {
		return fmt.Errorf("step_x must be positive, got %f", *c.StepX)
	}
	if c.MinBreakJump != nil && *c.MinBreakJump < 0 {
		return fmt.Errorf("min_break_jump must be non-negative, got %f", *c.MinBreakJump)
	}
	if c.HeaderMarker != nil && strings.TrimSpace(*c.HeaderMarker) == "" {
		return fmt.Errorf("header_marker must not be empty")
	}
	for i, enc := range c.Encodings {
		if strings.TrimSpace(enc) == "" {
			return fmt.Errorf("encodings[%d] is empty", i)
		}
	}
	if c.ScanExtension != nil && strings.Trim(*c.ScanExtension, ". ") == "" {
		return fmt.Errorf("scan_extension must not be empty")
	}
	for i, cond := range c.Conditions {
		if cond.Key == "" || cond.Label == "" {
			return fmt.Errorf("conditions[%d] needs both key and label", i)
		}
	}
	if c.BorderFraction != nil && (*c.BorderFraction < 0 || *c.BorderFraction >= 0.5) {
		return fmt.Errorf("border_fraction must be in [0, 0.5), got %f", *c.BorderFraction)
	}
	if c.GridResolution != nil && *c.GridResolution < 2 {
		return fmt.Errorf("grid_resolution must be at least 2, got %d", *c.GridResolution)
	}
	if c.MaxPoints3D != nil && *c.MaxPoints3D < 1 {
		return fmt.Errorf("max_points_3d must be positive, got %d", *c.MaxPoints3D)
	}
	return nil
}

// GetFrontStartX returns the x of the first front profile.
func (c *Config) GetFrontStartX() float64 {
	if c.FrontStartX == nil {
		return 0.0
	}
	return *c.FrontStartX
}

// GetBackStartX returns the x of the first back profile.
func (c *Config) GetBackStartX() float64 {
	if c.BackStartX == nil {
		return 0.2
	}
	return *c.BackStartX
}

// GetStepX returns the x increment applied on each profile break.
func (c *Config) GetStepX() float64 {
	if c.StepX == nil {
		return 0.4
	}
	return *c.StepX
}

func (c *Config) GetMinBreakJump() float64 {
	if c.MinBreakJump == nil {
		return 0
	}
	return *c.MinBreakJump
}

func (c *Config) GetEncodings() []string {
	if len(c.Encodings) == 0 {
		return DefaultEncodings()
	}
	return c.Encodings
}

func (c *Config) GetHeaderMarker() string {
	if c.HeaderMarker == nil {
		return DefaultHeaderMarker
	}
	return *c.HeaderMarker
}

// GetScanExtension returns the scan file extension without a leading dot.
func (c *Config) GetScanExtension() string {
	if c.ScanExtension == nil {
		return "lvm"
	}
	return strings.TrimPrefix(strings.TrimSpace(*c.ScanExtension), ".")
}

func (c *Config) GetConditions() []Condition {
	if len(c.Conditions) == 0 {
		return DefaultConditions()
	}
	return c.Conditions
}

func (c *Config) GetBorderFraction() float64 {
	if c.BorderFraction == nil {
		return 0.10
	}
	return *c.BorderFraction
}

func (c *Config) GetGridResolution() int {
	if c.GridResolution == nil {
		return 100
	}
	return *c.GridResolution
}

func (c *Config) GetMaxPoints3D() int {
	if c.MaxPoints3D == nil {
		return 20000
	}
	return *c.MaxPoints3D
}

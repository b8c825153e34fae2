package main

import (
	"testing"

	"github.com/banshee-data/surface.report/internal/config"
)

// TestApplyOverridesOnlySetFlags verifies that flags left at their zero
// default do not replace values from the config file.
func TestApplyOverridesOnlySetFlags(t *testing.T) {
	sc := config.DefaultConfig()
	cfg := Config{
		FrontStart: 0,
		BackStart:  0.1,
		Step:       0.25,
		set:        map[string]bool{"back-start": true, "step": true},
	}
	cfg.apply(sc)

	if got := sc.GetFrontStartX(); got != 0.0 {
		t.Errorf("front start = %v, want config value 0", got)
	}
	if got := sc.GetBackStartX(); got != 0.1 {
		t.Errorf("back start = %v, want 0.1", got)
	}
	if got := sc.GetStepX(); got != 0.25 {
		t.Errorf("step = %v, want 0.25", got)
	}
}

// TestApplyNoFlags leaves the config untouched.
func TestApplyNoFlags(t *testing.T) {
	sc := config.DefaultConfig()
	Config{Step: 9, set: map[string]bool{}}.apply(sc)

	if got := sc.GetStepX(); got != 0.4 {
		t.Errorf("step = %v, want 0.4", got)
	}
}

package scan

import "fmt"

// Direction is the expected y trend within a single profile sweep.
type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

func (d Direction) String() string {
	switch d {
	case Increasing:
		return "increasing"
	case Decreasing:
		return "decreasing"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ProfileParams positions the profiles of one scan file.
type ProfileParams struct {
	StartX    float64
	StepX     float64
	Direction Direction
}

// ProfileTracker assigns an x coordinate to each record of a scan. A new
// profile starts whenever y moves against the expected trend by more than
// MinBreakJump.
type ProfileTracker struct {
	params       ProfileParams
	minBreakJump float64

	x        float64
	lastY    float64
	started  bool
	profiles int
}

// NewProfileTracker returns a tracker positioned at p.StartX.
func NewProfileTracker(p ProfileParams, minBreakJump float64) *ProfileTracker {
	return &ProfileTracker{params: p, minBreakJump: minBreakJump, x: p.StartX}
}

// Next consumes the y of the next record and returns the x for that record
// and whether a profile break occurred before it.
func (t *ProfileTracker) Next(y float64) (x float64, broke bool) {
	if !t.started {
		t.started = true
		t.profiles = 1
		t.lastY = y
		return t.x, false
	}

	var reversal float64
	switch t.params.Direction {
	case Increasing:
		reversal = t.lastY - y
	case Decreasing:
		reversal = y - t.lastY
	}
	if reversal > 0 && reversal > t.minBreakJump {
		t.x += t.params.StepX
		t.profiles++
		broke = true
	}
	t.lastY = y
	return t.x, broke
}

// Profiles returns the number of profiles seen so far.
func (t *ProfileTracker) Profiles() int { return t.profiles }

// X returns the x of the current profile.
func (t *ProfileTracker) X() float64 { return t.x }

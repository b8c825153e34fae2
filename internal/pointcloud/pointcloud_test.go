package pointcloud

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSortIsStableByXThenY(t *testing.T) {
	c := Cloud{
		{X: 0.4, Y: 1, Z: 1},
		{X: 0, Y: 2, Z: 2},
		{X: 0, Y: 1, Z: 3},
		{X: 0, Y: 1, Z: 4},
	}
	c.Sort()

	want := Cloud{
		{X: 0, Y: 1, Z: 3},
		{X: 0, Y: 1, Z: 4},
		{X: 0, Y: 2, Z: 2},
		{X: 0.4, Y: 1, Z: 1},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestStitch(t *testing.T) {
	front := []Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0.4, Y: 0}}
	back := []Point{{X: 0.2, Y: 1}, {X: 0.2, Y: 0}}

	got := Stitch(front, back)
	want := Cloud{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0.2, Y: 0}, {X: 0.2, Y: 1}, {X: 0.4, Y: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stitch() mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, front, 3, "inputs must not be modified")
}

func TestBounds(t *testing.T) {
	assert.Equal(t, Bounds{}, Cloud{}.Bounds())

	c := Cloud{{X: 1, Y: -2, Z: 5}, {X: -1, Y: 4, Z: 0}}
	b := c.Bounds()
	assert.Equal(t, Bounds{MinX: -1, MaxX: 1, MinY: -2, MaxY: 4, MinZ: 0, MaxZ: 5}, b)
	assert.Equal(t, 2.0, b.Width())
	assert.Equal(t, 6.0, b.Height())
}

func TestTrimBorder(t *testing.T) {
	var c Cloud
	for x := 0; x <= 10; x++ {
		for y := 0; y <= 10; y++ {
			c = append(c, Point{X: float64(x), Y: float64(y)})
		}
	}

	testCases := []struct {
		name     string
		fraction float64
		want     int
	}{
		{"no trim", 0, 121},
		{"ten percent", 0.10, 81},
		{"twenty percent", 0.20, 49},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.TrimBorder(tc.fraction)
			assert.Len(t, got, tc.want)
			for _, p := range got {
				assert.GreaterOrEqual(t, p.X, 10*tc.fraction)
				assert.LessOrEqual(t, p.X, 10-10*tc.fraction)
			}
		})
	}

	assert.Empty(t, Cloud{}.TrimBorder(0.1))
}

func TestProfiles(t *testing.T) {
	c := Cloud{{X: 0.4, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 0.2, Y: 3}}
	profiles := c.Profiles()

	if assert.Len(t, profiles, 3) {
		assert.Equal(t, 0.0, profiles[0].X)
		assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 0, Y: 1}}, profiles[0].Points)
		assert.Equal(t, 0.2, profiles[1].X)
		assert.Equal(t, 0.4, profiles[2].X)
	}
	assert.Equal(t, 0.4, c[0].X, "receiver must not be reordered")
}

func TestDownsample(t *testing.T) {
	c := make(Cloud, 10)
	for i := range c {
		c[i] = Point{X: float64(i)}
	}

	assert.Len(t, c.Downsample(0), 10)
	assert.Len(t, c.Downsample(20), 10)

	got := c.Downsample(4)
	assert.Equal(t, Cloud{{X: 0}, {X: 3}, {X: 6}, {X: 9}}, got)

	got = c.Downsample(5)
	assert.Equal(t, Cloud{{X: 0}, {X: 2}, {X: 4}, {X: 6}, {X: 8}}, got)
}

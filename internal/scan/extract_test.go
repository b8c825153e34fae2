package scan

import (
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/surface.report/internal/config"
	"github.com/banshee-data/surface.report/internal/fsutil"
	"github.com/banshee-data/surface.report/internal/pointcloud"
	"github.com/banshee-data/surface.report/internal/testutil"
)

var frontParams = ProfileParams{StartX: 0, StepX: 0.4, Direction: Increasing}

func TestExtractForwardSweep(t *testing.T) {
	rows := testutil.IncreasingSweep(3, 5, 0.1, func(p, i int) float64 { return float64(p*10 + i) })

	res, err := Extract(bytes.NewReader(testutil.LVM(rows)), frontParams, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, res.Points, 15)
	assert.Equal(t, 3, res.Profiles)
	assert.Equal(t, 0, res.Dropped)
	assert.Equal(t, "latin-1", res.Encoding)
	assert.Equal(t, pointcloud.Point{X: 0, Y: 0, Z: 0}, res.Points[0])
	assert.InDelta(t, 0.8, res.Points[14].X, 1e-12)
	assert.Equal(t, 24.0, res.Points[14].Z)
}

func TestExtractSingleProfile(t *testing.T) {
	rows := testutil.IncreasingSweep(1, 20, 0.05, testutil.Flat(1))

	res, err := ExtractBytes(testutil.LVM(rows), frontParams, DefaultOptions())
	require.NoError(t, err)

	for _, p := range res.Points {
		assert.Equal(t, 0.0, p.X)
	}
	assert.Equal(t, 1, res.Profiles)
}

func TestExtractDropsMalformedRows(t *testing.T) {
	rows := []testutil.Row{{Y: 0, Z: 1}, {Y: 1, Z: 2}}
	data := testutil.LVMWith(testutil.LVMOptions{
		Trailer: []string{"3\tnan-ish\t1", "4\t2", "", "5\t2\t3\textra"},
	}, rows)

	res, err := ExtractBytes(data, frontParams, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, res.Points, 3)
	assert.Equal(t, 3, res.Dropped)
	assert.Equal(t, pointcloud.Point{X: 0, Y: 2, Z: 3}, res.Points[2])
}

func TestExtractDecimalComma(t *testing.T) {
	rows := []testutil.Row{{Y: 0.5, Z: 1.25}, {Y: 0.25, Z: -0.5}}
	data := testutil.LVMWith(testutil.LVMOptions{DecimalSeparator: ","}, rows)

	res, err := ExtractBytes(data, frontParams, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, ",", res.Header.DecimalSeparator)
	assert.Equal(t, []pointcloud.Point{{X: 0, Y: 0.5, Z: 1.25}, {X: 0.4, Y: 0.25, Z: -0.5}}, res.Points)
}

func TestExtractHeaderFields(t *testing.T) {
	data := testutil.LVMWith(testutil.LVMOptions{Date: "2023/11/02", Time: "09:00:00"}, []testutil.Row{{Y: 0, Z: 0}})

	res, err := ExtractBytes(data, frontParams, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "2", res.Header.WriterVersion)
	assert.Equal(t, "2023/11/02", res.Header.Date)
	assert.Equal(t, "09:00:00", res.Header.Time)
	assert.Equal(t, "Tab", res.Header.Fields["Separator"])
	assert.Equal(t, "2", res.Header.Fields["Channels"])
}

func TestExtractEncodingOrderInvariance(t *testing.T) {
	rows := testutil.IncreasingSweep(2, 4, 1, testutil.Flat(0.5))
	data := testutil.LVM(rows)

	orders := [][]string{
		{"latin-1", "utf-8", "cp1252"},
		{"utf-8", "latin-1", "cp1252"},
		{"cp1252", "utf-8", "latin-1"},
	}
	for _, order := range orders {
		t.Run(strings.Join(order, ","), func(t *testing.T) {
			res, err := ExtractBytes(data, frontParams, Options{Encodings: order})
			require.NoError(t, err)
			assert.Len(t, res.Points, 8)
			assert.Equal(t, order[0], res.Encoding)
		})
	}
}

func TestDecodeStrictUTF8FallsBack(t *testing.T) {
	// 0xB5 is the micro sign in latin-1 and an invalid UTF-8 byte.
	data := append([]byte("Operator\tlab \xb5m\n"), testutil.LVM([]testutil.Row{{Y: 0, Z: 0}})...)

	doc, err := Decode(data, Options{Encodings: []string{"utf-8", "cp1252"}})
	require.NoError(t, err)
	assert.Equal(t, "cp1252", doc.Encoding)
	assert.Equal(t, "lab µm", doc.Header.Fields["Operator"])

	_, err = Decode(data, Options{Encodings: []string{"utf-8"}})
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestDecodeUTF8WithBOM(t *testing.T) {
	data := append([]byte("\xef\xbb\xbf"), testutil.LVM([]testutil.Row{{Y: 0, Z: 0}})...)

	doc, err := Decode(data, Options{Encodings: []string{"utf8"}})
	require.NoError(t, err)
	assert.Equal(t, "utf-8", doc.Encoding)
	_, ok := doc.Header.Fields["LabVIEW Measurement"]
	assert.True(t, ok, "BOM should be stripped from the first header key")
}

func TestExtractErrors(t *testing.T) {
	oneMarker := "LabVIEW Measurement\n***End_of_Header***\n0\t1\t2\n"
	onlyHeader := testutil.LVM(nil)

	testCases := []struct {
		name string
		data []byte
		opts Options
		want error
	}{
		{"empty file", nil, DefaultOptions(), ErrHeaderNotFound},
		{"single terminator", []byte(oneMarker), DefaultOptions(), ErrHeaderNotFound},
		{"no records", onlyHeader, DefaultOptions(), ErrNoData},
		{"unknown encoding only", testutil.LVM([]testutil.Row{{}}), Options{Encodings: []string{"ebcdic"}}, ErrHeaderNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractBytes(tc.data, frontParams, tc.opts)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestExtractFile(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	testutil.WriteLVM(t, mfs, "/scans/s1_front.lvm", testutil.IncreasingSweep(2, 3, 1, testutil.Flat(0)))

	opts, err := OptionsFromConfig(config.DefaultConfig())
	require.NoError(t, err)
	res, err := ExtractFile(mfs, "/scans/s1_front.lvm", frontParams, opts)
	require.NoError(t, err)
	assert.Len(t, res.Points, 6)

	_, err = ExtractFile(mfs, "/scans/missing_front.lvm", frontParams, DefaultOptions())
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestKnownEncoding(t *testing.T) {
	for _, name := range []string{"latin-1", "LATIN1", "iso_8859_1", "UTF-8", "windows-1252", "cp1252"} {
		assert.True(t, KnownEncoding(name), name)
	}
	assert.False(t, KnownEncoding("shift-jis"))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Encodings = []string{"UTF8", "windows-1252"}
	jump := 0.05
	cfg.MinBreakJump = &jump

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"UTF8", "windows-1252"}, opts.Encodings)
	assert.Equal(t, 0.05, opts.MinBreakJump)
	assert.Equal(t, config.DefaultHeaderMarker, opts.HeaderMarker)

	cfg.Encodings = []string{"utf-8", "shift-jis"}
	_, err = OptionsFromConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shift-jis")
}

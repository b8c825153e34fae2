package pointcloud

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/surface.report/internal/fsutil"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	c := Cloud{{X: 0, Y: 0.1, Z: -1.5}, {X: 0.4, Y: 12, Z: 3.000001}}

	require.NoError(t, WriteCSV(&buf, c))
	assert.Equal(t, "x;y;z\n0;0.1;-1.5\n0.4;12;3.000001\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	c := Cloud{
		{X: 0, Y: 0.1 + 0.2, Z: 1e-9},
		{X: 0.2, Y: 1.0 / 3.0, Z: -123456.789},
		{X: 0.4, Y: 2, Z: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, c))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Cloud
		wantErr string
	}{
		{
			name:  "reordered columns with spaces and bom",
			input: "\ufeff Z ; x;y\n3;1;2\n",
			want:  Cloud{{X: 1, Y: 2, Z: 3}},
		},
		{
			name:  "malformed rows dropped",
			input: "x;y;z\n1;2;3\nfoo;2;3\n4;5\n6;7;8\n",
			want:  Cloud{{X: 1, Y: 2, Z: 3}, {X: 6, Y: 7, Z: 8}},
		},
		{
			name:    "missing column",
			input:   "x;y\n1;2\n",
			wantErr: "missing column",
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadCSV(strings.NewReader(tc.input))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCSVFileHelpers(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	c := Cloud{{X: 0, Y: 1, Z: 2}}

	require.NoError(t, WriteCSVFile(mfs, "/out/a_perfis.csv", c))
	got, err := ReadCSVFile(mfs, "/out/a_perfis.csv")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = ReadCSVFile(mfs, "/out/missing.csv")
	assert.Error(t, err)
}

package reliability

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func meas(sample, protocol string, sa float64) Measurement {
	return Measurement{
		SampleID: sample + "_" + protocol,
		Sample:   sample,
		Protocol: protocol,
		Values:   [5]float64{sa, 1, 1, 1, 1},
	}
}

func TestParseSampleID(t *testing.T) {
	testCases := []struct {
		id           string
		wantSample   string
		wantProtocol string
		wantErr      bool
	}{
		{id: "Jac14_50_01", wantSample: "Jac14", wantProtocol: "V50_P01"},
		{id: "  Jac14_100_0.02 ", wantSample: "Jac14", wantProtocol: "V100_P0.02"},
		{id: "Jac_14_a_50_01", wantSample: "Jac_14_a", wantProtocol: "V50_P01"},
		{id: "Jac14_50", wantErr: true},
		{id: "_50_01", wantErr: true},
		{id: "Jac14__01", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			sample, protocol, err := ParseSampleID(tc.id)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrBadSampleID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSample, sample)
			assert.Equal(t, tc.wantProtocol, protocol)
		})
	}
}

func TestReadMeasurements(t *testing.T) {
	input := "Amostra, Sa (µm), Sq (µm), Sz (µm), Ssk, Sku\n" +
		"Jac14_50_01, 1.5, 2.0, 10.25, -0.1, 3.2\n" +
		"broken, 1, 1, 1, 1, 1\n" +
		"Jac14_100_02, n/a, 2.1, 11, 0.2, 2.9\n"

	ms, rowErrs, err := ReadMeasurements(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ms, 2)
	require.Len(t, rowErrs, 1)
	assert.ErrorIs(t, rowErrs[0], ErrBadSampleID)
	assert.Contains(t, rowErrs[0].Error(), "line 3")

	assert.Equal(t, Measurement{
		SampleID: "Jac14_50_01", Sample: "Jac14", Protocol: "V50_P01",
		Values: [5]float64{1.5, 2.0, 10.25, -0.1, 3.2},
	}, ms[0])
	assert.True(t, math.IsNaN(ms[1].Values[0]))
	assert.Equal(t, 2.1, ms[1].Values[1])
}

func TestReadMeasurementsConvertsLengthUnits(t *testing.T) {
	input := "Amostra,Sa (nm),Sq [mm],Sz,Ssk (nm),Sku\n" +
		"Jac14_50_01,1500,0.002,7.5,-0.3,3.1\n"

	ms, rowErrs, err := ReadMeasurements(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, ms, 1)

	v := ms[0].Values
	assert.InDelta(t, 1.5, v[0], 1e-9, "Sa from nm")
	assert.InDelta(t, 2.0, v[1], 1e-9, "Sq from mm")
	assert.Equal(t, 7.5, v[2], "Sz without unit is µm")
	assert.Equal(t, -0.3, v[3], "Ssk is dimensionless")
	assert.Equal(t, 3.1, v[4])
}

func TestReadMeasurementsHeaderErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty"},
		{"no id column", "Name,Sa,Sq,Sz,Ssk,Sku\n", `"Amostra"`},
		{"missing statistic", "Amostra,Sa (µm),Sq (µm),Ssk,Sku\n", `"Sz"`},
		{"unknown length unit", "Amostra,Sa (in),Sq,Sz,Ssk,Sku\n", `unknown unit "in"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadMeasurements(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestMedian(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.Equal(t, 2.0, Median([]float64{nan, 1, 3}))
	assert.Equal(t, 2.0, Median([]float64{1, math.Inf(1), 3, nan}))
	assert.Equal(t, 2.0, Median([]float64{math.Inf(-1), 1, 3}))
	assert.True(t, math.IsNaN(Median([]float64{math.Inf(1), math.Inf(-1)})))
	assert.True(t, math.IsNaN(Median([]float64{nan})))
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestPercentDeviation(t *testing.T) {
	assert.Equal(t, 20.0, PercentDeviation(12, 10))
	assert.Equal(t, 20.0, PercentDeviation(-12, -10))
	assert.True(t, math.IsNaN(PercentDeviation(1, 0)))
	assert.True(t, math.IsNaN(PercentDeviation(math.NaN(), 1)))
}

func TestRankPrefersConsistentProtocol(t *testing.T) {
	ms := []Measurement{
		meas("S1", "V50_P01", 10), meas("S1", "V50_P01", 10), meas("S1", "V50_P01", 10),
		meas("S1", "V100_P02", 10), meas("S1", "V100_P02", 12), meas("S1", "V100_P02", 8),
	}

	r := Rank(ms)
	require.Len(t, r.Scores, 2)
	assert.Equal(t, 1, r.Samples)

	best, ok := r.Best()
	require.True(t, ok)
	assert.Equal(t, "V50_P01", best.Protocol)
	assert.Equal(t, 0.0, best.Instability[0])
	assert.Equal(t, 3, best.Measurements)

	worst := r.Scores[1]
	assert.InDelta(t, 40.0/3.0, worst.Instability[0], 1e-12)
	assert.Greater(t, worst.Instability[0], best.Instability[0])
	assert.InDelta(t, 40.0/3.0/5.0, worst.Overall, 1e-12)

	require.Len(t, r.Deviations, 6)
	assert.Equal(t, 10.0, r.Deviations[4].Consensus[0])
	assert.Equal(t, 20.0, r.Deviations[4].Percent[0])
}

func TestRankConsensusIsPerSample(t *testing.T) {
	ms := []Measurement{
		meas("A", "V1_P1", 10), meas("A", "V2_P2", 10),
		meas("B", "V1_P1", 100), meas("B", "V2_P2", 50),
	}
	r := Rank(ms)

	assert.Equal(t, 2, r.Samples)
	// B consensus is 75: both protocols are 33.33% off on B, 0% on A.
	for _, s := range r.Scores {
		assert.InDelta(t, 100.0/6.0, s.Instability[0], 1e-9, s.Protocol)
	}
	// Equal scores fall back to protocol name.
	assert.Equal(t, "V1_P1", r.Scores[0].Protocol)
}

func TestRankNaNHandling(t *testing.T) {
	nan := math.NaN()
	ms := []Measurement{
		{Sample: "S", Protocol: "V9_P9", Values: [5]float64{nan, nan, nan, nan, nan}},
		{Sample: "S", Protocol: "V1_P1", Values: [5]float64{1, 0, 1, 1, 1}},
		{Sample: "S", Protocol: "V2_P2", Values: [5]float64{3, 0, 1, 1, 1}},
	}
	r := Rank(ms)

	require.Len(t, r.Scores, 3)
	last := r.Scores[2]
	assert.Equal(t, "V9_P9", last.Protocol)
	assert.True(t, math.IsNaN(last.Overall))

	// Sq consensus is zero, so its deviation is excluded from the overall mean.
	first := r.Scores[0]
	assert.True(t, math.IsNaN(first.Instability[1]))
	assert.False(t, math.IsNaN(first.Overall))
	assert.InDelta(t, 50.0/4.0, first.Overall, 1e-12)
}

func TestRankIgnoresInfiniteValues(t *testing.T) {
	input := "Amostra,Sa (µm),Sq (µm),Sz (µm),Ssk,Sku\n" +
		"S_1_1,10,1,1,1,1\n" +
		"S_1_1,Inf,1,1,1,1\n" +
		"S_2_2,12,1,1,1,1\n" +
		"S_3_3,-Inf,1,1,1,1\n"
	ms, rowErrs, err := ReadMeasurements(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.True(t, math.IsInf(ms[1].Values[0], 1))

	r := Rank(ms)
	require.Len(t, r.Scores, 3)
	// Consensus Sa is the median of 10 and 12; the infinities drop out.
	assert.Equal(t, 11.0, r.Deviations[0].Consensus[0])
	for _, s := range r.Scores {
		assert.False(t, math.IsInf(s.Instability[0], 0), s.Protocol)
	}
	for _, s := range r.Scores {
		switch s.Protocol {
		case "V1_P1", "V2_P2":
			assert.InDelta(t, 100.0/11.0, s.Instability[0], 1e-9, s.Protocol)
		case "V3_P3":
			assert.True(t, math.IsNaN(s.Instability[0]))
		}
	}
}

func TestRankEmpty(t *testing.T) {
	r := Rank(nil)
	_, ok := r.Best()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Samples)
}

func TestWriteText(t *testing.T) {
	r := Rank([]Measurement{meas("S", "V50_P01", 10), meas("S", "V100_P02", 12), meas("S", "V100_P02", 10)})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "1 distinct samples")
	assert.Contains(t, out, "Instability Sa (%)")
	assert.Contains(t, out, "0.00")
	assert.Contains(t, out, "10.00")
	assert.Contains(t, out, "Most reliable protocol: V50_P01")
}

func TestWriteCSV(t *testing.T) {
	r := Rank([]Measurement{meas("S", "V50_P01", 10), meas("S", "V100_P02", 12), meas("S", "V100_P02", 10)})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, r))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Protocol,Instability Sa (%),Instability Sq (%),Instability Sz (%),Instability Ssk (%),Instability Sku (%),Overall Instability (%),Measurements", lines[0])
	assert.Equal(t, "V50_P01,0.0000,0.0000,0.0000,0.0000,0.0000,0.0000,1", lines[1])
	assert.Equal(t, "V100_P02,10.0000,0.0000,0.0000,0.0000,0.0000,2.0000,2", lines[2])
}

func TestWriteXLSX(t *testing.T) {
	nan := math.NaN()
	r := Rank([]Measurement{
		meas("S", "V50_P01", 10),
		meas("S", "V100_P02", 12),
		{SampleID: "S_1_1", Sample: "S", Protocol: "V1_P1", Values: [5]float64{nan, 1, 1, 1, 1}},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Ranking", "Deviations"}, f.GetSheetList())

	rows, err := f.GetRows("Ranking")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Protocol", rows[0][0])
	assert.Equal(t, "V1_P1", rows[1][0])

	devRows, err := f.GetRows("Deviations")
	require.NoError(t, err)
	assert.Len(t, devRows, 4)
	assert.Equal(t, "S_1_1", devRows[3][0])
	assert.Equal(t, "", devRows[3][3], "NaN cells are left empty")
}

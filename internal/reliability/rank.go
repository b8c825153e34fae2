package reliability

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ProtocolScore is the mean percentage deviation of one protocol from the
// consensus, per statistic and overall. Lower is more reliable.
type ProtocolScore struct {
	Protocol     string
	Instability  [5]float64
	Overall      float64
	Measurements int
}

// Deviation records how one measurement compares with its sample consensus.
type Deviation struct {
	Measurement Measurement
	Consensus   [5]float64
	Percent     [5]float64
}

// Ranking orders protocols from most to least reliable.
type Ranking struct {
	Scores []ProtocolScore
	// Samples is the number of distinct physical samples.
	Samples    int
	Deviations []Deviation
}

// Best returns the most reliable protocol.
func (r Ranking) Best() (ProtocolScore, bool) {
	if len(r.Scores) == 0 {
		return ProtocolScore{}, false
	}
	return r.Scores[0], true
}

// Median returns the median of the finite values, averaging the two middle
// values for an even count. It returns NaN when no value remains.
func Median(xs []float64) float64 {
	vals := finite(xs)
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// meanSkipNaN averages the finite values, NaN when none remain.
func meanSkipNaN(xs []float64) float64 {
	vals := finite(xs)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// finite drops NaN and ±Inf.
func finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// PercentDeviation is |v - c| / |c| * 100, NaN when c is zero or either
// value is NaN.
func PercentDeviation(v, c float64) float64 {
	if c == 0 || math.IsNaN(c) || math.IsNaN(v) {
		return math.NaN()
	}
	return math.Abs(v-c) / math.Abs(c) * 100
}

// Rank scores every protocol against the per-sample median consensus.
func Rank(ms []Measurement) Ranking {
	bySample := make(map[string]*[5][]float64)
	for _, m := range ms {
		vals, ok := bySample[m.Sample]
		if !ok {
			vals = new([5][]float64)
			bySample[m.Sample] = vals
		}
		for k, v := range m.Values {
			vals[k] = append(vals[k], v)
		}
	}

	consensus := make(map[string][5]float64, len(bySample))
	for sample, vals := range bySample {
		var c [5]float64
		for k := range c {
			c[k] = Median(vals[k])
		}
		consensus[sample] = c
	}

	type acc struct {
		devs [5][]float64
		n    int
	}
	byProtocol := make(map[string]*acc)
	var order []string

	deviations := make([]Deviation, len(ms))
	for i, m := range ms {
		d := Deviation{Measurement: m, Consensus: consensus[m.Sample]}
		a, ok := byProtocol[m.Protocol]
		if !ok {
			a = &acc{}
			byProtocol[m.Protocol] = a
			order = append(order, m.Protocol)
		}
		a.n++
		for k, v := range m.Values {
			d.Percent[k] = PercentDeviation(v, d.Consensus[k])
			a.devs[k] = append(a.devs[k], d.Percent[k])
		}
		deviations[i] = d
	}

	scores := make([]ProtocolScore, 0, len(order))
	for _, protocol := range order {
		a := byProtocol[protocol]
		s := ProtocolScore{Protocol: protocol, Measurements: a.n}
		for k := range s.Instability {
			s.Instability[k] = meanSkipNaN(a.devs[k])
		}
		s.Overall = meanSkipNaN(s.Instability[:])
		scores = append(scores, s)
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return lessScore(scores[i], scores[j])
	})

	return Ranking{Scores: scores, Samples: len(bySample), Deviations: deviations}
}

func lessScore(a, b ProtocolScore) bool {
	an, bn := math.IsNaN(a.Overall), math.IsNaN(b.Overall)
	switch {
	case an != bn:
		return bn
	case !an && a.Overall != b.Overall:
		return a.Overall < b.Overall
	}
	return a.Protocol < b.Protocol
}

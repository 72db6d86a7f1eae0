// Package benchmark fits the per-segment expected-pace models.
// A model maps lap number to expected lap duration for one
// stint/compound combination and is shared across all competitors.
package benchmark

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
)

type Kind string

const (
	KindMedian     Kind = "median"
	KindRegression Kind = "regression"
)

// Model is either a median fallback or a frozen polynomial fit.
type Model struct {
	Kind   Kind
	Median float64
	// Coeffs[i] is the coefficient for lapNo^i
	Coeffs []float64
}

// Predict evaluates the model at lapNo. Queries outside the fitted
// lap range are evaluated as is (no extrapolation guard).
func (m *Model) Predict(lapNo int) float64 {
	if m.Kind == KindMedian {
		return m.Median
	}
	x := float64(lapNo)
	ret := 0.0
	pow := 1.0
	for _, c := range m.Coeffs {
		ret += c * pow
		pow *= x
	}
	return ret
}

// Set holds the fitted models of one race, keyed by segment.
type Set struct {
	models map[model.SegmentKey]*Model
}

// Expected returns the expected lap duration for the given segment,
// false when no model exists for that segment.
func (s *Set) Expected(key model.SegmentKey, lapNo int) (float64, bool) {
	m, ok := s.models[key]
	if !ok {
		return math.NaN(), false
	}
	return m.Predict(lapNo), true
}

func (s *Set) Model(key model.SegmentKey) *Model {
	return s.models[key]
}

func (s *Set) Size() int { return len(s.models) }

type Fitter struct {
	minSamples   int
	degree       int
	emptyDefault float64
}

type FitterOption func(f *Fitter)

// WithMinSamples sets the sample count below which the fit
// falls back to the median.
func WithMinSamples(n int) FitterOption {
	return func(f *Fitter) { f.minSamples = n }
}

func WithDegree(degree int) FitterOption {
	return func(f *Fitter) { f.degree = degree }
}

// WithEmptyDefault sets the value used for segments without any
// sample laps. Use NaN to mark such segments as undefined.
func WithEmptyDefault(v float64) FitterOption {
	return func(f *Fitter) { f.emptyDefault = v }
}

func NewFitter(opts ...FitterOption) *Fitter {
	ret := &Fitter{
		minSamples:   8,
		degree:       2,
		emptyDefault: 90.0,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Fit builds one model per segment found in keySource. The samples are
// taken from sampleLaps only (the clean subset). Fitting is a pure
// function of its input: identical laps yield identical coefficients.
func (f *Fitter) Fit(keySource, sampleLaps []*model.LapRecord) *Set {
	samplesByKey := make(map[model.SegmentKey][]*model.LapRecord)
	for _, l := range sampleLaps {
		key := l.Segment()
		samplesByKey[key] = append(samplesByKey[key], l)
	}

	ret := &Set{models: make(map[model.SegmentKey]*Model)}
	for _, l := range keySource {
		key := l.Segment()
		if _, ok := ret.models[key]; ok {
			continue
		}
		ret.models[key] = f.fitSegment(samplesByKey[key])
	}
	return ret
}

func (f *Fitter) fitSegment(laps []*model.LapRecord) *Model {
	if len(laps) == 0 {
		return &Model{Kind: KindMedian, Median: f.emptyDefault}
	}
	if len(laps) < f.minSamples {
		times := make([]float64, len(laps))
		for i, l := range laps {
			times[i] = l.LapSeconds
		}
		return &Model{Kind: KindMedian, Median: Median(times)}
	}
	xs := make([]float64, len(laps))
	ys := make([]float64, len(laps))
	for i, l := range laps {
		xs[i] = float64(l.LapNo)
		ys[i] = l.LapSeconds
	}
	coeffs, err := PolyFit(xs, ys, f.degree)
	if err != nil {
		// degenerate sample (e.g. all laps share one lap number)
		times := make([]float64, len(laps))
		for i, l := range laps {
			times[i] = l.LapSeconds
		}
		return &Model{Kind: KindMedian, Median: Median(times)}
	}
	return &Model{Kind: KindRegression, Coeffs: coeffs}
}

// PolyFit computes the ordinary least squares fit of a polynomial with
// the given degree. The returned slice holds the coefficients in
// ascending power order.
func PolyFit(xs, ys []float64, degree int) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("mismatched sample sizes: %d vs %d", len(xs), len(ys))
	}
	if len(xs) < degree+1 {
		return nil, fmt.Errorf("need at least %d samples for degree %d", degree+1, degree)
	}
	a := mat.NewDense(len(xs), degree+1, nil)
	for i, x := range xs {
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}
	b := mat.NewVecDense(len(ys), ys)
	var qr mat.QR
	qr.Factorize(a)
	coeffs := mat.NewVecDense(degree+1, nil)
	if err := qr.SolveVecTo(coeffs, false, b); err != nil {
		return nil, err
	}
	ret := make([]float64, degree+1)
	copy(ret, coeffs.RawVector().Data)
	return ret, nil
}

// Quantile returns the p-quantile of the sorted values, linearly
// interpolated between the two closest order statistics. This is the
// convention of the timing toolchain our thresholds were calibrated
// with; gonum's CDF-based interpolation lands on slightly different
// cut points.
func Quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Median returns the midpoint interpolated median of values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

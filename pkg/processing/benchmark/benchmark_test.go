package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/testsupport/basedata"
)

func quadraticLaps(n int) []*model.LapRecord {
	ret := make([]*model.LapRecord, 0, n)
	for i := 1; i <= n; i++ {
		x := float64(i)
		ret = append(ret, basedata.Lap("car-1", i, 90.0+0.1*x+0.02*x*x))
	}
	return ret
}

func TestFitter_Regression(t *testing.T) {
	laps := quadraticLaps(12)
	models := NewFitter().Fit(laps, laps)

	assert.Equal(t, 1, models.Size())
	m := models.Model(model.SegmentKey{Stint: 1, Compound: "medium"})
	assert.NotNil(t, m)
	assert.Equal(t, KindRegression, m.Kind)

	for _, lapNo := range []int{1, 6, 12} {
		x := float64(lapNo)
		assert.InDelta(t, 90.0+0.1*x+0.02*x*x, m.Predict(lapNo), 1e-6)
	}
}

func TestFitter_MedianFallback(t *testing.T) {
	// 5 laps are below the default minimum of 8
	laps := []*model.LapRecord{
		basedata.Lap("car-1", 1, 91.0),
		basedata.Lap("car-1", 2, 90.0),
		basedata.Lap("car-1", 3, 95.0),
		basedata.Lap("car-1", 4, 89.0),
		basedata.Lap("car-1", 5, 92.0),
	}
	models := NewFitter().Fit(laps, laps)
	m := models.Model(model.SegmentKey{Stint: 1, Compound: "medium"})
	assert.Equal(t, KindMedian, m.Kind)
	assert.InDelta(t, 91.0, m.Predict(3), 1e-9)
}

func TestFitter_EmptySegment(t *testing.T) {
	keySource := []*model.LapRecord{basedata.Lap("car-1", 1, 91.0)}
	models := NewFitter().Fit(keySource, nil)

	expected, ok := models.Expected(model.SegmentKey{Stint: 1, Compound: "medium"}, 1)
	assert.True(t, ok)
	assert.InDelta(t, 90.0, expected, 1e-9)
}

func TestFitter_UnknownSegment(t *testing.T) {
	laps := quadraticLaps(10)
	models := NewFitter().Fit(laps, laps)
	_, ok := models.Expected(model.SegmentKey{Stint: 2, Compound: "soft"}, 1)
	assert.False(t, ok)
}

func TestFitter_Idempotent(t *testing.T) {
	laps := quadraticLaps(15)
	first := NewFitter().Fit(laps, laps)
	second := NewFitter().Fit(laps, laps)
	for lapNo := 1; lapNo <= 15; lapNo++ {
		a, _ := first.Expected(model.SegmentKey{Stint: 1, Compound: "medium"}, lapNo)
		b, _ := second.Expected(model.SegmentKey{Stint: 1, Compound: "medium"}, lapNo)
		assert.InDelta(t, a, b, 1e-12)
	}
}

func TestPolyFit(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{1, 3, 9, 19, 33} // 1 + 0x + 2x^2
	coeffs, err := PolyFit(xs, ys, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, coeffs[0], 1e-9)
	assert.InDelta(t, 0.0, coeffs[1], 1e-9)
	assert.InDelta(t, 2.0, coeffs[2], 1e-9)
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		sorted []float64
		want   float64
	}{
		{"median even", 0.5, []float64{1, 2, 3, 4}, 2.5},
		{"median odd", 0.5, []float64{1, 2, 3}, 2},
		{"q70 of five", 0.7, []float64{-30, -20, -16, -2, -1}, -4.8},
		{"interpolated", 0.25, []float64{10, 20}, 12.5},
		{"upper edge", 1.0, []float64{1, 2, 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.p, tt.sorted), 1e-9)
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Median(tt.values), 1e-9)
		})
	}
}

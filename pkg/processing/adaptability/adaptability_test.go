package adaptability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/testsupport/basedata"
)

func TestAnalyzer_IndexIsNegativeSpread(t *testing.T) {
	laps := make([]*model.LapRecord, 0, 24)
	offsets := []float64{0.0, 0.4, -0.4, 0.2, -0.2, 0.0}
	for n := 1; n <= 12; n++ {
		laps = append(laps, basedata.Lap("car-1", n, 90.0,
			basedata.WithCompletedAt(float64(n)*90.0)))
		laps = append(laps, basedata.Lap("car-2", n, 90.0+offsets[(n-1)%6],
			basedata.WithCompletedAt(float64(n)*90.0+5.0)))
	}
	results := NewAnalyzer().Compute(laps)

	assert.Len(t, results, 2)
	byID := make(map[string]model.AdaptabilityResult)
	for _, r := range results {
		byID[r.CompetitorID] = r
	}
	// a steadier competitor scores higher
	assert.Greater(t, byID["car-1"].Index, byID["car-2"].Index)
	assert.LessOrEqual(t, byID["car-2"].Index, 0.0)
}

func TestAnalyzer_TooFewLapsSkipped(t *testing.T) {
	laps := []*model.LapRecord{
		basedata.Lap("car-1", 1, 90.0),
		basedata.Lap("car-1", 2, 90.2),
		basedata.Lap("car-1", 3, 90.1),
	}
	results := NewAnalyzer().Compute(laps)
	assert.Empty(t, results)
}

func TestAnalyzer_FadingPaceSlope(t *testing.T) {
	// car-2 fades relative to car-1 over the race
	laps := make([]*model.LapRecord, 0, 60)
	for n := 1; n <= 30; n++ {
		laps = append(laps, basedata.Lap("car-1", n, 90.0,
			basedata.WithCompletedAt(float64(n)*90.0)))
		laps = append(laps, basedata.Lap("car-2", n, 90.0+float64(n)*0.05,
			basedata.WithCompletedAt(float64(n)*90.0+5.0)))
	}
	results := NewAnalyzer().Compute(laps)

	byID := make(map[string]model.AdaptabilityResult)
	for _, r := range results {
		byID[r.CompetitorID] = r
	}
	assert.Greater(t, byID["car-2"].PaceSlope, byID["car-1"].PaceSlope)
}

func TestSegmentSlopes(t *testing.T) {
	a := NewAnalyzer()
	// strictly improving deltas
	deltas := []float64{1.0, 0.9, 0.8, 0.5, 0.4, 0.3, 0.0, -0.1, -0.2}
	pace, consistency := a.segmentSlopes(deltas)
	assert.Less(t, pace, 0.0)
	// spread within each segment stays the same
	seg := []float64{1.0, 0.9, 0.8}
	assert.InDelta(t, stat.StdDev(seg, nil),
		stat.StdDev([]float64{0.5, 0.4, 0.3}, nil), 1e-9)
	assert.InDelta(t, 0.0, consistency, 1e-9)
}

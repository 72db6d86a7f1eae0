package ratio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/testsupport/basedata"
)

// two competitors, car-1 fast and metronomic, car-2 slower and erratic
func mixedConsistencyLaps() []*model.LapRecord {
	ret := make([]*model.LapRecord, 0, 40)
	noisy := []float64{-0.8, 0.9, -0.7, 0.8, -0.9, 0.7, -0.6, 0.8, -0.8, 0.6,
		0.9, -0.9, 0.7, -0.7, 0.8, -0.8, 0.6, -0.6, 0.9, -0.9}
	for n := 1; n <= 20; n++ {
		ret = append(ret, basedata.Lap("car-1", n, 90.0,
			basedata.WithCompletedAt(float64(n)*90.0)))
		ret = append(ret, basedata.Lap("car-2", n, 90.3+noisy[n-1],
			basedata.WithCompletedAt(float64(n)*90.0+5.0)))
	}
	return ret
}

func TestEngine_ConsistencyRanking(t *testing.T) {
	ratios := NewEngine().Compute(mixedConsistencyLaps(), basedata.SampleResults(2))

	assert.Len(t, ratios, 2)
	// sorted best first
	assert.Equal(t, "car-1", ratios[0].CompetitorID)
	assert.Equal(t, "car-2", ratios[1].CompetitorID)
	assert.Greater(t, ratios[0].Sharpe, ratios[1].Sharpe)
}

func TestEngine_ShortStintsExcluded(t *testing.T) {
	laps := []*model.LapRecord{
		basedata.Lap("car-1", 1, 90.0),
		basedata.Lap("car-1", 2, 90.5),
	}
	for n := 1; n <= 10; n++ {
		laps = append(laps, basedata.Lap("car-2", n, 90.0+float64(n%2)*0.4,
			basedata.WithCompletedAt(float64(n)*90.0+5.0)))
	}
	ratios := NewEngine().Compute(laps, basedata.SampleResults(2))

	// car-1 has no stint with enough laps
	assert.Len(t, ratios, 1)
	assert.Equal(t, "car-2", ratios[0].CompetitorID)
}

func TestEngine_CautionAndPitFiltered(t *testing.T) {
	laps := make([]*model.LapRecord, 0)
	for n := 1; n <= 10; n++ {
		opts := []basedata.LapOption{
			basedata.WithCompletedAt(float64(n) * 90.0),
		}
		if n == 5 {
			opts = append(opts, basedata.WithStatus(model.StatusYellow))
		}
		if n == 8 {
			opts = append(opts, basedata.WithPitIn())
		}
		laps = append(laps, basedata.Lap("car-1", n, 90.0, opts...))
	}
	ratios := NewEngine().Compute(laps, basedata.SampleResults(1))

	assert.Len(t, ratios, 1)
	assert.Equal(t, 8, ratios[0].Laps)
}

func TestEngine_TeammateDelta(t *testing.T) {
	// car-1 and car-2 share team-1 (see SampleResults)
	ratios := NewEngine().Compute(mixedConsistencyLaps(), basedata.SampleResults(2))

	var car1, car2 *model.RatioResult
	for i := range ratios {
		switch ratios[i].CompetitorID {
		case "car-1":
			car1 = &ratios[i]
		case "car-2":
			car2 = &ratios[i]
		}
	}
	assert.Equal(t, "team-1", car1.Team)
	assert.Equal(t, "team-1", car2.Team)
	// deltas are symmetric around the team mean
	assert.InDelta(t, -car2.TeammateDelta, car1.TeammateDelta, 1e-9)
	assert.Greater(t, car1.TeammateDelta, 0.0)
}

func TestEngine_NoData(t *testing.T) {
	ratios := NewEngine().Compute(nil, nil)
	assert.Empty(t, ratios)
}

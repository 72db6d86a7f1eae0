package traffic

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/testsupport/basedata"
)

func TestClassifier_Gaps(t *testing.T) {
	laps := []*model.LapRecord{
		basedata.Lap("car-1", 1, 90.0, basedata.WithCompletedAt(100.0)),
		basedata.Lap("car-2", 1, 90.0, basedata.WithCompletedAt(100.5)),
		basedata.Lap("car-3", 1, 90.0, basedata.WithCompletedAt(105.0)),
	}
	ctx := NewClassifier().Analyze(laps)

	leader := ctx.Flags("car-1", 1)
	assert.InDelta(t, 10.0, leader.GapAhead, 1e-9)
	assert.InDelta(t, 0.5, leader.GapBehind, 1e-9)
	assert.True(t, leader.UnderPressure)

	second := ctx.Flags("car-2", 1)
	assert.InDelta(t, 0.5, second.GapAhead, 1e-9)
	assert.InDelta(t, 4.5, second.GapBehind, 1e-9)
	assert.True(t, second.InTraffic)
	assert.False(t, second.UnderPressure)

	last := ctx.Flags("car-3", 1)
	assert.InDelta(t, 4.5, last.GapAhead, 1e-9)
	assert.InDelta(t, 10.0, last.GapBehind, 1e-9)
	assert.False(t, last.InTraffic)
}

func TestClassifier_UnknownLapIsClearAir(t *testing.T) {
	ctx := NewClassifier().Analyze(nil)
	f := ctx.Flags("car-1", 1)
	assert.InDelta(t, 10.0, f.GapAhead, 1e-9)
	assert.False(t, f.InTraffic)
}

// 60 samples with a uniform gap spread: the median lands at 4.5s and
// must be clamped to the upper threshold bound.
func TestClassifier_CalibrationClamped(t *testing.T) {
	laps := make([]*model.LapRecord, 0)
	for lapNo := 1; lapNo <= 30; lapNo++ {
		base := float64(lapNo) * 90.0
		gap := 0.2 + float64(lapNo-1)*0.29 // 0.2 .. 8.61
		for c := 0; c < 3; c++ {
			laps = append(laps,
				basedata.Lap(fmt.Sprintf("car-%d", c+1), lapNo, 90.0,
					basedata.WithCompletedAt(base+float64(c)*gap)))
		}
	}
	ctx := NewClassifier().Analyze(laps)
	assert.True(t, ctx.Calibrated)
	assert.InDelta(t, 3.0, ctx.Threshold, 1e-9)
}

// 61 cars on a single lap give 60 following gaps uniformly spread
// 0.5..2.5s; the calibrated threshold is their median, unclamped
func TestClassifier_CalibrationInBand(t *testing.T) {
	laps := make([]*model.LapRecord, 0, 61)
	completed := 100.0
	for c := 0; c < 61; c++ {
		if c > 0 {
			completed += 0.5 + 2.0*float64(c-1)/59.0
		}
		laps = append(laps,
			basedata.Lap(fmt.Sprintf("car-%d", c+1), 1, 90.0,
				basedata.WithCompletedAt(completed)))
	}
	ctx := NewClassifier().Analyze(laps)
	assert.True(t, ctx.Calibrated)
	assert.InDelta(t, 1.5, ctx.Threshold, 1e-9)
}

func TestClassifier_CalibrationFallback(t *testing.T) {
	// a 3 car field over 10 laps yields far fewer than 50 usable gaps
	laps := basedata.Race(3, 10, 90.0, 0.5)
	ctx := NewClassifier().Analyze(laps)
	assert.False(t, ctx.Calibrated)
	assert.InDelta(t, 1.3, ctx.Threshold, 1e-9)
}

func TestClassifier_PitAndCautionExcludedFromCalibration(t *testing.T) {
	laps := make([]*model.LapRecord, 0)
	for lapNo := 1; lapNo <= 30; lapNo++ {
		base := float64(lapNo) * 90.0
		laps = append(laps,
			basedata.Lap("car-1", lapNo, 90.0, basedata.WithCompletedAt(base)),
			basedata.Lap("car-2", lapNo, 90.0,
				basedata.WithCompletedAt(base+2.0),
				basedata.WithPitIn()),
			basedata.Lap("car-3", lapNo, 90.0,
				basedata.WithCompletedAt(base+4.0),
				basedata.WithStatus(model.StatusYellow)))
	}
	ctx := NewClassifier().Analyze(laps)
	// no usable gap sample remains
	assert.False(t, ctx.Calibrated)
	assert.InDelta(t, 1.3, ctx.Threshold, 1e-9)
}

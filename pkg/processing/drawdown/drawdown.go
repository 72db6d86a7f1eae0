// Package drawdown detects excursions below the running equity peak
// and derives recovery metrics per competitor.
package drawdown

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/benchmark"
)

type detectorState int

const (
	stateNormal detectorState = iota
	stateInDrawdown
)

type Detector struct {
	settings config.AnalysisSettings

	state    detectorState
	peak     float64
	minDD    float64
	episodes []model.DrawdownEpisode

	// current episode
	entryLap     int
	troughLap    int
	troughEquity float64
	troughIdx    int
	troughDD     float64
	failure      model.FailureKind
	points       []model.EquityPoint
}

type DetectorOption func(d *Detector)

func WithSettings(settings config.AnalysisSettings) DetectorOption {
	return func(d *Detector) { d.settings = settings }
}

func NewDetector(opts ...DetectorOption) *Detector {
	ret := &Detector{settings: config.DefaultAnalysisSettings()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Analyze runs the detector over the lap-ordered equity series of one
// competitor and returns the aggregated summary. An episode that is
// still open at the end of the race is discarded.
func (d *Detector) Analyze(points []model.EquityPoint) model.CompetitorSummary {
	d.state = stateNormal
	d.peak = 0.0
	d.minDD = 0.0
	d.episodes = nil
	d.points = points

	for i := range points {
		dd := d.drawdown(points[i].Equity)
		if dd < d.minDD {
			d.minDD = dd
		}
		switch d.state {
		case stateNormal:
			d.handleStateNormal(i, dd)
		case stateInDrawdown:
			d.handleStateInDrawdown(i, dd)
		}
	}
	return d.summarize(points)
}

func (d *Detector) drawdown(equity float64) float64 {
	if equity > d.peak {
		return 0.0
	}
	return equity - d.peak
}

func (d *Detector) handleStateNormal(i int, dd float64) {
	p := d.points[i]
	if p.Equity > d.peak {
		d.peak = p.Equity
	}
	if dd < d.settings.DrawdownEntry {
		d.state = stateInDrawdown
		d.entryLap = p.LapNo
		d.troughLap = p.LapNo
		d.troughEquity = p.Equity
		d.troughIdx = i
		d.troughDD = dd
		// the episode keeps the failure tag seen at entry
		d.failure = p.Failure
	}
}

func (d *Detector) handleStateInDrawdown(i int, dd float64) {
	p := d.points[i]
	if dd < d.troughDD {
		d.troughDD = dd
		d.troughLap = p.LapNo
		d.troughEquity = p.Equity
		d.troughIdx = i
	}
	if dd >= d.settings.DrawdownExit {
		d.closeEpisode(i)
		d.state = stateNormal
		if p.Equity > d.peak {
			d.peak = p.Equity
		}
	}
}

func (d *Detector) closeEpisode(exitIdx int) {
	exit := d.points[exitIdx]
	duration := exit.LapNo - d.troughLap
	// recoveries must take longer than MinRecoveryLaps to count
	if duration <= d.settings.MinRecoveryLaps {
		return
	}
	velocity := (exit.Equity - d.troughEquity) / float64(duration)
	curvature := d.recoveryCurvature(exitIdx)
	d.episodes = append(d.episodes, model.DrawdownEpisode{
		EntryLap:         d.entryLap,
		TroughLap:        d.troughLap,
		ExitLap:          exit.LapNo,
		TroughEquity:     d.troughEquity,
		ExitEquity:       exit.Equity,
		RecoveryVelocity: velocity,
		Curvature:        curvature,
		Shape:            d.shape(curvature),
		Failure:          d.failure,
	})
}

// recoveryCurvature is the leading coefficient of a quadratic fit over
// the recovery path (trough to exit). Less than three points fit no
// parabola and count as zero curvature.
func (d *Detector) recoveryCurvature(exitIdx int) float64 {
	n := exitIdx - d.troughIdx + 1
	if n < 3 {
		return 0.0
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		p := d.points[d.troughIdx+i]
		xs[i] = float64(p.LapNo - d.troughLap)
		ys[i] = p.Equity
	}
	coeffs, err := benchmark.PolyFit(xs, ys, 2)
	if err != nil {
		return 0.0
	}
	return coeffs[2]
}

func (d *Detector) shape(curvature float64) model.RecoveryShape {
	switch {
	case curvature > d.settings.CurvatureBand:
		return model.ShapeV
	case curvature < -d.settings.CurvatureBand:
		return model.ShapeU
	default:
		return model.ShapeLinear
	}
}

//nolint:funlen // plain aggregation
func (d *Detector) summarize(points []model.EquityPoint) model.CompetitorSummary {
	ret := model.CompetitorSummary{
		MaxDrawdown:             d.minDD,
		Episodes:                len(d.episodes),
		Shape:                   model.ShapeLinear,
		MajorIncidentResilience: model.NullableFloat(math.NaN()),
		TrafficResilience:       model.NullableFloat(math.NaN()),
		OperationalResilience:   model.NullableFloat(math.NaN()),
	}
	if len(points) > 0 {
		ret.CompetitorID = points[0].CompetitorID
	}

	if len(d.episodes) > 0 {
		velocities := make([]float64, len(d.episodes))
		curvatures := make([]float64, len(d.episodes))
		byFailure := make(map[model.FailureKind][]float64)
		for i, e := range d.episodes {
			velocities[i] = e.RecoveryVelocity
			curvatures[i] = e.Curvature
			byFailure[e.Failure] = append(byFailure[e.Failure], e.RecoveryVelocity)
		}
		ret.ResetVelocity = stat.Mean(velocities, nil)
		ret.ResetVelocityCILow = ret.ResetVelocity
		ret.ResetVelocityCIHigh = ret.ResetVelocity
		if len(velocities) > 1 {
			margin := 1.96 * stat.PopStdDev(velocities, nil) /
				math.Sqrt(float64(len(velocities)))
			ret.ResetVelocityCILow = ret.ResetVelocity - margin
			ret.ResetVelocityCIHigh = ret.ResetVelocity + margin
		}
		meanCurv := stat.Mean(curvatures, nil)
		ret.Curvature = meanCurv
		ret.Shape = d.shape(meanCurv)
		if vs, ok := byFailure[model.FailureMajorIncident]; ok {
			ret.MajorIncidentResilience = model.NullableFloat(stat.Mean(vs, nil))
		}
		if vs, ok := byFailure[model.FailureTraffic]; ok {
			ret.TrafficResilience = model.NullableFloat(stat.Mean(vs, nil))
		}
		if vs, ok := byFailure[model.FailureOperational]; ok {
			ret.OperationalResilience = model.NullableFloat(stat.Mean(vs, nil))
		}
	}

	restartChanges := make([]float64, 0)
	for _, p := range points {
		if p.Restart {
			restartChanges = append(restartChanges, p.Change)
		}
	}
	if len(restartChanges) > 0 {
		ret.RestartDelta = stat.Mean(restartChanges, nil)
	}
	return ret
}

// Episodes returns the episodes of the last Analyze call.
func (d *Detector) Episodes() []model.DrawdownEpisode {
	return d.episodes
}

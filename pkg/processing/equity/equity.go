// Package equity converts per-lap deltas against the expected-pace
// model into a signed equity series per competitor.
package equity

import (
	"math"
	"sort"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/benchmark"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/traffic"
)

// Result holds the equity series of one race.
type Result struct {
	// AvgPitLoss is the median raw delta over non-caution pit laps.
	AvgPitLoss float64
	// ByCompetitor holds the lap-ordered equity points per competitor.
	ByCompetitor map[string][]model.EquityPoint
}

// Points returns all equity points, competitors sorted by id.
func (r *Result) Points() []model.EquityPoint {
	ids := make([]string, 0, len(r.ByCompetitor))
	for id := range r.ByCompetitor {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	ret := make([]model.EquityPoint, 0)
	for _, id := range ids {
		ret = append(ret, r.ByCompetitor[id]...)
	}
	return ret
}

type Accumulator struct {
	settings config.AnalysisSettings
	fitter   *benchmark.Fitter
}

type AccumulatorOption func(a *Accumulator)

func WithSettings(settings config.AnalysisSettings) AccumulatorOption {
	return func(a *Accumulator) {
		a.settings = settings
		a.fitter = benchmark.NewFitter(
			benchmark.WithMinSamples(settings.MinBenchmarkLaps),
			benchmark.WithDegree(settings.RegressionDegree),
			benchmark.WithEmptyDefault(settings.DefaultLapSeconds),
		)
	}
}

func NewAccumulator(opts ...AccumulatorOption) *Accumulator {
	ret := &Accumulator{}
	WithSettings(config.DefaultAnalysisSettings())(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Compute builds the equity series for all competitors of a race.
// The benchmark is fit on clean laps only (no pit, no caution, no
// traffic) but applied to every lap.
func (a *Accumulator) Compute(laps []*model.LapRecord, tctx *traffic.Context) *Result {
	clean := make([]*model.LapRecord, 0, len(laps))
	for _, l := range laps {
		f := tctx.Flags(l.CompetitorID, l.LapNo)
		if !f.Pit && !f.Caution && !f.InTraffic {
			clean = append(clean, l)
		}
	}
	models := a.fitter.Fit(laps, clean)

	rawDeltas := make(map[*model.LapRecord]float64, len(laps))
	pitDeltas := make([]float64, 0)
	for _, l := range laps {
		expected, ok := models.Expected(l.Segment(), l.LapNo)
		if !ok {
			rawDeltas[l] = math.NaN()
			continue
		}
		delta := l.LapSeconds - expected
		rawDeltas[l] = delta
		f := tctx.Flags(l.CompetitorID, l.LapNo)
		if f.Pit && !f.Caution && !math.IsNaN(delta) {
			pitDeltas = append(pitDeltas, delta)
		}
	}
	avgPitLoss := a.settings.DefaultPitLoss
	if len(pitDeltas) > 0 {
		avgPitLoss = benchmark.Median(pitDeltas)
	}

	ret := &Result{
		AvgPitLoss:   avgPitLoss,
		ByCompetitor: make(map[string][]model.EquityPoint),
	}
	for id, competitorLaps := range groupByCompetitor(laps) {
		ret.ByCompetitor[id] = a.competitorSeries(competitorLaps, rawDeltas, avgPitLoss, tctx)
	}
	return ret
}

//nolint:funlen // single pass over the laps
func (a *Accumulator) competitorSeries(
	laps []*model.LapRecord,
	rawDeltas map[*model.LapRecord]float64,
	avgPitLoss float64,
	tctx *traffic.Context,
) []model.EquityPoint {
	sort.Slice(laps, func(i, j int) bool { return laps[i].LapNo < laps[j].LapNo })

	ret := make([]model.EquityPoint, 0, len(laps))
	equity := 0.0
	prevCaution := false
	for _, l := range laps {
		f := tctx.Flags(l.CompetitorID, l.LapNo)
		change := a.equityChange(rawDeltas[l], avgPitLoss, f)
		equity += change
		ret = append(ret, model.EquityPoint{
			CompetitorID:  l.CompetitorID,
			LapNo:         l.LapNo,
			Change:        change,
			Equity:        equity,
			Failure:       a.attributeFailure(change, f),
			InTraffic:     f.InTraffic,
			UnderPressure: f.UnderPressure,
			Caution:       f.Caution,
			Restart:       prevCaution && !f.Caution,
		})
		prevCaution = f.Caution
	}
	return ret
}

// equityChange applies the fairness policy: caution laps are frozen,
// pit laps only count the excess over a typical pit stop.
func (a *Accumulator) equityChange(rawDelta, avgPitLoss float64, f traffic.Flags) float64 {
	if f.Caution && a.settings.FreezeCautionEquity {
		return 0.0
	}
	if math.IsNaN(rawDelta) {
		return 0.0
	}
	if f.Pit {
		return -(rawDelta - avgPitLoss)
	}
	return -rawDelta
}

// attributeFailure picks the first matching category; order matters.
func (a *Accumulator) attributeFailure(change float64, f traffic.Flags) model.FailureKind {
	switch {
	case f.Pit && change < -a.settings.IncidentOperational:
		return model.FailureOperational
	case !f.Pit && change < -a.settings.IncidentMajor:
		return model.FailureMajorIncident
	case f.InTraffic && change < -a.settings.IncidentTraffic:
		return model.FailureTraffic
	default:
		return model.FailureNone
	}
}

func groupByCompetitor(laps []*model.LapRecord) map[string][]*model.LapRecord {
	ret := make(map[string][]*model.LapRecord)
	for _, l := range laps {
		ret[l.CompetitorID] = append(ret[l.CompetitorID], l)
	}
	return ret
}

// Package ratio computes risk-adjusted pace metrics (Sharpe/Sortino
// style ratios) per competitor against a per-segment linear benchmark.
package ratio

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/benchmark"
)

type Engine struct {
	settings config.AnalysisSettings
	fitter   *benchmark.Fitter
}

type EngineOption func(e *Engine)

func WithSettings(settings config.AnalysisSettings) EngineOption {
	return func(e *Engine) {
		e.settings = settings
		e.fitter = benchmark.NewFitter(
			benchmark.WithMinSamples(settings.MinRatioBenchmarkLaps),
			benchmark.WithDegree(settings.RatioRegressionDegree),
			benchmark.WithEmptyDefault(settings.DefaultLapSeconds),
		)
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	ret := &Engine{}
	WithSettings(config.DefaultAnalysisSettings())(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// stintStats holds the per-stint delta statistics before aggregation.
type stintStats struct {
	sharpe  float64
	sortino float64
	mean    float64
	stddev  float64
	laps    int
}

// Compute calculates ratios over green-flag representative laps only.
// Competitors without a single qualifying stint are excluded. The
// result is sorted by Sharpe proxy, best first.
func (e *Engine) Compute(
	laps []*model.LapRecord,
	results []*model.RaceResult,
) []model.RatioResult {
	quick := e.quickLaps(laps)
	if len(quick) == 0 {
		return []model.RatioResult{}
	}
	models := e.fitter.Fit(quick, quick)

	type stintKey struct {
		competitorID string
		stint        int
	}
	deltas := make(map[stintKey][]float64)
	for _, l := range quick {
		expected, ok := models.Expected(l.Segment(), l.LapNo)
		if !ok {
			continue
		}
		k := stintKey{l.CompetitorID, l.Stint}
		deltas[k] = append(deltas[k], l.LapSeconds-expected)
	}

	perCompetitor := make(map[string][]stintStats)
	for k, ds := range deltas {
		if len(ds) < e.settings.MinStintLaps {
			continue
		}
		perCompetitor[k.competitorID] = append(perCompetitor[k.competitorID], e.stint(ds))
	}

	resultInfo := make(map[string]*model.RaceResult, len(results))
	for _, r := range results {
		resultInfo[r.CompetitorID] = r
	}

	ret := make([]model.RatioResult, 0, len(perCompetitor))
	for id, stints := range perCompetitor {
		ret = append(ret, e.aggregate(id, stints, resultInfo[id]))
	}
	e.teammateDeltas(ret)
	sort.Slice(ret, func(i, j int) bool { return ret[i].Sharpe > ret[j].Sharpe })
	return ret
}

// quickLaps filters to green-flag non-pit laps within 107% of the
// fastest green lap of the race.
func (e *Engine) quickLaps(laps []*model.LapRecord) []*model.LapRecord {
	fastest := math.Inf(1)
	for _, l := range laps {
		if !l.TrackStatus.IsCaution() && !l.InPit() && l.LapSeconds < fastest {
			fastest = l.LapSeconds
		}
	}
	ret := make([]*model.LapRecord, 0, len(laps))
	for _, l := range laps {
		if l.TrackStatus.IsCaution() || l.InPit() {
			continue
		}
		if l.LapSeconds < fastest*1.07 {
			ret = append(ret, l)
		}
	}
	return ret
}

func (e *Engine) stint(ds []float64) stintStats {
	mean := stat.Mean(ds, nil)
	stddev := stat.StdDev(ds, nil)
	ret := stintStats{mean: mean, stddev: stddev, laps: len(ds)}
	if stddev > 1e-6 {
		ret.sharpe = -mean / stddev
	}
	// downside: laps slower than the stint mean
	downside := make([]float64, 0, len(ds))
	for _, d := range ds {
		if d > mean {
			downside = append(downside, d)
		}
	}
	if len(downside) > 0 {
		downStd := stat.StdDev(downside, nil)
		if downStd > 1e-6 {
			ret.sortino = -mean / downStd
		}
	}
	return ret
}

// aggregate combines the stint ratios weighted by lap count.
func (e *Engine) aggregate(
	id string,
	stints []stintStats,
	info *model.RaceResult,
) model.RatioResult {
	sharpes := make([]float64, len(stints))
	sortinos := make([]float64, len(stints))
	means := make([]float64, len(stints))
	stddevs := make([]float64, len(stints))
	weights := make([]float64, len(stints))
	totalLaps := 0
	for i, s := range stints {
		sharpes[i] = s.sharpe
		sortinos[i] = s.sortino
		means[i] = s.mean
		stddevs[i] = s.stddev
		weights[i] = float64(s.laps)
		totalLaps += s.laps
	}
	ret := model.RatioResult{
		CompetitorID: id,
		MeanDelta:    stat.Mean(means, weights),
		StdDev:       stat.Mean(stddevs, weights),
		Sharpe:       stat.Mean(sharpes, weights),
		Sortino:      stat.Mean(sortinos, weights),
		Laps:         totalLaps,
	}
	if info != nil {
		ret.Team = info.Team
		ret.Position = info.Position
	}
	return ret
}

// teammateDeltas annotates each competitor with the distance of their
// Sharpe proxy to the team mean.
func (e *Engine) teammateDeltas(ratios []model.RatioResult) {
	teamSum := make(map[string]float64)
	teamCount := make(map[string]int)
	for i := range ratios {
		if ratios[i].Team == "" {
			continue
		}
		teamSum[ratios[i].Team] += ratios[i].Sharpe
		teamCount[ratios[i].Team]++
	}
	for i := range ratios {
		if n := teamCount[ratios[i].Team]; n > 0 {
			ratios[i].TeammateDelta = ratios[i].Sharpe - teamSum[ratios[i].Team]/float64(n)
		}
	}
}

// Package adaptability measures how stable a competitor's pace delta
// stays over the course of a race.
package adaptability

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/benchmark"
)

type Analyzer struct {
	settings config.AnalysisSettings
	fitter   *benchmark.Fitter
}

type AnalyzerOption func(a *Analyzer)

func WithSettings(settings config.AnalysisSettings) AnalyzerOption {
	return func(a *Analyzer) {
		a.settings = settings
		a.fitter = benchmark.NewFitter(
			benchmark.WithMinSamples(settings.MinRatioBenchmarkLaps),
			benchmark.WithDegree(settings.RatioRegressionDegree),
			benchmark.WithEmptyDefault(settings.DefaultLapSeconds),
		)
	}
}

func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	ret := &Analyzer{}
	WithSettings(config.DefaultAnalysisSettings())(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Compute returns the adaptability index per competitor. Competitors
// with too few green-flag laps to fill the segments are skipped.
func (a *Analyzer) Compute(laps []*model.LapRecord) []model.AdaptabilityResult {
	clean := make([]*model.LapRecord, 0, len(laps))
	for _, l := range laps {
		if !l.TrackStatus.IsCaution() && !l.InPit() {
			clean = append(clean, l)
		}
	}
	if len(clean) == 0 {
		return []model.AdaptabilityResult{}
	}
	models := a.fitter.Fit(clean, clean)

	byCompetitor := make(map[string][]*model.LapRecord)
	for _, l := range clean {
		byCompetitor[l.CompetitorID] = append(byCompetitor[l.CompetitorID], l)
	}
	ids := make([]string, 0, len(byCompetitor))
	for id := range byCompetitor {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	ret := make([]model.AdaptabilityResult, 0, len(ids))
	for _, id := range ids {
		competitorLaps := byCompetitor[id]
		if len(competitorLaps) < 2*a.settings.AdaptabilitySegments {
			continue
		}
		sort.Slice(competitorLaps, func(i, j int) bool {
			return competitorLaps[i].LapNo < competitorLaps[j].LapNo
		})
		deltas := make([]float64, 0, len(competitorLaps))
		for _, l := range competitorLaps {
			if expected, ok := models.Expected(l.Segment(), l.LapNo); ok {
				deltas = append(deltas, l.LapSeconds-expected)
			}
		}
		if len(deltas) < 2*a.settings.AdaptabilitySegments {
			continue
		}
		ret = append(ret, a.competitor(id, deltas))
	}
	return ret
}

func (a *Analyzer) competitor(id string, deltas []float64) model.AdaptabilityResult {
	paceSlope, consistencySlope := a.segmentSlopes(deltas)
	return model.AdaptabilityResult{
		CompetitorID:     id,
		Index:            -stat.StdDev(deltas, nil),
		PaceSlope:        paceSlope,
		ConsistencySlope: consistencySlope,
		Laps:             len(deltas),
	}
}

// segmentSlopes splits the delta series into equal segments (earlier
// segments get the remainder laps) and regresses the per-segment mean
// and stddev against the segment index.
func (a *Analyzer) segmentSlopes(deltas []float64) (pace, consistency float64) {
	n := a.settings.AdaptabilitySegments
	xs := make([]float64, n)
	means := make([]float64, n)
	stddevs := make([]float64, n)

	size := len(deltas) / n
	rest := len(deltas) % n
	offset := 0
	for i := 0; i < n; i++ {
		segLen := size
		if i < rest {
			segLen++
		}
		seg := deltas[offset : offset+segLen]
		offset += segLen
		xs[i] = float64(i)
		means[i] = stat.Mean(seg, nil)
		stddevs[i] = stat.StdDev(seg, nil)
	}
	_, pace = stat.LinearRegression(xs, means, nil, false)
	_, consistency = stat.LinearRegression(xs, stddevs, nil, false)
	return pace, consistency
}

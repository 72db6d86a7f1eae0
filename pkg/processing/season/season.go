// Package season folds per-race competitor summaries into seasonal
// profiles and assigns archetypes over the cohort.
package season

import (
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/archetype"
)

type Aggregator struct {
	settings   config.AnalysisSettings
	classifier *archetype.Classifier
}

type AggregatorOption func(a *Aggregator)

func WithSettings(settings config.AnalysisSettings) AggregatorOption {
	return func(a *Aggregator) {
		a.settings = settings
		a.classifier = archetype.NewClassifier(archetype.WithSettings(settings))
	}
}

func WithClassifier(classifier *archetype.Classifier) AggregatorOption {
	return func(a *Aggregator) { a.classifier = classifier }
}

func NewAggregator(opts ...AggregatorOption) *Aggregator {
	ret := &Aggregator{}
	WithSettings(config.DefaultAnalysisSettings())(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Aggregate builds the seasonal profile per competitor and classifies
// the cohort. Competitors below the participation minimum are dropped
// before the thresholds are derived.
func (a *Aggregator) Aggregate(races [][]model.CompetitorSummary) []model.SeasonProfile {
	byCompetitor := make(map[string][]model.CompetitorSummary)
	for _, race := range races {
		for _, s := range race {
			byCompetitor[s.CompetitorID] = append(byCompetitor[s.CompetitorID], s)
		}
	}

	profiles := make([]model.SeasonProfile, 0, len(byCompetitor))
	for id, summaries := range byCompetitor {
		if len(summaries) < a.settings.MinRacesForSeason {
			continue
		}
		profiles = append(profiles, a.profile(id, summaries))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CompetitorID < profiles[j].CompetitorID
	})
	a.classifier.Classify(profiles)
	return profiles
}

func (a *Aggregator) profile(
	id string,
	summaries []model.CompetitorSummary,
) model.SeasonProfile {
	mdds := lo.Map(summaries, func(s model.CompetitorSummary, _ int) float64 {
		return s.MaxDrawdown
	})
	curvatures := lo.Map(summaries, func(s model.CompetitorSummary, _ int) float64 {
		return s.Curvature
	})
	meanCurv := stat.Mean(curvatures, nil)
	return model.SeasonProfile{
		CompetitorID: id,
		Races:        len(summaries),
		// worst race defines the seasonal drawdown
		MaxDrawdown: lo.Min(mdds),
		ResetVelocity: meanOf(summaries, func(s model.CompetitorSummary) float64 {
			return s.ResetVelocity
		}),
		RestartDelta: meanOf(summaries, func(s model.CompetitorSummary) float64 {
			return s.RestartDelta
		}),
		MajorIncidentResilience: meanSkipNaN(summaries,
			func(s model.CompetitorSummary) float64 {
				return float64(s.MajorIncidentResilience)
			}),
		TrafficResilience: meanSkipNaN(summaries,
			func(s model.CompetitorSummary) float64 {
				return float64(s.TrafficResilience)
			}),
		OperationalResilience: meanSkipNaN(summaries,
			func(s model.CompetitorSummary) float64 {
				return float64(s.OperationalResilience)
			}),
		Curvature: meanCurv,
		Shape:     modalShape(summaries),
	}
}

func meanOf(
	summaries []model.CompetitorSummary,
	pick func(s model.CompetitorSummary) float64,
) float64 {
	return stat.Mean(lo.Map(summaries, func(s model.CompetitorSummary, _ int) float64 {
		return pick(s)
	}), nil)
}

// meanSkipNaN averages only the races where the metric exists; NaN when
// it never does.
func meanSkipNaN(
	summaries []model.CompetitorSummary,
	pick func(s model.CompetitorSummary) float64,
) model.NullableFloat {
	values := lo.FilterMap(summaries,
		func(s model.CompetitorSummary, _ int) (float64, bool) {
			v := pick(s)
			return v, !math.IsNaN(v)
		})
	if len(values) == 0 {
		return model.NullableFloat(math.NaN())
	}
	return model.NullableFloat(stat.Mean(values, nil))
}

func modalShape(summaries []model.CompetitorSummary) model.RecoveryShape {
	counts := lo.CountValuesBy(summaries,
		func(s model.CompetitorSummary) model.RecoveryShape { return s.Shape })
	ret := model.ShapeLinear
	best := 0
	// deterministic tie break by shape name
	for _, shape := range []model.RecoveryShape{
		model.ShapeLinear, model.ShapeU, model.ShapeV,
	} {
		if counts[shape] > best {
			best = counts[shape]
			ret = shape
		}
	}
	return ret
}

// Package archetype assigns descriptive resilience categories to
// seasonal competitor profiles.
package archetype

import (
	"math"
	"sort"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/benchmark"
)

// Thresholds are the cohort cut points used by the classifier. Note:
// max drawdown is negative, so "better" means closer to zero and the
// upper quantiles hold the more resilient competitors.
type Thresholds struct {
	MDDQ70    float64
	RVQ70     float64
	MDDMedian float64
	RVMedian  float64
	MDDQ10    float64
}

// Strategy derives classification thresholds from the cohort.
type Strategy interface {
	Thresholds(profiles []model.SeasonProfile) Thresholds
}

// PercentileStrategy adapts the cut points to the cohort distribution.
// This is the default; it keeps the categories meaningful across
// seasons with very different overall volatility.
type PercentileStrategy struct{}

func (s PercentileStrategy) Thresholds(profiles []model.SeasonProfile) Thresholds {
	mdds := make([]float64, len(profiles))
	rvs := make([]float64, len(profiles))
	for i, p := range profiles {
		mdds[i] = p.MaxDrawdown
		rvs[i] = p.ResetVelocity
	}
	sort.Float64s(mdds)
	sort.Float64s(rvs)
	return Thresholds{
		MDDQ70:    benchmark.Quantile(0.7, mdds),
		RVQ70:     benchmark.Quantile(0.7, rvs),
		MDDMedian: benchmark.Quantile(0.5, mdds),
		RVMedian:  benchmark.Quantile(0.5, rvs),
		MDDQ10:    benchmark.Quantile(0.1, mdds),
	}
}

// AbsoluteStrategy uses fixed cut points. The values are placeholders
// until calibrated against historic seasons; prefer PercentileStrategy.
type AbsoluteStrategy struct{}

func (s AbsoluteStrategy) Thresholds(_ []model.SeasonProfile) Thresholds {
	return Thresholds{
		MDDQ70:    -3.0,
		RVQ70:     0.15,
		MDDMedian: -6.0,
		RVMedian:  0.08,
		MDDQ10:    -15.0,
	}
}

type Classifier struct {
	settings config.AnalysisSettings
	strategy Strategy
}

type ClassifierOption func(c *Classifier)

func WithSettings(settings config.AnalysisSettings) ClassifierOption {
	return func(c *Classifier) { c.settings = settings }
}

func WithStrategy(strategy Strategy) ClassifierOption {
	return func(c *Classifier) { c.strategy = strategy }
}

func NewClassifier(opts ...ClassifierOption) *Classifier {
	ret := &Classifier{
		settings: config.DefaultAnalysisSettings(),
		strategy: PercentileStrategy{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Classify assigns an archetype and confidence to every profile in
// place. When nobody clears the Entropy King gates the crown is forced
// onto the competitor with the best restart delta, so the category is
// never empty.
func (c *Classifier) Classify(profiles []model.SeasonProfile) {
	if len(profiles) == 0 {
		return
	}
	th := c.strategy.Thresholds(profiles)
	for i := range profiles {
		profiles[i].Archetype = c.assign(&profiles[i], th)
	}
	c.forceKing(profiles)
	for i := range profiles {
		profiles[i].Confidence = c.confidence(&profiles[i], th)
	}
}

func (c *Classifier) assign(p *model.SeasonProfile, th Thresholds) model.Archetype {
	switch {
	case p.MaxDrawdown >= th.MDDQ70 && p.ResetVelocity >= th.RVQ70 &&
		p.RestartDelta >= 0:
		return model.ArchetypeEntropyKing
	case p.MaxDrawdown >= th.MDDMedian-c.settings.MDDBuffer:
		return model.ArchetypeSteadyOperator
	case p.ResetVelocity >= th.RVMedian+c.settings.ResetVelocityEdge:
		return model.ArchetypeElasticAggressor
	case p.MaxDrawdown < th.MDDMedian-c.settings.MDDBuffer &&
		p.ResetVelocity < th.RVMedian:
		return model.ArchetypeBrittlePerformer
	case p.MaxDrawdown <= th.MDDQ10:
		return model.ArchetypeOutlier
	default:
		return model.ArchetypeVolatile
	}
}

// forceKing relabels the competitor with the highest restart delta to
// Entropy King when nobody earned the label outright. A workaround so
// reports always have a reference competitor; cohorts with natural
// kings are left untouched.
func (c *Classifier) forceKing(profiles []model.SeasonProfile) {
	best := 0
	for i := range profiles {
		if profiles[i].Archetype == model.ArchetypeEntropyKing {
			return
		}
		if profiles[i].RestartDelta > profiles[best].RestartDelta {
			best = i
		}
	}
	profiles[best].Archetype = model.ArchetypeEntropyKing
}

// confidence measures how far inside its category a profile sits,
// scaled to (0,1]. Categories without a distance measure report 0.5.
func (c *Classifier) confidence(p *model.SeasonProfile, th Thresholds) float64 {
	const eps = 0.001
	switch p.Archetype {
	case model.ArchetypeEntropyKing:
		mddPart := (p.MaxDrawdown - th.MDDQ70) / (math.Abs(th.MDDQ70) + eps)
		rvPart := (p.ResetVelocity - th.RVQ70) / (math.Abs(th.RVQ70) + eps)
		return clamp01(0.5 + (mddPart+rvPart)/4)
	case model.ArchetypeSteadyOperator:
		margin := p.MaxDrawdown - (th.MDDMedian - c.settings.MDDBuffer)
		return clamp01(0.5 + margin/(math.Abs(th.MDDMedian)+eps)/2)
	case model.ArchetypeElasticAggressor:
		margin := p.ResetVelocity - (th.RVMedian + c.settings.ResetVelocityEdge)
		return clamp01(0.5 + margin/(math.Abs(th.RVMedian)+eps)/2)
	default:
		return 0.5
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

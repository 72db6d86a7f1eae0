// Package traffic computes inter-competitor gaps and flags the race
// context of every lap (traffic, pressure, pit, caution).
package traffic

import (
	"sort"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/benchmark"
)

// Flags describes the context of one (competitor, lap).
type Flags struct {
	GapAhead      float64
	GapBehind     float64
	InTraffic     bool
	UnderPressure bool
	Pit           bool
	Caution       bool
}

type lapKey struct {
	competitorID string
	lapNo        int
}

// Context is the per-race result of the classifier.
type Context struct {
	// Threshold is the calibrated "in traffic" gap for this race.
	Threshold  float64
	Calibrated bool
	flags      map[lapKey]Flags
}

// Flags returns the context flags of the given lap. Laps unknown to the
// classifier report clear air.
func (c *Context) Flags(competitorID string, lapNo int) Flags {
	if f, ok := c.flags[lapKey{competitorID, lapNo}]; ok {
		return f
	}
	return Flags{GapAhead: clearAirFallback, GapBehind: clearAirFallback}
}

const clearAirFallback = 10.0

type Classifier struct {
	settings config.AnalysisSettings
}

type ClassifierOption func(c *Classifier)

func WithSettings(settings config.AnalysisSettings) ClassifierOption {
	return func(c *Classifier) { c.settings = settings }
}

func NewClassifier(opts ...ClassifierOption) *Classifier {
	ret := &Classifier{settings: config.DefaultAnalysisSettings()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Analyze computes gaps for every lap of the race and calibrates the
// traffic threshold from the observed gap distribution.
func (c *Classifier) Analyze(laps []*model.LapRecord) *Context {
	ret := &Context{flags: make(map[lapKey]Flags, len(laps))}

	byLapNo := make(map[int][]*model.LapRecord)
	for _, l := range laps {
		byLapNo[l.LapNo] = append(byLapNo[l.LapNo], l)
	}

	for _, group := range byLapNo {
		sort.Slice(group, func(i, j int) bool {
			return group[i].CompletedAt < group[j].CompletedAt
		})
		for i, l := range group {
			f := Flags{
				GapAhead:  c.settings.ClearAirGap,
				GapBehind: c.settings.ClearAirGap,
				Pit:       l.InPit(),
				Caution:   l.TrackStatus.IsCaution(),
			}
			if i > 0 {
				f.GapAhead = l.CompletedAt - group[i-1].CompletedAt
			}
			if i < len(group)-1 {
				f.GapBehind = group[i+1].CompletedAt - l.CompletedAt
			}
			ret.flags[lapKey{l.CompetitorID, l.LapNo}] = f
		}
	}

	ret.Threshold, ret.Calibrated = c.calibrateThreshold(ret)

	for key, f := range ret.flags {
		f.InTraffic = f.GapAhead < ret.Threshold
		f.UnderPressure = f.GapBehind < c.settings.UnderPressureThreshold
		ret.flags[key] = f
	}
	return ret
}

// calibrateThreshold derives the traffic cutoff from the median of the
// observed following gaps. Circuits differ enough in natural following
// distance that a fixed global constant misclassifies.
func (c *Classifier) calibrateThreshold(ctx *Context) (float64, bool) {
	samples := make([]float64, 0, len(ctx.flags))
	for _, f := range ctx.flags {
		if f.Pit || f.Caution {
			continue
		}
		if f.GapAhead > c.settings.GapWindowLow && f.GapAhead < c.settings.GapWindowHigh {
			samples = append(samples, f.GapAhead)
		}
	}
	if len(samples) < c.settings.MinGapSamples {
		return c.settings.TrafficFallback, false
	}
	sort.Float64s(samples)
	threshold := benchmark.Quantile(0.5, samples)
	return clamp(threshold, c.settings.TrafficThresholdMin, c.settings.TrafficThresholdMax), true
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}

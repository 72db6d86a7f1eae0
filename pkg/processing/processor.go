// Package processing wires the analysis components into the per-race
// and per-season pipelines.
package processing

import (
	"errors"
	"sort"

	"github.com/mpapenbr/racepace-analyzer-go/log"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/config"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/adaptability"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/drawdown"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/equity"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/ratio"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/season"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/traffic"
)

// ErrNoData signals that a race has no laps to analyze.
var ErrNoData = errors.New("no lap data available")

type Processor struct {
	settings config.AnalysisSettings
	log      *log.Logger

	classifier   *traffic.Classifier
	accumulator  *equity.Accumulator
	ratioEngine  *ratio.Engine
	adaptability *adaptability.Analyzer
	aggregator   *season.Aggregator
}

type ProcessorOption func(p *Processor)

func WithSettings(settings config.AnalysisSettings) ProcessorOption {
	return func(p *Processor) {
		p.settings = settings
		p.classifier = traffic.NewClassifier(traffic.WithSettings(settings))
		p.accumulator = equity.NewAccumulator(equity.WithSettings(settings))
		p.ratioEngine = ratio.NewEngine(ratio.WithSettings(settings))
		p.adaptability = adaptability.NewAnalyzer(adaptability.WithSettings(settings))
		p.aggregator = season.NewAggregator(season.WithSettings(settings))
	}
}

func WithLogger(logger *log.Logger) ProcessorOption {
	return func(p *Processor) { p.log = logger }
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{log: log.Default().Named("processing")}
	WithSettings(config.DefaultAnalysisSettings())(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// AnalyzeRace runs the full single-race pipeline: traffic context,
// equity series, drawdown summaries, ratios and adaptability.
func (p *Processor) AnalyzeRace(
	event model.Event,
	laps []*model.LapRecord,
	results []*model.RaceResult,
) (*model.RaceAnalysis, error) {
	if len(laps) == 0 {
		return nil, ErrNoData
	}
	p.log.Info("analyzing race",
		log.String("event", event.Name),
		log.Int("laps", len(laps)))

	tctx := p.classifier.Analyze(laps)
	if !tctx.Calibrated {
		p.log.Warn("traffic threshold not calibrated, using fallback",
			log.Float64("threshold", tctx.Threshold))
	}
	eq := p.accumulator.Compute(laps, tctx)

	summaries := make([]model.CompetitorSummary, 0, len(eq.ByCompetitor))
	for _, id := range sortedCompetitors(eq) {
		// detectors carry episode state, one instance per competitor
		detector := drawdown.NewDetector(drawdown.WithSettings(p.settings))
		summaries = append(summaries, detector.Analyze(eq.ByCompetitor[id]))
	}

	return &model.RaceAnalysis{
		Event:            event,
		TrafficThreshold: tctx.Threshold,
		AvgPitLoss:       eq.AvgPitLoss,
		Equity:           eq.Points(),
		Summaries:        summaries,
		Ratios:           p.ratioEngine.Compute(laps, results),
		Adaptability:     p.adaptability.Compute(laps),
	}, nil
}

// AnalyzeSeason folds per-race analyses into seasonal profiles.
func (p *Processor) AnalyzeSeason(races []*model.RaceAnalysis) ([]model.SeasonProfile, error) {
	if len(races) == 0 {
		return nil, ErrNoData
	}
	summaries := make([][]model.CompetitorSummary, len(races))
	for i, r := range races {
		summaries[i] = r.Summaries
	}
	profiles := p.aggregator.Aggregate(summaries)
	p.log.Info("season aggregated",
		log.Int("races", len(races)),
		log.Int("profiles", len(profiles)))
	return profiles, nil
}

func sortedCompetitors(eq *equity.Result) []string {
	ids := make([]string, 0, len(eq.ByCompetitor))
	for id := range eq.ByCompetitor {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

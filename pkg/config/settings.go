package config

// AnalysisSettings collects all numeric thresholds used by the analysis
// pipeline. A value is created once (usually via DefaultAnalysisSettings,
// maybe adjusted by CLI flags) and passed to the components at construction
// time. Components never mutate it.
type AnalysisSettings struct {
	// benchmark models
	MinBenchmarkLaps      int     // below this the equity benchmark falls back to median
	MinRatioBenchmarkLaps int     // dito for the ratio engine benchmark
	RegressionDegree      int     // polynomial degree of the equity benchmark
	RatioRegressionDegree int     // polynomial degree of the ratio benchmark
	DefaultLapSeconds     float64 // used when a segment has no clean laps at all

	// traffic detection
	TrafficThresholdMin    float64 // lower clamp for the calibrated threshold
	TrafficThresholdMax    float64 // upper clamp for the calibrated threshold
	TrafficFallback        float64 // used when too few gap samples are available
	MinGapSamples          int     // required samples for calibration
	GapWindowLow           float64 // gaps below this are excluded from calibration
	GapWindowHigh          float64 // gaps above this are excluded from calibration
	ClearAirGap            float64 // sentinel gap for leader/last place
	UnderPressureThreshold float64 // gap-to-behind below this means "under pressure"

	// equity
	DefaultPitLoss      float64 // assumed pit loss when a race has no pit laps
	FreezeCautionEquity bool    // no equity change on caution laps

	// incident attribution (equity loss in seconds)
	IncidentOperational float64 // pit laps
	IncidentMajor       float64 // non-pit laps
	IncidentTraffic     float64 // laps in traffic

	// drawdown episodes
	DrawdownEntry   float64 // enter episode below this drawdown
	DrawdownExit    float64 // leave episode at or above this drawdown (hysteresis)
	MinRecoveryLaps int     // recoveries of this many laps or fewer are discarded
	CurvatureBand   float64 // |curvature| below this is considered linear

	// ratio engine
	MinStintLaps int // stints with fewer laps don't contribute

	// archetypes
	MDDBuffer         float64 // tie tolerance for max drawdown comparisons
	ResetVelocityEdge float64 // margin above median for ElasticAggressor

	// season aggregation
	MinRacesForSeason int // competitors with fewer races are dropped

	// adaptability index
	AdaptabilitySegments int // race is split into this many segments
}

//nolint:mnd // defaults in one place
func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		MinBenchmarkLaps:      8,
		MinRatioBenchmarkLaps: 5,
		RegressionDegree:      2,
		RatioRegressionDegree: 1,
		DefaultLapSeconds:     90.0,

		TrafficThresholdMin:    0.8,
		TrafficThresholdMax:    3.0,
		TrafficFallback:        1.3,
		MinGapSamples:          50,
		GapWindowLow:           0.1,
		GapWindowHigh:          9.0,
		ClearAirGap:            10.0,
		UnderPressureThreshold: 1.0,

		DefaultPitLoss:      20.0,
		FreezeCautionEquity: true,

		IncidentOperational: 2.5,
		IncidentMajor:       2.0,
		IncidentTraffic:     0.2,

		DrawdownEntry:   -0.1,
		DrawdownExit:    -0.05,
		MinRecoveryLaps: 1,
		CurvatureBand:   0.015,

		MinStintLaps: 3,

		MDDBuffer:         2.0,
		ResetVelocityEdge: 0.05,

		MinRacesForSeason: 10,

		AdaptabilitySegments: 3,
	}
}

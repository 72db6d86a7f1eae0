package model

import (
	"encoding/json"
	"math"
)

// NullableFloat is a float64 that serializes NaN as JSON null. Used for
// metrics that are undefined when no underlying sample exists.
type NullableFloat float64

func (f NullableFloat) IsNaN() bool { return math.IsNaN(float64(f)) }

func (f NullableFloat) MarshalJSON() ([]byte, error) {
	if f.IsNaN() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func (f *NullableFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NullableFloat(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = NullableFloat(v)
	return nil
}

// FailureKind attributes an equity loss to its most likely cause.
type FailureKind string

const (
	FailureNone          FailureKind = "None"
	FailureTraffic       FailureKind = "Traffic"
	FailureMajorIncident FailureKind = "Major Incident"
	FailureOperational   FailureKind = "Operational"
)

// EquityPoint is the per-lap output of the equity accumulator.
// Equity at lap N equals equity at lap N-1 plus Change at lap N.
type EquityPoint struct {
	CompetitorID  string      `json:"competitorId"`
	LapNo         int         `json:"lapNo"`
	Change        float64     `json:"change"`
	Equity        float64     `json:"equity"`
	Failure       FailureKind `json:"failure"`
	InTraffic     bool        `json:"inTraffic"`
	UnderPressure bool        `json:"underPressure"`
	Caution       bool        `json:"caution"`
	Restart       bool        `json:"restart"`
}

// RecoveryShape classifies the curvature of a drawdown recovery.
type RecoveryShape string

const (
	ShapeV      RecoveryShape = "V-Shape"
	ShapeU      RecoveryShape = "U-Shape"
	ShapeLinear RecoveryShape = "Linear"
)

// DrawdownEpisode is one detected excursion below the running equity peak.
type DrawdownEpisode struct {
	EntryLap         int           `json:"entryLap"`
	TroughLap        int           `json:"troughLap"`
	ExitLap          int           `json:"exitLap"`
	TroughEquity     float64       `json:"troughEquity"`
	ExitEquity       float64       `json:"exitEquity"`
	RecoveryVelocity float64       `json:"recoveryVelocity"`
	Curvature        float64       `json:"curvature"`
	Shape            RecoveryShape `json:"shape"`
	Failure          FailureKind   `json:"failure"`
}

// CompetitorSummary aggregates the drawdown metrics of one competitor
// for one race. The per-category resiliences are NaN when the competitor
// had no episode of that category.
type CompetitorSummary struct {
	CompetitorID            string        `json:"competitorId"`
	MaxDrawdown             float64       `json:"maxDrawdown"`
	ResetVelocity           float64       `json:"resetVelocity"`
	ResetVelocityCILow      float64       `json:"resetVelocityCiLow"`
	ResetVelocityCIHigh     float64       `json:"resetVelocityCiHigh"`
	Curvature               float64       `json:"curvature"`
	Shape                   RecoveryShape `json:"shape"`
	RestartDelta            float64       `json:"restartDelta"`
	Episodes                int           `json:"episodes"`
	MajorIncidentResilience NullableFloat `json:"majorIncidentResilience"`
	TrafficResilience       NullableFloat `json:"trafficResilience"`
	OperationalResilience   NullableFloat `json:"operationalResilience"`
}

// RatioResult holds the risk-adjusted pace metrics of one competitor
// for one race, aggregated over all qualifying stints.
type RatioResult struct {
	CompetitorID  string  `json:"competitorId"`
	Team          string  `json:"team"`
	Position      int     `json:"position"`
	MeanDelta     float64 `json:"meanDelta"`
	StdDev        float64 `json:"stdDev"`
	Sharpe        float64 `json:"sharpe"`
	Sortino       float64 `json:"sortino"`
	Laps          int     `json:"laps"`
	TeammateDelta float64 `json:"teammateDelta"`
}

// AdaptabilityResult captures pace stability and its evolution over the race.
type AdaptabilityResult struct {
	CompetitorID     string  `json:"competitorId"`
	Index            float64 `json:"index"`
	PaceSlope        float64 `json:"paceSlope"`
	ConsistencySlope float64 `json:"consistencySlope"`
	Laps             int     `json:"laps"`
}

// RaceAnalysis is the combined output of a single race computation.
type RaceAnalysis struct {
	Event            Event                `json:"event"`
	TrafficThreshold float64              `json:"trafficThreshold"`
	AvgPitLoss       float64              `json:"avgPitLoss"`
	Equity           []EquityPoint        `json:"equity"`
	Summaries        []CompetitorSummary  `json:"summaries"`
	Ratios           []RatioResult        `json:"ratios"`
	Adaptability     []AdaptabilityResult `json:"adaptability"`
}

// Archetype is the descriptive seasonal category of a competitor.
type Archetype string

const (
	ArchetypeEntropyKing      Archetype = "Entropy King"
	ArchetypeSteadyOperator   Archetype = "Steady Operator"
	ArchetypeElasticAggressor Archetype = "Elastic Aggressor"
	ArchetypeBrittlePerformer Archetype = "Brittle Performer"
	ArchetypeOutlier          Archetype = "Outlier / Critical Fail"
	ArchetypeVolatile         Archetype = "Volatile Performer"
)

// SeasonProfile is the aggregated seasonal summary of one competitor
// including the assigned archetype.
type SeasonProfile struct {
	CompetitorID            string        `json:"competitorId"`
	Races                   int           `json:"races"`
	MaxDrawdown             float64       `json:"maxDrawdown"`
	ResetVelocity           float64       `json:"resetVelocity"`
	RestartDelta            float64       `json:"restartDelta"`
	MajorIncidentResilience NullableFloat `json:"majorIncidentResilience"`
	TrafficResilience       NullableFloat `json:"trafficResilience"`
	OperationalResilience   NullableFloat `json:"operationalResilience"`
	Curvature               float64       `json:"curvature"`
	Shape                   RecoveryShape `json:"shape"`
	Archetype               Archetype     `json:"archetype"`
	Confidence              float64       `json:"confidence"`
}

package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/testsupport/basedata"
)

func TestProcessor_NoData(t *testing.T) {
	proc := NewProcessor()
	_, err := proc.AnalyzeRace(basedata.SampleEvent(), nil, nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = proc.AnalyzeSeason(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestProcessor_AnalyzeRace(t *testing.T) {
	laps := basedata.Race(4, 25, 90.0, 0.3)
	results := basedata.SampleResults(4)

	proc := NewProcessor()
	analysis, err := proc.AnalyzeRace(basedata.SampleEvent(), laps, results)
	assert.NoError(t, err)

	assert.Equal(t, basedata.SampleEvent(), analysis.Event)
	assert.Greater(t, analysis.TrafficThreshold, 0.0)
	assert.Len(t, analysis.Equity, 4*25)
	assert.Len(t, analysis.Summaries, 4)
	assert.Len(t, analysis.Ratios, 4)
	assert.Len(t, analysis.Adaptability, 4)

	// equity identity per competitor
	byCompetitor := make(map[string][]model.EquityPoint)
	for _, p := range analysis.Equity {
		byCompetitor[p.CompetitorID] = append(byCompetitor[p.CompetitorID], p)
	}
	for id, points := range byCompetitor {
		sum := 0.0
		for _, p := range points {
			sum += p.Change
			assert.InDelta(t, sum, p.Equity, 1e-9, id)
		}
	}
}

func TestProcessor_AnalyzeSeason(t *testing.T) {
	proc := NewProcessor()

	races := make([]*model.RaceAnalysis, 0, 12)
	for i := 0; i < 12; i++ {
		laps := basedata.Race(4, 25, 90.0, 0.3)
		analysis, err := proc.AnalyzeRace(basedata.SampleEvent(), laps,
			basedata.SampleResults(4))
		assert.NoError(t, err)
		races = append(races, analysis)
	}

	profiles, err := proc.AnalyzeSeason(races)
	assert.NoError(t, err)
	assert.Len(t, profiles, 4)
	for _, p := range profiles {
		assert.Equal(t, 12, p.Races)
		assert.NotEmpty(t, p.Archetype)
		assert.LessOrEqual(t, p.MaxDrawdown, 0.0)
	}
}

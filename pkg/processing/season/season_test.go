package season

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
)

func summary(id string, mdd, rv float64) model.CompetitorSummary {
	return model.CompetitorSummary{
		CompetitorID:            id,
		MaxDrawdown:             mdd,
		ResetVelocity:           rv,
		Shape:                   model.ShapeLinear,
		MajorIncidentResilience: model.NullableFloat(math.NaN()),
		TrafficResilience:       model.NullableFloat(math.NaN()),
		OperationalResilience:   model.NullableFloat(math.NaN()),
	}
}

func seasonOf(perRace func(race int) []model.CompetitorSummary, races int,
) [][]model.CompetitorSummary {
	ret := make([][]model.CompetitorSummary, races)
	for i := range ret {
		ret[i] = perRace(i)
	}
	return ret
}

func TestAggregator_ParticipationFilter(t *testing.T) {
	// car-1 runs all 12 races, car-2 only 5
	races := seasonOf(func(race int) []model.CompetitorSummary {
		ret := []model.CompetitorSummary{summary("car-1", -2.0, 0.1)}
		if race < 5 {
			ret = append(ret, summary("car-2", -1.0, 0.2))
		}
		return ret
	}, 12)

	profiles := NewAggregator().Aggregate(races)
	assert.Len(t, profiles, 1)
	assert.Equal(t, "car-1", profiles[0].CompetitorID)
	assert.Equal(t, 12, profiles[0].Races)
}

func TestAggregator_WorstRaceDefinesDrawdown(t *testing.T) {
	races := seasonOf(func(race int) []model.CompetitorSummary {
		mdd := -1.0
		if race == 7 {
			mdd = -9.5
		}
		return []model.CompetitorSummary{summary("car-1", mdd, 0.1)}
	}, 12)

	profiles := NewAggregator().Aggregate(races)
	assert.Len(t, profiles, 1)
	assert.InDelta(t, -9.5, profiles[0].MaxDrawdown, 1e-9)
}

func TestAggregator_ResilienceSkipsMissingRaces(t *testing.T) {
	races := seasonOf(func(race int) []model.CompetitorSummary {
		s := summary("car-1", -2.0, 0.1)
		// traffic episodes in only two races
		if race == 0 {
			s.TrafficResilience = model.NullableFloat(0.2)
		}
		if race == 1 {
			s.TrafficResilience = model.NullableFloat(0.4)
		}
		return []model.CompetitorSummary{s}
	}, 12)

	profiles := NewAggregator().Aggregate(races)
	assert.InDelta(t, 0.3, float64(profiles[0].TrafficResilience), 1e-9)
	assert.True(t, profiles[0].MajorIncidentResilience.IsNaN())
}

func TestAggregator_ModalShape(t *testing.T) {
	races := seasonOf(func(race int) []model.CompetitorSummary {
		s := summary("car-1", -2.0, 0.1)
		if race%3 == 0 {
			s.Shape = model.ShapeV
		} else {
			s.Shape = model.ShapeU
		}
		return []model.CompetitorSummary{s}
	}, 12)

	profiles := NewAggregator().Aggregate(races)
	assert.Equal(t, model.ShapeU, profiles[0].Shape)
}

func TestAggregator_ArchetypesAssigned(t *testing.T) {
	races := seasonOf(func(race int) []model.CompetitorSummary {
		return []model.CompetitorSummary{
			summary("car-1", -1.0, 0.3),
			summary("car-2", -8.0, 0.05),
			summary("car-3", -3.0, 0.1),
		}
	}, 12)

	profiles := NewAggregator().Aggregate(races)
	assert.Len(t, profiles, 3)
	for _, p := range profiles {
		assert.NotEmpty(t, p.Archetype)
	}
}

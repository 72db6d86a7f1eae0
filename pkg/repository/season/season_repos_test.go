//nolint:errcheck //ok for this test code
package season

import (
	"context"
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	tcpg "github.com/mpapenbr/racepace-analyzer-go/testsupport/tcpostgres"
)

func initTestDb() *pgxpool.Pool {
	pool := tcpg.SetupTestDb()
	tcpg.ClearAllTables(pool)
	return pool
}

func sampleProfiles() []model.SeasonProfile {
	return []model.SeasonProfile{
		{
			CompetitorID:      "car-1",
			Races:             12,
			MaxDrawdown:       -4.5,
			ResetVelocity:     0.20,
			RestartDelta:      0.1,
			TrafficResilience: model.NullableFloat(math.NaN()),
			Archetype:         model.ArchetypeSteadyOperator,
			Confidence:        0.6,
		},
		{
			CompetitorID:  "car-2",
			Races:         11,
			MaxDrawdown:   -12.0,
			ResetVelocity: 0.05,
			Archetype:     model.ArchetypeBrittlePerformer,
			Confidence:    0.5,
		},
	}
}

func TestSeasonRepository_UpsertAndLoad(t *testing.T) {
	db := initTestDb()
	ctx := context.Background()

	entry, err := Upsert(ctx, db,
		&model.DbSeasonProfile{Year: 2025, Data: sampleProfiles()})
	assert.NoError(t, err)
	assert.Greater(t, entry.ID, 0)

	loaded, err := LoadByYear(ctx, db, 2025)
	assert.NoError(t, err)
	assert.Len(t, loaded.Data, 2)
	assert.Equal(t, "car-1", loaded.Data[0].CompetitorID)
	assert.Equal(t, model.ArchetypeSteadyOperator, loaded.Data[0].Archetype)
	// NaN resilience survives the jsonb round trip as null
	assert.True(t, loaded.Data[0].TrafficResilience.IsNaN())
}

func TestSeasonRepository_UpsertReplaces(t *testing.T) {
	db := initTestDb()
	ctx := context.Background()

	first, err := Upsert(ctx, db,
		&model.DbSeasonProfile{Year: 2025, Data: sampleProfiles()})
	assert.NoError(t, err)

	second, err := Upsert(ctx, db,
		&model.DbSeasonProfile{Year: 2025, Data: sampleProfiles()[:1]})
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	loaded, err := LoadByYear(ctx, db, 2025)
	assert.NoError(t, err)
	assert.Len(t, loaded.Data, 1)
}

func TestSeasonRepository_Delete(t *testing.T) {
	db := initTestDb()
	ctx := context.Background()

	_, err := Upsert(ctx, db,
		&model.DbSeasonProfile{Year: 2025, Data: sampleProfiles()})
	assert.NoError(t, err)

	num, err := DeleteByYear(ctx, db, 2025)
	assert.NoError(t, err)
	assert.Equal(t, 1, num)

	_, err = LoadByYear(ctx, db, 2025)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

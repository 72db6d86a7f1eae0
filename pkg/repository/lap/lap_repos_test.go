//nolint:funlen,errcheck //ok for this test code
package lap

import (
	"context"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	eventrepos "github.com/mpapenbr/racepace-analyzer-go/pkg/repository/event"
	"github.com/mpapenbr/racepace-analyzer-go/testsupport/basedata"
	tcpg "github.com/mpapenbr/racepace-analyzer-go/testsupport/tcpostgres"
)

func initTestDb() *pgxpool.Pool {
	pool := tcpg.SetupTestDb()
	tcpg.ClearAllTables(pool)
	return pool
}

func createSampleEvent(db *pgxpool.Pool) *model.DbEvent {
	event := &model.DbEvent{Name: "testrace", Year: 2025}
	err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
		_, err := eventrepos.Create(tx.Conn(), event)
		return err
	})
	if err != nil {
		log.Fatalf("createSampleEvent: %v\n", err)
	}
	return event
}

func TestLapRepository_CreateAndLoad(t *testing.T) {
	db := initTestDb()
	event := createSampleEvent(db)

	laps := basedata.Race(2, 5, 90.0, 0.5)
	num, err := Create(db, event.ID, laps)
	assert.NoError(t, err)
	assert.Equal(t, 10, num)

	loaded, err := LoadByEventId(db, event.ID)
	assert.NoError(t, err)
	assert.Len(t, loaded, 10)

	// order is per competitor, by lap number
	assert.Equal(t, "car-1", loaded[0].CompetitorID)
	assert.Equal(t, 1, loaded[0].LapNo)
	assert.Equal(t, model.StatusGreen, loaded[0].TrackStatus)
	// laps round-trip without loss
	if diff := cmp.Diff(laps[0], loaded[0]); diff != "" {
		t.Errorf("lap mismatch (-want +got):\n%s", diff)
	}
}

func TestLapRepository_Delete(t *testing.T) {
	db := initTestDb()
	event := createSampleEvent(db)

	_, err := Create(db, event.ID, basedata.Race(2, 5, 90.0, 0.5))
	assert.NoError(t, err)

	num, err := DeleteByEventId(db, event.ID)
	assert.NoError(t, err)
	assert.Equal(t, 10, num)
}

func TestLapRepository_Results(t *testing.T) {
	db := initTestDb()
	event := createSampleEvent(db)

	num, err := CreateResults(db, event.ID, basedata.SampleResults(3))
	assert.NoError(t, err)
	assert.Equal(t, 3, num)

	loaded, err := LoadResultsByEventId(db, event.ID)
	assert.NoError(t, err)
	assert.Len(t, loaded, 3)
	assert.Equal(t, "car-1", loaded[0].CompetitorID)
	assert.Equal(t, "team-1", loaded[0].Team)
	assert.Equal(t, 1, loaded[0].Position)
}

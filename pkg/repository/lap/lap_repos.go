package lap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository"
)

func Create(
	conn repository.Querier,
	eventID int,
	laps []*model.LapRecord,
) (int, error) {
	rows := 0
	for _, l := range laps {
		_, err := conn.Exec(context.Background(), `
		insert into lap (
			event_id, competitor_id, lap_no, stint, compound, lap_seconds,
			pit_in, pit_out, track_status, position, completed_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, eventID, l.CompetitorID, l.LapNo, l.Stint, l.Compound, l.LapSeconds,
			l.PitIn, l.PitOut, l.TrackStatus, l.Position, l.CompletedAt)
		if err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

func LoadByEventId(
	conn repository.Querier,
	eventID int,
) (ret []*model.LapRecord, err error) {
	var rows pgx.Rows
	if rows, err = conn.Query(context.Background(),
		fmt.Sprintf("%s where event_id=$1 order by competitor_id,lap_no", selector),
		eventID); err != nil {
		return nil, err
	}

	ret, err = pgx.CollectRows[*model.LapRecord](rows,
		func(row pgx.CollectableRow) (*model.LapRecord, error) {
			return pgx.RowToAddrOfStructByPos[model.LapRecord](row)
		})
	return ret, err
}

// deletes all laps of an event, returns number of rows deleted.
func DeleteByEventId(conn repository.Querier, eventID int) (int, error) {
	cmdTag, err := conn.Exec(context.Background(),
		"delete from lap where event_id=$1", eventID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func CreateResults(
	conn repository.Querier,
	eventID int,
	results []*model.RaceResult,
) (int, error) {
	rows := 0
	for _, r := range results {
		_, err := conn.Exec(context.Background(), `
		insert into race_result (event_id, competitor_id, team, position)
		values ($1,$2,$3,$4)
		`, eventID, r.CompetitorID, r.Team, r.Position)
		if err != nil {
			return rows, err
		}
		rows++
	}
	return rows, nil
}

func LoadResultsByEventId(
	conn repository.Querier,
	eventID int,
) (ret []*model.RaceResult, err error) {
	var rows pgx.Rows
	if rows, err = conn.Query(context.Background(), `
	select competitor_id, team, position from race_result
	where event_id=$1 order by position`,
		eventID); err != nil {
		return nil, err
	}

	ret, err = pgx.CollectRows[*model.RaceResult](rows,
		func(row pgx.CollectableRow) (*model.RaceResult, error) {
			return pgx.RowToAddrOfStructByPos[model.RaceResult](row)
		})
	return ret, err
}

// little helper
const selector = string(`
select competitor_id, lap_no, stint, compound, lap_seconds,
pit_in, pit_out, track_status, position, completed_at from lap
`)

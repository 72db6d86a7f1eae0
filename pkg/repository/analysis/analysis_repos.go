package analysis

import (
	"context"
	"fmt"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository"
)

func Create(
	ctx context.Context,
	conn repository.Querier,
	entry *model.DbAnalysis,
) (*model.DbAnalysis, error) {
	row := conn.QueryRow(ctx, `
	insert into analysis (event_id, data)
	values ($1,$2)
	returning id
	`, entry.EventID, entry.Data)

	if err := row.Scan(&entry.ID); err != nil {
		return nil, err
	}

	return entry, nil
}

// deletes all entries for an event with eventID
func DeleteByEventId(
	ctx context.Context,
	conn repository.Querier,
	eventID int,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from analysis where event_id=$1", eventID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func LoadByEventId(
	ctx context.Context,
	conn repository.Querier,
	eventID int,
) (*model.DbAnalysis, error) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where event_id=$1", selector), eventID)
	var item model.DbAnalysis
	if err := row.Scan(&item.ID, &item.EventID, &item.Data); err != nil {
		return nil, err
	}
	return &item, nil
}

func Update(
	ctx context.Context,
	conn repository.Querier,
	entry *model.DbAnalysis,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update analysis set data=$1 where event_id=$2",
		entry.Data, entry.EventID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// Upsert writes the analysis of an event, replacing an existing one.
func Upsert(
	ctx context.Context,
	conn repository.Querier,
	entry *model.DbAnalysis,
) (*model.DbAnalysis, error) {
	row := conn.QueryRow(ctx, `
	insert into analysis (event_id, data)
	values ($1,$2)
	on conflict (event_id) do update set data=excluded.data
	returning id
	`, entry.EventID, entry.Data)

	if err := row.Scan(&entry.ID); err != nil {
		return nil, err
	}

	return entry, nil
}

// little helper
const selector = string(`
select id, event_id, data from analysis
`)

package season

import (
	"context"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository"
)

// Upsert writes the seasonal profiles of a year, replacing existing ones.
func Upsert(
	ctx context.Context,
	conn repository.Querier,
	entry *model.DbSeasonProfile,
) (*model.DbSeasonProfile, error) {
	row := conn.QueryRow(ctx, `
	insert into season_profile (year, data)
	values ($1,$2)
	on conflict (year) do update set data=excluded.data
	returning id
	`, entry.Year, entry.Data)

	if err := row.Scan(&entry.ID); err != nil {
		return nil, err
	}

	return entry, nil
}

func LoadByYear(
	ctx context.Context,
	conn repository.Querier,
	year int,
) (*model.DbSeasonProfile, error) {
	row := conn.QueryRow(ctx,
		"select id, year, data from season_profile where year=$1", year)
	var item model.DbSeasonProfile
	if err := row.Scan(&item.ID, &item.Year, &item.Data); err != nil {
		return nil, err
	}
	return &item, nil
}

// deletes the profiles of a year, returns number of rows deleted.
func DeleteByYear(ctx context.Context, conn repository.Querier, year int) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"delete from season_profile where year=$1", year)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

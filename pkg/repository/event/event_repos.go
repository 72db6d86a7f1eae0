package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository"
)

func Create(conn repository.Querier, event *model.DbEvent) (*model.DbEvent, error) {
	row := conn.QueryRow(context.Background(), `
	insert into event (name, year)
	values ($1,$2)
	returning id,record_stamp
	`, event.Name, event.Year)

	if err := row.Scan(&event.ID, &event.RecordStamp); err != nil {
		return nil, err
	}

	return event, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteById(conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(context.Background(), "delete from event where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func LoadById(conn repository.Querier, id int) (*model.DbEvent, error) {
	row := conn.QueryRow(context.Background(),
		fmt.Sprintf("%s where id=$1", selector), id)
	var event model.DbEvent
	if err := scan(&event, row); err != nil {
		return nil, err
	}
	return &event, nil
}

func LoadByNameAndYear(
	conn repository.Querier,
	name string,
	year int,
) (*model.DbEvent, error) {
	row := conn.QueryRow(context.Background(),
		fmt.Sprintf("%s where name=$1 and year=$2", selector), name, year)
	var event model.DbEvent
	if err := scan(&event, row); err != nil {
		return nil, err
	}
	return &event, nil
}

func LoadByYear(conn repository.Querier, year int) (ret []*model.DbEvent, err error) {
	var rows pgx.Rows
	if rows, err = conn.Query(context.Background(),
		fmt.Sprintf("%s where year=$1 order by record_stamp asc", selector),
		year); err != nil {
		return nil, err
	}

	ret, err = pgx.CollectRows[*model.DbEvent](rows,
		func(row pgx.CollectableRow) (*model.DbEvent, error) {
			return pgx.RowToAddrOfStructByPos[model.DbEvent](row)
		})
	return ret, err
}

func LoadAll(conn repository.Querier) (ret []*model.DbEvent, err error) {
	var rows pgx.Rows
	if rows, err = conn.Query(context.Background(),
		fmt.Sprintf("%s order by record_stamp desc ", selector)); err != nil {
		return nil, err
	}

	ret, err = pgx.CollectRows[*model.DbEvent](rows,
		func(row pgx.CollectableRow) (*model.DbEvent, error) {
			return pgx.RowToAddrOfStructByPos[model.DbEvent](row)
		})
	return ret, err
}

// little helper
const selector = string(`
select id,name,year,record_stamp from event
`)

func scan(e *model.DbEvent, row pgx.Row) error {
	return row.Scan(&e.ID, &e.Name, &e.Year, &e.RecordStamp)
}

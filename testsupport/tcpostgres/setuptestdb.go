//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/db/migrate"
	database "github.com/mpapenbr/racepace-analyzer-go/pkg/db/postgres"
)

// create a pg connection pool for the racepace testdatabase
func SetupTestDb() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("racepace-analyzer-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}

	pool := database.InitWithURL(dbURL)
	return pool
}

// uses the database from TESTDB_URL (useful on CI where a service
// container is already running)
func SetupExternalTestDb() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDb(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearLapTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from lap")
}

func ClearRaceResultTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from race_result")
}

func ClearAnalysisTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from analysis")
}

func ClearSeasonProfileTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from season_profile")
}

func ClearEventTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from event")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearSeasonProfileTable(pool)
	ClearAnalysisTable(pool)
	ClearRaceResultTable(pool)
	ClearLapTable(pool)
	ClearEventTable(pool)
}

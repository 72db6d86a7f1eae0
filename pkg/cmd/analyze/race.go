package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/jackc/pgx/v5"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racepace-analyzer-go/log"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/analysis"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/event"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/lap"
)

var raceYear int

func newRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race <eventId or name>",
		Short: "analyzes a single race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeRace(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&raceYear, "year", 0,
		"event year (required when selecting the event by name)")
	return cmd
}

//nolint:funlen // sequential workflow
func analyzeRace(ctx context.Context, eventArg string) error {
	rt, err := setupRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	dbEvent, err := resolveEvent(rt, eventArg)
	if err != nil {
		return err
	}

	laps, err := lap.LoadByEventId(rt.pool, dbEvent.ID)
	if err != nil {
		return err
	}
	results, err := lap.LoadResultsByEventId(rt.pool, dbEvent.ID)
	if err != nil {
		return err
	}

	proc := processing.NewProcessor()
	raceAnalysis, err := proc.AnalyzeRace(dbEvent.Event(), laps, results)
	if err != nil {
		if errors.Is(err, processing.ErrNoData) {
			log.Error("event has no lap data", log.String("event", dbEvent.Name))
		}
		return err
	}

	if _, err := analysis.Upsert(ctx, rt.pool, &model.DbAnalysis{
		EventID: dbEvent.ID,
		Data:    *raceAnalysis,
	}); err != nil {
		return err
	}
	if rt.publisher != nil {
		if err := rt.publisher.PublishRace(raceAnalysis); err != nil {
			log.Warn("could not publish analysis", log.ErrorField(err))
		}
	}
	return printRace(raceAnalysis)
}

func resolveEvent(rt *runtime, eventArg string) (*model.DbEvent, error) {
	if id, err := strconv.Atoi(eventArg); err == nil {
		ret, err := event.LoadById(rt.pool, id)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no event with id %d", id)
		}
		return ret, err
	}
	if raceYear == 0 {
		return nil, errors.New("selecting an event by name requires --year")
	}
	ret, err := event.LoadByNameAndYear(rt.pool, eventArg, raceYear)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("no event %s in %d", eventArg, raceYear)
	}
	return ret, err
}

func printRace(a *model.RaceAnalysis) error {
	if useJSONOutput() {
		fmt.Fprintln(os.Stdout, oj.JSON(a, 2))
		return nil
	}
	fmt.Printf("%s (%d)\n", a.Event.Name, a.Event.Year)
	fmt.Printf("traffic threshold: %.2fs  pit loss: %.1fs\n\n",
		a.TrafficThreshold, a.AvgPitLoss)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Competitor\tMaxDD\tResetVel\tShape\tEpisodes\tRestart")
	for i := range a.Summaries {
		s := &a.Summaries[i]
		fmt.Fprintf(w, "%s\t%.2f\t%.3f\t%s\t%d\t%.3f\n",
			s.CompetitorID, s.MaxDrawdown, s.ResetVelocity, s.Shape,
			s.Episodes, s.RestartDelta)
	}
	return w.Flush()
}

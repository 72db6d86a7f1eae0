package analyze

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racepace-analyzer-go/log"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/analysis"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/event"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/lap"
	seasonRepos "github.com/mpapenbr/racepace-analyzer-go/pkg/repository/season"
)

func newSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season <year>",
		Short: "analyzes all races of a season and assigns archetypes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year: %s", args[0])
			}
			return analyzeSeason(cmd.Context(), year)
		},
	}
	return cmd
}

//nolint:funlen // sequential workflow
func analyzeSeason(ctx context.Context, year int) error {
	rt, err := setupRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.shutdown()

	events, err := event.LoadByYear(rt.pool, year)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no events found for %d", year)
	}

	proc := processing.NewProcessor()
	races := make([]*model.RaceAnalysis, 0, len(events))
	for _, dbEvent := range events {
		laps, err := lap.LoadByEventId(rt.pool, dbEvent.ID)
		if err != nil {
			return err
		}
		results, err := lap.LoadResultsByEventId(rt.pool, dbEvent.ID)
		if err != nil {
			return err
		}
		raceAnalysis, err := proc.AnalyzeRace(dbEvent.Event(), laps, results)
		if err != nil {
			log.Warn("skipping event",
				log.String("event", dbEvent.Name),
				log.ErrorField(err))
			continue
		}
		if _, err := analysis.Upsert(ctx, rt.pool, &model.DbAnalysis{
			EventID: dbEvent.ID,
			Data:    *raceAnalysis,
		}); err != nil {
			return err
		}
		races = append(races, raceAnalysis)
	}

	profiles, err := proc.AnalyzeSeason(races)
	if err != nil {
		return err
	}
	if _, err := seasonRepos.Upsert(ctx, rt.pool, &model.DbSeasonProfile{
		Year: year,
		Data: profiles,
	}); err != nil {
		return err
	}
	if rt.publisher != nil {
		if err := rt.publisher.PublishSeason(year, profiles); err != nil {
			log.Warn("could not publish season profiles", log.ErrorField(err))
		}
	}
	return printSeason(year, profiles)
}

func printSeason(year int, profiles []model.SeasonProfile) error {
	if useJSONOutput() {
		fmt.Fprintln(os.Stdout, oj.JSON(profiles, 2))
		return nil
	}
	fmt.Printf("Season %d (%d competitors)\n\n", year, len(profiles))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Competitor\tRaces\tMaxDD\tResetVel\tArchetype\tConfidence")
	for i := range profiles {
		p := &profiles[i]
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3f\t%s\t%.2f\n",
			p.CompetitorID, p.Races, p.MaxDrawdown, p.ResetVelocity,
			p.Archetype, p.Confidence)
	}
	return w.Flush()
}

package analyze

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/racepace-analyzer-go/pkg/model"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/processing/ratio"
	"github.com/mpapenbr/racepace-analyzer-go/pkg/repository/lap"
)

func newRatiosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratios <eventId or name>",
		Short: "computes risk-adjusted pace ratios for a single race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyzeRatios(cmd.Context(), args[0])
		},
	}
	cmd.Flags().IntVar(&raceYear, "year", 0,
		"event year (required when selecting the event by name)")
	return cmd
}

func analyzeRatios(ctx context.Context, eventArg string) error {
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

	engine := ratio.NewEngine()
	ratios := engine.Compute(laps, results)
	return printRatios(dbEvent, ratios)
}

func printRatios(dbEvent *model.DbEvent, ratios []model.RatioResult) error {
	if useJSONOutput() {
		fmt.Fprintln(os.Stdout, oj.JSON(ratios, 2))
		return nil
	}
	fmt.Printf("%s (%d)\n\n", dbEvent.Name, dbEvent.Year)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Competitor\tTeam\tSharpe\tSortino\tMeanDelta\tLaps\tTeammate")
	for i := range ratios {
		r := &ratios[i]
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%.3f\t%d\t%+.3f\n",
			r.CompetitorID, r.Team, r.Sharpe, r.Sortino, r.MeanDelta,
			r.Laps, r.TeammateDelta)
	}
	return w.Flush()
}

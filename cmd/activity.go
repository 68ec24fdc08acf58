package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/charts"
)

var (
	activityDays int
	activityHTML string
)

// activityCmd draws the calendar heatmap of a cached player.
var activityCmd = &cobra.Command{
	Use:   "activity <account-id>",
	Short: "Show a player's daily activity heatmap",
	Long: `Bucket the filtered matches by local calendar day and draw the trailing
window as rows of seven days, shaded by the share of the busiest day.

With --html the same window is also written as an interactive stacked
wins/losses bar chart.`,
	Args: cobra.ExactArgs(1),
	RunE: runActivity,
}

func init() {
	addFilterFlags(activityCmd)
	activityCmd.Flags().IntVar(&activityDays, "days", 0, "window length in days before today (default from config)")
	activityCmd.Flags().StringVar(&activityHTML, "html", "", "also write an HTML chart to this path")
}

func runActivity(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	criteria, err := filterCriteria(cmd)
	if err != nil {
		return err
	}
	days := cfg.View.ActivityWindowDays
	if activityDays > 0 {
		days = activityDays
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	v, err := loadPlayerView(db, accountID, criteria, now)
	if err != nil {
		return err
	}
	if v == nil {
		notFetched(os.Stdout, accountID)
		return nil
	}
	printActivityView(os.Stdout, v, days, now)

	if activityHTML == "" {
		return nil
	}
	cc := charts.DefaultChartConfig()
	cc.Title = fmt.Sprintf("Account %d activity", accountID)
	cc.Subtitle = fmt.Sprintf("%s to %s", aggregator.DayKey(now.AddDate(0, 0, -days)), aggregator.DayKey(now))
	grid := aggregator.ActivityGrid(v.matches, days, now)
	if err := charts.RenderActivityFile(activityHTML, grid, aggregator.ActivityWeeks(days, now), cc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nChart written to %s\n", activityHTML)
	return nil
}

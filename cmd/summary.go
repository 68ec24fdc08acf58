package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/report"
)

var (
	summaryTeammates bool
	summaryTop       int
)

// summaryCmd prints the summary card and top heroes for a cached player.
var summaryCmd = &cobra.Command{
	Use:   "summary <account-id>",
	Short: "Show win rate and most played heroes for a player",
	Long: `Display total matches, wins, losses, win rate and first match date for the
filtered match set, followed by the most played heroes.

With --teammates the player's most frequent allies are also requested live
from the dashboard backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryTeammates, "teammates", false, "also show frequent teammates (requires the backend)")
	summaryCmd.Flags().IntVar(&summaryTop, "top", 0, "number of heroes to show (default from config)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	criteria, err := filterCriteria(cmd)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	v, err := loadPlayerView(db, accountID, criteria, time.Now())
	if err != nil {
		return err
	}
	if v == nil {
		notFetched(os.Stdout, accountID)
		return nil
	}

	top := cfg.View.TopHeroes
	if summaryTop > 0 {
		top = summaryTop
	}
	printSummaryView(os.Stdout, v, top)

	if !summaryTeammates {
		return nil
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	mates, err := client.GetTeammates(cmd.Context(), accountID, 50)
	if err != nil {
		return fmt.Errorf("fetch teammates: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Teammates ---\n\n")
	report.PrintTeammates(os.Stdout, aggregator.TopTeammates(mates, 10))
	return nil
}

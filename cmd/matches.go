package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/dashapi"
	"github.com/pable/go-dota-metrics/internal/report"
)

var (
	matchesLimit  int
	matchesGlobal bool
	matchesSort   string
	matchesAsc    bool
)

// matchesCmd lists a cached player's filtered match history or, with
// --global, every match the backend has ingested.
var matchesCmd = &cobra.Command{
	Use:   "matches [account-id]",
	Short: "List matches, newest first",
	Long: `Without --global, list a cached player's filtered matches, newest first.

With --global, request the match list from the dashboard backend and sort it
by one of: id, start, duration, mode, winner, score.

Examples:
  dotametrics matches 239896166 --exclude-turbo -n 50
  dotametrics matches --global --sort score --asc`,
	Args: cobra.RangeArgs(0, 1),
	RunE: runMatches,
}

func init() {
	addFilterFlags(matchesCmd)
	matchesCmd.Flags().IntVarP(&matchesLimit, "limit", "n", 20, "rows to show (0 for all)")
	matchesCmd.Flags().BoolVar(&matchesGlobal, "global", false, "show the backend's match list")
	matchesCmd.Flags().StringVar(&matchesSort, "sort", string(aggregator.MatchSortByStart), "sort key for --global")
	matchesCmd.Flags().BoolVar(&matchesAsc, "asc", false, "ascending order for --global")
}

func runMatches(cmd *cobra.Command, args []string) error {
	if matchesGlobal {
		client, err := newClient()
		if err != nil {
			return err
		}
		return printGlobalMatches(cmd.Context(), os.Stdout, client, matchesSort, matchesAsc, matchesLimit)
	}
	if len(args) == 0 {
		return fmt.Errorf("account id required unless --global is set")
	}
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
	printMatchesView(os.Stdout, v, matchesLimit)
	return nil
}

func printGlobalMatches(ctx context.Context, w io.Writer, client *dashapi.Client, sortKey string, asc bool, limit int) error {
	key, err := aggregator.ParseMatchSortKey(sortKey)
	if err != nil {
		return err
	}
	rows, err := client.ListMatches(ctx)
	if err != nil {
		return fmt.Errorf("fetch matches: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no matches)")
		return nil
	}
	sorted := aggregator.SortMatchOverviews(rows, key, asc)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	report.PrintMatchOverviews(w, sorted)
	if len(sorted) < len(rows) {
		fmt.Fprintf(w, "\n(showing %d of %d)\n", len(sorted), len(rows))
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/dashapi"
	"github.com/pable/go-dota-metrics/internal/report"
)

var (
	playersGlobal bool
	playersSort   string
	playersAsc    bool
)

// playersCmd lists cached accounts and a cache overview or, with --global,
// the backend's player table.
var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List players in the local cache",
	Long: `Without --global, list the accounts in the local cache with an overview.

With --global, request the player table from the dashboard backend and sort
it by one of: games, winrate, kda, duration, gpm, xpm, name.`,
	Args: cobra.NoArgs,
	RunE: runPlayers,
}

func init() {
	playersCmd.Flags().BoolVar(&playersGlobal, "global", false, "show the backend's player table")
	playersCmd.Flags().StringVar(&playersSort, "sort", string(aggregator.SortByGames), "sort key for --global")
	playersCmd.Flags().BoolVar(&playersAsc, "asc", false, "ascending order for --global")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	if playersGlobal {
		client, err := newClient()
		if err != nil {
			return err
		}
		return printGlobalPlayers(cmd.Context(), os.Stdout, client, playersSort, playersAsc)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalMatches == 0 {
		fmt.Fprintln(os.Stdout, "No players cached yet. Run 'dotametrics fetch <account-id>' to add one.")
		return nil
	}
	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n=== Cache ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", ov.TotalMatches)
	fmt.Fprintf(os.Stdout, "  Date range     : %s → %s\n", ov.EarliestMatch, ov.LatestMatch)
	fmt.Fprintf(os.Stdout, "  Players        : %d\n", ov.UniquePlayers)
	fmt.Fprintf(os.Stdout, "  Heroes played  : %d\n\n", ov.UniqueHeroes)
	report.PrintPlayers(os.Stdout, players)
	return nil
}

func printGlobalPlayers(ctx context.Context, w io.Writer, client *dashapi.Client, sortKey string, asc bool) error {
	key, err := aggregator.ParseStatSortKey(sortKey)
	if err != nil {
		return err
	}
	rows, err := client.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("fetch players: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no players)")
		return nil
	}
	report.PrintPlayerStats(w, aggregator.SortPlayerStats(rows, key, asc))
	return nil
}

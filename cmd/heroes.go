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
	heroesGlobal bool
	heroesSort   string
	heroesAsc    bool
)

// heroesCmd shows a player's full hero leaderboard or, with --global, the
// backend's hero table.
var heroesCmd = &cobra.Command{
	Use:   "heroes [account-id]",
	Short: "Show hero leaderboards",
	Long: `Without --global, group a cached player's filtered matches by hero, most
played first.

With --global, request the hero table from the dashboard backend and sort it
by one of: games, winrate, kda, duration, gpm, xpm, name.

Examples:
  dotametrics heroes 239896166 --range 30d
  dotametrics heroes --global --sort winrate`,
	Args: cobra.RangeArgs(0, 1),
	RunE: runHeroes,
}

func init() {
	addFilterFlags(heroesCmd)
	heroesCmd.Flags().BoolVar(&heroesGlobal, "global", false, "show the backend's hero table")
	heroesCmd.Flags().StringVar(&heroesSort, "sort", string(aggregator.SortByGames), "sort key for --global")
	heroesCmd.Flags().BoolVar(&heroesAsc, "asc", false, "ascending order for --global")
}

func runHeroes(cmd *cobra.Command, args []string) error {
	if heroesGlobal {
		return runGlobalHeroes(cmd)
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
	printHeroesView(os.Stdout, v)
	return nil
}

func runGlobalHeroes(cmd *cobra.Command) error {
	key, err := aggregator.ParseStatSortKey(heroesSort)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	rows, err := client.GetHeroStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch hero stats: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "(no hero stats)")
		return nil
	}
	report.PrintHeroStats(os.Stdout, aggregator.SortHeroStats(rows, key, heroesAsc))
	return nil
}

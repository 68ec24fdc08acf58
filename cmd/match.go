package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/dashapi"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var matchFocus int64

// matchCmd shows the full scoreboard of one match from the backend.
var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show the scoreboard of a single match",
	Long: `Request the full scoreboard of a match from the dashboard backend.

With --player the account's row is highlighted. When the backend does not
know the match, the account's cached row is shown instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().Int64Var(&matchFocus, "player", 0, "highlight this account id")
}

func runMatch(cmd *cobra.Command, args []string) error {
	matchID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}
	client, err := newClient()
	if err != nil {
		return err
	}
	detail, err := client.GetMatch(cmd.Context(), matchID)
	if err != nil && !errors.Is(err, dashapi.ErrNotFound) {
		return fmt.Errorf("fetch match: %w", err)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	names, err := db.HeroNames()
	if err != nil {
		return fmt.Errorf("load hero names: %w", err)
	}
	if len(names) == 0 {
		log.Warn().Msg("hero list not cached; run fetch first for hero names")
	}

	if detail == nil {
		return printCachedMatch(os.Stdout, db, matchFocus, matchID, names)
	}
	report.PrintMatchDetail(os.Stdout, detail, names, matchFocus)
	return nil
}

// printCachedMatch shows the account's cached row for a match the backend
// does not know.
func printCachedMatch(w io.Writer, db *storage.DB, accountID, matchID int64, names map[int]string) error {
	if accountID == 0 {
		fmt.Fprintf(w, "Match %d not found\n", matchID)
		return nil
	}
	m, err := db.GetPlayerMatch(accountID, matchID)
	if err != nil {
		return fmt.Errorf("load cached match: %w", err)
	}
	if m == nil {
		fmt.Fprintf(w, "Match %d not found\n", matchID)
		return nil
	}
	fmt.Fprintf(w, "Match %d is not on the backend; cached row for account %d:\n\n", matchID, accountID)
	report.PrintMatches(w, []model.MatchRecord{*m}, names)
	fmt.Fprintf(w, "\nItems: %s\n", report.FormatItemSlots(m.Items))
	return nil
}

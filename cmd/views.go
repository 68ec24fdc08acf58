package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

// playerView is a cached account's filtered matches plus hero names.
type playerView struct {
	accountID int64
	matches   []model.MatchRecord
	names     map[int]string
}

// loadPlayerView reads the account from the cache and applies the filters.
// It returns nil when the account has never been fetched.
func loadPlayerView(db *storage.DB, accountID int64, c model.FilterCriteria, now time.Time) (*playerView, error) {
	all, err := db.GetPlayerMatches(accountID)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	names, err := db.HeroNames()
	if err != nil {
		return nil, fmt.Errorf("load hero names: %w", err)
	}
	filtered := aggregator.FilterMatches(all, c, now)
	log.Debug().Int64("account", accountID).Int("cached", len(all)).Int("kept", len(filtered)).Msg("filters applied")
	return &playerView{accountID: accountID, matches: filtered, names: names}, nil
}

func notFetched(w io.Writer, accountID int64) {
	fmt.Fprintf(w, "No matches cached for account %d. Run 'dotametrics fetch %d' first.\n", accountID, accountID)
}

func printSummaryView(w io.Writer, v *playerView, topHeroes int) {
	report.PrintSummaryCard(w, fmt.Sprintf("Account %d", v.accountID), aggregator.Summarize(v.matches))
	if len(v.matches) == 0 {
		return
	}
	fmt.Fprintf(w, "--- Top Heroes ---\n\n")
	report.PrintTopHeroes(w, aggregator.TopHeroes(v.matches, topHeroes), v.names)
}

func printMatchesView(w io.Writer, v *playerView, limit int) {
	ms := v.matches
	if limit > 0 && len(ms) > limit {
		ms = ms[:limit]
	}
	if len(ms) == 0 {
		fmt.Fprintln(w, "(no matches)")
		return
	}
	report.PrintMatches(w, ms, v.names)
	if len(ms) < len(v.matches) {
		fmt.Fprintf(w, "\n(showing %d of %d)\n", len(ms), len(v.matches))
	}
}

func printHeroesView(w io.Writer, v *playerView) {
	if len(v.matches) == 0 {
		fmt.Fprintln(w, "(no matches)")
		return
	}
	report.PrintTopHeroes(w, aggregator.TopHeroes(v.matches, 0), v.names)
}

func printActivityView(w io.Writer, v *playerView, days int, now time.Time) {
	grid := aggregator.ActivityGrid(v.matches, days, now)
	fmt.Fprintf(w, "\n--- Activity, last %d days ---\n\n", days+1)
	report.PrintActivity(w, grid, aggregator.ActivityWeeks(days, now))
}

package aggregator

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-dota-metrics/internal/model"
)

// StatSortKey selects the column the global hero and player tables are
// ordered by.
type StatSortKey string

const (
	SortByGames    StatSortKey = "games"
	SortByWinRate  StatSortKey = "winrate"
	SortByKDA      StatSortKey = "kda"
	SortByDuration StatSortKey = "duration"
	SortByGPM      StatSortKey = "gpm"
	SortByXPM      StatSortKey = "xpm"
	SortByName     StatSortKey = "name"
)

// ParseStatSortKey validates a user-supplied sort column.
func ParseStatSortKey(s string) (StatSortKey, error) {
	switch k := StatSortKey(normalizeKey(s)); k {
	case SortByGames, SortByWinRate, SortByKDA, SortByDuration, SortByGPM, SortByXPM, SortByName:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// MatchSortKey selects the column the global match list is ordered by.
type MatchSortKey string

const (
	MatchSortByID       MatchSortKey = "id"
	MatchSortByStart    MatchSortKey = "start"
	MatchSortByDuration MatchSortKey = "duration"
	MatchSortByMode     MatchSortKey = "mode"
	MatchSortByWinner   MatchSortKey = "winner"
	MatchSortByScore    MatchSortKey = "score"
)

// ParseMatchSortKey validates a user-supplied sort column.
func ParseMatchSortKey(s string) (MatchSortKey, error) {
	switch k := MatchSortKey(normalizeKey(s)); k {
	case MatchSortByID, MatchSortByStart, MatchSortByDuration, MatchSortByMode, MatchSortByWinner, MatchSortByScore:
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sortedCopy returns rows ordered by compare, reversed when ascending is
// false. Equal rows keep their input order in both directions.
func sortedCopy[T any](rows []T, ascending bool, compare func(a, b *T) int) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(&out[i], &out[j])
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return out
}

func compareNames(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func (k StatSortKey) heroMetric(r *model.HeroStatRow) float64 {
	switch k {
	case SortByWinRate:
		return r.WinRate()
	case SortByKDA:
		return r.AvgKDA
	case SortByDuration:
		return r.AvgDuration
	case SortByGPM:
		return r.AvgGPM
	case SortByXPM:
		return r.AvgXPM
	default:
		return float64(r.GamesPlayed)
	}
}

func (k StatSortKey) playerMetric(r *model.PlayerStatRow) float64 {
	switch k {
	case SortByWinRate:
		return r.WinRate
	case SortByKDA:
		return r.AvgKDA
	case SortByDuration:
		return r.AvgDuration
	case SortByGPM:
		return r.AvgGPM
	case SortByXPM:
		return r.AvgXPM
	default:
		return float64(r.GamesPlayed)
	}
}

// SortHeroStats returns a copy of rows ordered by key.
func SortHeroStats(rows []model.HeroStatRow, key StatSortKey, ascending bool) []model.HeroStatRow {
	return sortedCopy(rows, ascending, func(a, b *model.HeroStatRow) int {
		if key == SortByName {
			return compareNames(a.Name, b.Name)
		}
		return cmp.Compare(key.heroMetric(a), key.heroMetric(b))
	})
}

// SortPlayerStats returns a copy of rows ordered by key. SortByName orders
// by persona name.
func SortPlayerStats(rows []model.PlayerStatRow, key StatSortKey, ascending bool) []model.PlayerStatRow {
	return sortedCopy(rows, ascending, func(a, b *model.PlayerStatRow) int {
		if key == SortByName {
			return compareNames(a.PersonaName, b.PersonaName)
		}
		return cmp.Compare(key.playerMetric(a), key.playerMetric(b))
	})
}

// SortMatchOverviews returns a copy of rows ordered by key. Mode and winner
// compare by their display labels; score by the Radiant minus Dire kill
// difference.
func SortMatchOverviews(rows []model.MatchOverview, key MatchSortKey, ascending bool) []model.MatchOverview {
	return sortedCopy(rows, ascending, func(a, b *model.MatchOverview) int {
		switch key {
		case MatchSortByID:
			return cmp.Compare(a.MatchID, b.MatchID)
		case MatchSortByDuration:
			return cmp.Compare(a.DurationSec, b.DurationSec)
		case MatchSortByMode:
			return strings.Compare(a.GameMode.String(), b.GameMode.String())
		case MatchSortByWinner:
			return strings.Compare(a.Winner().String(), b.Winner().String())
		case MatchSortByScore:
			return cmp.Compare(a.ScoreDiff(), b.ScoreDiff())
		default:
			return a.StartTime.Compare(b.StartTime.Time)
		}
	})
}

// Package aggregator derives view statistics from a player's match list:
// filtering, headline summary, hero leaderboard and the daily activity grid.
// Every function is pure; inputs are never modified and each call returns
// freshly allocated output.
package aggregator

import (
	"fmt"
	"sort"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

const (
	// DefaultTopHeroes is the leaderboard length shown on the player view.
	DefaultTopHeroes = 5
	// DefaultActivityWindowDays covers fourteen weeks.
	DefaultActivityWindowDays = 7 * 14
)

// FilterMatches returns the matches satisfying every predicate in c, in their
// original order. now anchors the trailing time window.
func FilterMatches(matches []model.MatchRecord, c model.FilterCriteria, now time.Time) []model.MatchRecord {
	var cutoff time.Time
	window := c.TimeRange.Window()
	if window > 0 {
		cutoff = now.Add(-window)
	}

	out := make([]model.MatchRecord, 0, len(matches))
	for _, m := range matches {
		if c.ExcludeTurbo && m.GameMode == model.GameModeTurbo {
			continue
		}
		if window > 0 && m.StartTime.Before(cutoff) {
			continue
		}
		if c.HeroID != nil && m.HeroID != *c.HeroID {
			continue
		}
		if c.GameMode != nil && m.GameMode != *c.GameMode {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Summarize counts matches and outcomes and finds the earliest start time.
// Ties on start time resolve to the first occurrence.
func Summarize(matches []model.MatchRecord) model.AggregateSummary {
	s := model.AggregateSummary{TotalMatches: len(matches)}
	if len(matches) == 0 {
		return s
	}
	first := 0
	for i, m := range matches {
		if m.Win {
			s.Wins++
		}
		if m.StartTime.Before(matches[first].StartTime.Time) {
			first = i
		}
	}
	s.Losses = s.TotalMatches - s.Wins
	ts := matches[first].StartTime.Time
	s.FirstMatch = &ts
	return s
}

// WinRate returns wins as a percentage of total, or 0 when total is 0.
func WinRate(wins, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(wins) / float64(total) * 100
}

// FormatWinRate renders a win rate with two decimals, e.g. "52.38%".
func FormatWinRate(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// TopHeroes groups matches by hero and returns the most played heroes first.
// Heroes with equal match counts keep the order in which they were first seen.
// A non-positive limit returns every group.
func TopHeroes(matches []model.MatchRecord, limit int) []model.HeroAggregate {
	index := make(map[int]int)
	var groups []model.HeroAggregate
	for _, m := range matches {
		i, ok := index[m.HeroID]
		if !ok {
			i = len(groups)
			index[m.HeroID] = i
			groups = append(groups, model.HeroAggregate{HeroID: m.HeroID})
		}
		g := &groups[i]
		g.Matches++
		if m.Win {
			g.Wins++
		}
		g.Kills += m.Kills
		g.Deaths += m.Deaths
		g.Assists += m.Assists
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Matches > groups[j].Matches
	})
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// TopTeammates orders teammates by shared games, most first, and truncates to
// limit when limit is positive.
func TopTeammates(mates []model.Teammate, limit int) []model.Teammate {
	out := make([]model.Teammate, len(mates))
	copy(out, mates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Games > out[j].Games
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ItemSlots lays items out by slot index. Slots without an item are nil;
// items with an out-of-range index are dropped and the first item claiming a
// slot keeps it.
func ItemSlots(items []model.Item) [model.ItemSlotCount]*model.Item {
	var slots [model.ItemSlotCount]*model.Item
	for i := range items {
		idx := items[i].SlotIndex
		if idx < 0 || idx >= model.ItemSlotCount || slots[idx] != nil {
			continue
		}
		it := items[i]
		slots[idx] = &it
	}
	return slots
}

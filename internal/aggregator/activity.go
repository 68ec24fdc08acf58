package aggregator

import (
	"fmt"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

// dayKeyLayout is the calendar key format used by the activity grid.
const dayKeyLayout = "2006-01-02"

// phaseSeconds is the length of one day or night cycle in match time.
const phaseSeconds = 300

// DayKey formats t as its calendar date, YYYY-MM-DD, in t's location.
func DayKey(t time.Time) string {
	return t.Format(dayKeyLayout)
}

// startOfDay truncates t to local midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ActivityGrid buckets matches by the local calendar date (in now's location)
// of their start time. Only dates from windowDays before today up to and
// including today are counted; days without matches are absent and read as
// the zero ActivityDay.
func ActivityGrid(matches []model.MatchRecord, windowDays int, now time.Time) map[string]model.ActivityDay {
	if windowDays < 0 {
		windowDays = 0
	}
	loc := now.Location()
	today := startOfDay(now, loc)
	start := today.AddDate(0, 0, -windowDays)

	grid := make(map[string]model.ActivityDay)
	for _, m := range matches {
		day := startOfDay(m.StartTime.Time, loc)
		if day.Before(start) || day.After(today) {
			continue
		}
		key := DayKey(day)
		d := grid[key]
		d.Total++
		if m.Win {
			d.Wins++
		} else {
			d.Losses++
		}
		grid[key] = d
	}
	return grid
}

// ActivityWeeks lists the calendar days from windowDays before today through
// today, split into consecutive runs of seven. The last run may be shorter.
func ActivityWeeks(windowDays int, now time.Time) [][]time.Time {
	if windowDays < 0 {
		windowDays = 0
	}
	loc := now.Location()
	today := startOfDay(now, loc)
	start := today.AddDate(0, 0, -windowDays)

	days := make([]time.Time, 0, windowDays+1)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	weeks := make([][]time.Time, 0, (len(days)+6)/7)
	for i := 0; i < len(days); i += 7 {
		end := i + 7
		if end > len(days) {
			end = len(days)
		}
		weeks = append(weeks, days[i:end])
	}
	return weeks
}

// MaxDailyTotal returns the busiest day's match count in grid.
func MaxDailyTotal(grid map[string]model.ActivityDay) int {
	best := 0
	for _, d := range grid {
		if d.Total > best {
			best = d.Total
		}
	}
	return best
}

// DayPhase is the in-game day/night state at the end of a match.
type DayPhase struct {
	Index int
	Night bool
}

func (p DayPhase) String() string {
	if p.Night {
		return "Night"
	}
	return "Day"
}

// Phase derives the day/night cycle from match duration. The cycle flips
// every five minutes of match time, starting at night.
func Phase(durationSec int) DayPhase {
	if durationSec < 0 {
		durationSec = 0
	}
	idx := durationSec / phaseSeconds
	return DayPhase{Index: idx, Night: idx%2 == 0}
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

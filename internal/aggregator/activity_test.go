package aggregator

import (
	"reflect"
	"testing"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

func TestActivityGrid_BucketsByDay(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch(1, 1, true, at(0, 9)),
		makeMatch(2, 1, false, at(0, 22)),
		makeMatch(3, 1, true, at(2, 1)),
		makeMatch(4, 1, true, at(2, 23)),
	}
	grid := ActivityGrid(ms, 7, refNow)

	today := grid["2024-01-10"]
	if today != (model.ActivityDay{Total: 2, Wins: 1, Losses: 1}) {
		t.Errorf("2024-01-10: %+v", today)
	}
	day := grid["2024-01-08"]
	if day != (model.ActivityDay{Total: 2, Wins: 2, Losses: 0}) {
		t.Errorf("2024-01-08: %+v", day)
	}
	if _, ok := grid["2024-01-09"]; ok {
		t.Error("a day without matches should be absent")
	}
}

func TestActivityGrid_TotalsMatchInputWithinWindow(t *testing.T) {
	var ms []model.MatchRecord
	for i := 0; i <= 20; i++ {
		ms = append(ms, makeMatch(int64(i), 1, i%3 == 0, at(i, 12)))
	}
	grid := ActivityGrid(ms, 20, refNow)
	sum := 0
	for _, d := range grid {
		sum += d.Total
		if d.Wins+d.Losses != d.Total {
			t.Errorf("wins+losses != total: %+v", d)
		}
	}
	if sum != len(ms) {
		t.Errorf("bucket sum %d, want %d", sum, len(ms))
	}
}

func TestActivityGrid_ExcludesOutsideWindow(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch(1, 1, true, at(3, 12)),
		makeMatch(2, 1, true, at(4, 23)), // first day of the window
		makeMatch(3, 1, true, at(5, 23)), // one day before the window
		makeMatch(4, 1, true, model.NewTimestamp(refNow.AddDate(0, 0, 1))),
	}
	grid := ActivityGrid(ms, 4, refNow)
	sum := 0
	for _, d := range grid {
		sum += d.Total
	}
	if sum != 2 {
		t.Errorf("expected 2 in-window matches, got %d (%v)", sum, grid)
	}
	if grid["2024-01-06"].Total != 1 {
		t.Errorf("window start day should be counted: %v", grid)
	}
}

func TestActivityGrid_UsesLocalCalendarDate(t *testing.T) {
	kyiv := time.FixedZone("UTC+2", 2*3600)
	now := refNow.In(kyiv)
	// 23:30 UTC on Jan 9 is 01:30 on Jan 10 at UTC+2.
	m := makeMatch(1, 1, true, model.NewTimestamp(time.Date(2024, 1, 9, 23, 30, 0, 0, time.UTC)))
	grid := ActivityGrid([]model.MatchRecord{m}, 7, now)
	if grid["2024-01-10"].Total != 1 {
		t.Errorf("expected bucket under local date 2024-01-10, got %v", grid)
	}
}

func TestActivityGrid_Empty(t *testing.T) {
	if got := ActivityGrid(nil, DefaultActivityWindowDays, refNow); len(got) != 0 {
		t.Errorf("expected empty grid, got %v", got)
	}
}

func TestActivityWeeks(t *testing.T) {
	weeks := ActivityWeeks(DefaultActivityWindowDays, refNow)
	if len(weeks) != 15 {
		t.Fatalf("98-day window: want 15 runs, got %d", len(weeks))
	}
	for i, w := range weeks[:14] {
		if len(w) != 7 {
			t.Errorf("week %d has %d days", i, len(w))
		}
	}
	if len(weeks[14]) != 1 {
		t.Errorf("last run: want 1 day, got %d", len(weeks[14]))
	}
	first := weeks[0][0]
	if DayKey(first) != "2023-10-04" {
		t.Errorf("first day: got %s", DayKey(first))
	}
	last := weeks[14][0]
	if DayKey(last) != "2024-01-10" {
		t.Errorf("last day: got %s", DayKey(last))
	}

	// Boundaries depend only on the end date.
	later := refNow.Add(5 * time.Hour)
	if !reflect.DeepEqual(ActivityWeeks(14, refNow), ActivityWeeks(14, later)) {
		t.Error("week layout changed within the same day")
	}
}

func TestMaxDailyTotal(t *testing.T) {
	grid := map[string]model.ActivityDay{
		"2024-01-01": {Total: 2},
		"2024-01-02": {Total: 5},
	}
	if MaxDailyTotal(grid) != 5 {
		t.Errorf("got %d", MaxDailyTotal(grid))
	}
	if MaxDailyTotal(nil) != 0 {
		t.Error("nil grid should be 0")
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		dur   int
		idx   int
		night bool
	}{
		{0, 0, true},
		{299, 0, true},
		{300, 1, false},
		{599, 1, false},
		{600, 2, true},
		{1805, 6, true},
		{-5, 0, true},
	}
	for _, tt := range tests {
		p := Phase(tt.dur)
		if p.Index != tt.idx || p.Night != tt.night {
			t.Errorf("Phase(%d) = %+v, want idx=%d night=%v", tt.dur, p, tt.idx, tt.night)
		}
	}
	if Phase(0).String() != "Night" || Phase(300).String() != "Day" {
		t.Error("phase labels")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{0: "0:00", 65: "1:05", 2399: "39:59", 3600: "60:00"}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

package aggregator

import (
	"reflect"
	"testing"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

// refNow is a fixed reference clock: Wednesday, 10 January 2024, noon UTC.
var refNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

// at returns a timestamp daysAgo days before refNow, at the given hour.
func at(daysAgo, hour int) model.Timestamp {
	d := refNow.AddDate(0, 0, -daysAgo)
	return model.NewTimestamp(time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC))
}

// makeMatch builds a minimal ranked match.
func makeMatch(id int64, heroID int, win bool, start model.Timestamp) model.MatchRecord {
	return model.MatchRecord{
		MatchID:     id,
		HeroID:      heroID,
		Win:         win,
		StartTime:   start,
		DurationSec: 1800,
		GameMode:    model.GameModeRanked,
		Kills:       5,
		Deaths:      3,
		Assists:     7,
	}
}

func intPtr(v int) *int { return &v }

func modePtr(m model.GameMode) *model.GameMode { return &m }

func matchIDs(ms []model.MatchRecord) []int64 {
	out := make([]int64, len(ms))
	for i, m := range ms {
		out[i] = m.MatchID
	}
	return out
}

// sampleMatches covers two heroes, two modes and a spread of dates.
func sampleMatches() []model.MatchRecord {
	ms := []model.MatchRecord{
		makeMatch(1, 10, true, at(0, 9)),
		makeMatch(2, 20, false, at(3, 9)),
		makeMatch(3, 10, false, at(10, 9)),
		makeMatch(4, 30, true, at(40, 9)),
		makeMatch(5, 20, true, at(1, 9)),
	}
	ms[1].GameMode = model.GameModeTurbo
	ms[3].GameMode = model.GameModeAllPick
	return ms
}

// ---- FilterMatches ----

func TestFilterMatches_TurboAndWindowExample(t *testing.T) {
	d1 := model.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	d2 := model.NewTimestamp(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	m1 := makeMatch(1, 1, true, d1)
	m1.GameMode = model.GameModeAllPick
	m2 := makeMatch(2, 1, false, d2)
	m2.GameMode = model.GameModeTurbo
	m2.DurationSec = 1500

	got := FilterMatches([]model.MatchRecord{m1, m2}, model.FilterCriteria{ExcludeTurbo: true}, refNow)
	if len(got) != 1 || got[0].MatchID != 1 {
		t.Fatalf("expected only match 1, got %v", matchIDs(got))
	}

	s := Summarize(got)
	if s.TotalMatches != 1 || s.Wins != 1 || s.Losses != 0 {
		t.Errorf("summary mismatch: %+v", s)
	}
	if s.FirstMatch == nil || !s.FirstMatch.Equal(d1.Time) {
		t.Errorf("first match: want %v, got %v", d1.Time, s.FirstMatch)
	}
}

func TestFilterMatches_EmptyCriteriaReturnsInput(t *testing.T) {
	ms := sampleMatches()
	got := FilterMatches(ms, model.FilterCriteria{}, refNow)
	if !reflect.DeepEqual(got, ms) {
		t.Errorf("all-permitting criteria changed the list: %v", matchIDs(got))
	}
}

func TestFilterMatches_Predicates(t *testing.T) {
	tests := []struct {
		name string
		c    model.FilterCriteria
		want []int64
	}{
		{"exclude turbo", model.FilterCriteria{ExcludeTurbo: true}, []int64{1, 3, 4, 5}},
		{"last 7 days", model.FilterCriteria{TimeRange: model.TimeRangeLast7Days}, []int64{1, 2, 5}},
		{"last 30 days", model.FilterCriteria{TimeRange: model.TimeRangeLast30Days}, []int64{1, 2, 3, 5}},
		{"hero", model.FilterCriteria{HeroID: intPtr(20)}, []int64{2, 5}},
		{"mode", model.FilterCriteria{GameMode: modePtr(model.GameModeAllPick)}, []int64{4}},
		{"combined", model.FilterCriteria{
			ExcludeTurbo: true,
			TimeRange:    model.TimeRangeLast7Days,
			HeroID:       intPtr(20),
		}, []int64{5}},
		{"nothing left", model.FilterCriteria{HeroID: intPtr(99)}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchIDs(FilterMatches(sampleMatches(), tt.c, refNow))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestFilterMatches_WindowBoundary: a match exactly 7 days old is kept.
func TestFilterMatches_WindowBoundary(t *testing.T) {
	edge := model.NewTimestamp(refNow.Add(-7 * 24 * time.Hour))
	justOut := model.NewTimestamp(refNow.Add(-7*24*time.Hour - time.Second))
	ms := []model.MatchRecord{makeMatch(1, 1, true, edge), makeMatch(2, 1, true, justOut)}

	got := matchIDs(FilterMatches(ms, model.FilterCriteria{TimeRange: model.TimeRangeLast7Days}, refNow))
	if !reflect.DeepEqual(got, []int64{1}) {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestFilterMatches_DoesNotMutateInput(t *testing.T) {
	ms := sampleMatches()
	before := matchIDs(ms)
	_ = FilterMatches(ms, model.FilterCriteria{ExcludeTurbo: true, HeroID: intPtr(10)}, refNow)
	if !reflect.DeepEqual(matchIDs(ms), before) {
		t.Error("input slice was modified")
	}
}

// ---- Summarize ----

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalMatches != 0 || s.Wins != 0 || s.Losses != 0 || s.FirstMatch != nil {
		t.Errorf("empty summary: %+v", s)
	}
	if s.WinRate() != 0 {
		t.Errorf("empty win rate: got %f", s.WinRate())
	}
}

func TestSummarize_CountsAndFirstMatch(t *testing.T) {
	ms := sampleMatches()
	s := Summarize(ms)
	if s.Wins+s.Losses != s.TotalMatches || s.TotalMatches != len(ms) {
		t.Errorf("wins+losses != total: %+v", s)
	}
	if s.Wins != 3 {
		t.Errorf("wins: want 3, got %d", s.Wins)
	}
	if s.FirstMatch == nil || !s.FirstMatch.Equal(ms[3].StartTime.Time) {
		t.Errorf("first match: want %v, got %v", ms[3].StartTime.Time, s.FirstMatch)
	}
}

func TestSummarize_FirstMatchTieKeepsFirstOccurrence(t *testing.T) {
	same := at(5, 10)
	a := makeMatch(1, 1, true, same)
	b := makeMatch(2, 2, false, model.NewTimestamp(same.In(time.FixedZone("X", 3600)).Time))
	s := Summarize([]model.MatchRecord{a, b})
	if s.FirstMatch.Location() != a.StartTime.Location() {
		t.Errorf("tie should resolve to first record, got location %v", s.FirstMatch.Location())
	}
}

func TestWinRate(t *testing.T) {
	if WinRate(0, 0) != 0 {
		t.Error("0/0 should be 0")
	}
	if got := FormatWinRate(WinRate(11, 21)); got != "52.38%" {
		t.Errorf("FormatWinRate: got %q", got)
	}
}

// ---- TopHeroes ----

func TestTopHeroes_OrderAndTotals(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch(1, 7, true, at(1, 1)),
		makeMatch(2, 8, false, at(1, 2)),
		makeMatch(3, 8, true, at(1, 3)),
		makeMatch(4, 9, true, at(1, 4)),
		makeMatch(5, 7, false, at(1, 5)),
		makeMatch(6, 8, true, at(1, 6)),
	}
	got := TopHeroes(ms, DefaultTopHeroes)
	if len(got) != 3 {
		t.Fatalf("expected 3 heroes, got %d", len(got))
	}
	wantOrder := []int{8, 7, 9}
	for i, h := range got {
		if h.HeroID != wantOrder[i] {
			t.Errorf("position %d: want hero %d, got %d", i, wantOrder[i], h.HeroID)
		}
	}
	h8 := got[0]
	if h8.Matches != 3 || h8.Wins != 2 || h8.Kills != 15 || h8.Deaths != 9 || h8.Assists != 21 {
		t.Errorf("hero 8 totals: %+v", h8)
	}
	if h8.AvgKills() != 5 || h8.AvgDeaths() != 3 {
		t.Errorf("hero 8 averages: k=%f d=%f", h8.AvgKills(), h8.AvgDeaths())
	}
}

func TestTopHeroes_StableTieBreak(t *testing.T) {
	ms := []model.MatchRecord{
		makeMatch(1, 3, true, at(1, 1)),
		makeMatch(2, 1, true, at(1, 2)),
		makeMatch(3, 2, true, at(1, 3)),
	}
	for run := 0; run < 5; run++ {
		got := TopHeroes(ms, 0)
		ids := []int{got[0].HeroID, got[1].HeroID, got[2].HeroID}
		if !reflect.DeepEqual(ids, []int{3, 1, 2}) {
			t.Fatalf("run %d: equal-count heroes reordered: %v", run, ids)
		}
	}
}

func TestTopHeroes_LimitAndSum(t *testing.T) {
	ms := sampleMatches()
	for _, limit := range []int{1, 2, 5} {
		got := TopHeroes(ms, limit)
		if len(got) > limit {
			t.Errorf("limit %d: got %d entries", limit, len(got))
		}
		sum := 0
		for i, h := range got {
			sum += h.Matches
			if i > 0 && h.Matches > got[i-1].Matches {
				t.Errorf("limit %d: not sorted at %d", limit, i)
			}
		}
		if sum > len(ms) {
			t.Errorf("limit %d: match sum %d exceeds input %d", limit, sum, len(ms))
		}
	}
	if got := TopHeroes(nil, 5); len(got) != 0 {
		t.Errorf("empty input: got %v", got)
	}
}

func TestTopTeammates(t *testing.T) {
	mates := []model.Teammate{
		{AccountID: 1, Games: 3},
		{AccountID: 2, Games: 9},
		{AccountID: 3, Games: 3},
	}
	got := TopTeammates(mates, 2)
	if len(got) != 2 || got[0].AccountID != 2 || got[1].AccountID != 1 {
		t.Errorf("unexpected order: %+v", got)
	}
	if mates[0].AccountID != 1 {
		t.Error("input slice was reordered")
	}
}

// ---- ItemSlots ----

func TestItemSlots(t *testing.T) {
	items := []model.Item{
		{ItemID: 1, SlotIndex: 2, Name: "Blink Dagger"},
		{ItemID: 2, SlotIndex: 0, Name: "Power Treads"},
		{ItemID: 3, SlotIndex: 2, Name: "duplicate"},
		{ItemID: 4, SlotIndex: 6, Name: "backpack"},
	}
	slots := ItemSlots(items)
	if slots[0] == nil || slots[0].ItemID != 2 {
		t.Errorf("slot 0: %+v", slots[0])
	}
	if slots[2] == nil || slots[2].ItemID != 1 {
		t.Errorf("slot 2 should keep the first claimant: %+v", slots[2])
	}
	for _, i := range []int{1, 3, 4, 5} {
		if slots[i] != nil {
			t.Errorf("slot %d should be empty, got %+v", i, slots[i])
		}
	}
}

// ---- Idempotence ----

func TestPipelineIsIdempotent(t *testing.T) {
	ms := sampleMatches()
	c := model.FilterCriteria{ExcludeTurbo: true}

	if !reflect.DeepEqual(FilterMatches(ms, c, refNow), FilterMatches(ms, c, refNow)) {
		t.Error("FilterMatches not idempotent")
	}
	if !reflect.DeepEqual(Summarize(ms), Summarize(ms)) {
		t.Error("Summarize not idempotent")
	}
	if !reflect.DeepEqual(TopHeroes(ms, 5), TopHeroes(ms, 5)) {
		t.Error("TopHeroes not idempotent")
	}
	if !reflect.DeepEqual(ActivityGrid(ms, 30, refNow), ActivityGrid(ms, 30, refNow)) {
		t.Error("ActivityGrid not idempotent")
	}
}

package model

import (
	"strconv"
	"strings"
	"time"
)

// Team represents which side a player is on.
type Team int

const (
	TeamRadiant Team = 0
	TeamDire    Team = 1
)

// direSlotBit is the high bit of a player slot; set for Dire players.
const direSlotBit = 0x80

// TeamFromSlot decodes the side from a Dota player slot.
func TeamFromSlot(slot int) Team {
	if slot&direSlotBit != 0 {
		return TeamDire
	}
	return TeamRadiant
}

func (t Team) String() string {
	if t == TeamDire {
		return "Dire"
	}
	return "Radiant"
}

// GameMode is the Dota ruleset id of a match.
type GameMode int

const (
	GameModeNone     GameMode = 0
	GameModeAllPick  GameMode = 1
	GameModeCaptains GameMode = 2
	GameModeRanked   GameMode = 22
	GameModeTurbo    GameMode = 23
)

var gameModeLabels = map[GameMode]string{
	0:  "None",
	1:  "All Pick",
	2:  "Captain's Mode",
	3:  "Random Draft",
	4:  "Single Draft",
	5:  "All Random",
	6:  "Intro",
	7:  "Diretide",
	8:  "Reverse Captain's Mode",
	9:  "The Greeviling",
	10: "Tutorial",
	11: "Mid Only",
	12: "Least Played",
	13: "New Player Pool",
	14: "Compendium",
	15: "Co-op vs Bots",
	16: "Captains Draft",
	18: "Ability Draft",
	19: "Unknown",
	20: "All Random Deathmatch",
	21: "1v1 Mid Only",
	22: "Ranked / All Pick",
	23: "Turbo",
}

// String returns the display label, or "—" for ids outside the table.
func (m GameMode) String() string {
	if l, ok := gameModeLabels[m]; ok {
		return l
	}
	return "—"
}

// GameModes returns every known mode id in ascending order.
func GameModes() []GameMode {
	out := make([]GameMode, 0, len(gameModeLabels))
	for id := GameMode(0); id <= GameModeTurbo; id++ {
		if _, ok := gameModeLabels[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// ParseGameMode resolves a numeric id or a case-insensitive label.
func ParseGameMode(s string) (GameMode, bool) {
	s = strings.TrimSpace(s)
	for id, l := range gameModeLabels {
		if strings.EqualFold(l, s) {
			return id, true
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return GameMode(n), true
}

// ItemSlotCount is the number of inventory slots shown for a match.
const ItemSlotCount = 6

// Item is one inventory entry of a match.
type Item struct {
	ItemID    int    `json:"itemId"`
	SlotIndex int    `json:"slotIndex"`
	Name      string `json:"name"`
	ImgIcon   string `json:"imgIcon"`
}

// MatchRecord is one completed game from the tracked player's perspective.
type MatchRecord struct {
	MatchID     int64     `json:"matchId"`
	HeroID      int       `json:"heroId"`
	Win         bool      `json:"win"`
	StartTime   Timestamp `json:"startTime"`
	DurationSec int       `json:"durationSec"`
	GameMode    GameMode  `json:"gameMode"`
	PlayerSlot  int       `json:"playerSlot"`

	Kills      int `json:"kills"`
	Deaths     int `json:"deaths"`
	Assists    int `json:"assists"`
	GoldPerMin int `json:"goldPerMin"`
	XPPerMin   int `json:"xpPerMin"`

	Items []Item `json:"items"`
}

// Team returns the side the tracked player was on.
func (m *MatchRecord) Team() Team {
	return TeamFromSlot(m.PlayerSlot)
}

// KDA returns (kills+assists)/deaths, using 1 when deaths is zero.
func (m *MatchRecord) KDA() float64 {
	d := m.Deaths
	if d == 0 {
		d = 1
	}
	return float64(m.Kills+m.Assists) / float64(d)
}

// ---- Filter parameters ----

// TimeRange selects a trailing window of match start times.
type TimeRange int

const (
	TimeRangeAll TimeRange = iota
	TimeRangeLast7Days
	TimeRangeLast30Days
)

// Window returns the trailing duration, or 0 for TimeRangeAll.
func (r TimeRange) Window() time.Duration {
	switch r {
	case TimeRangeLast7Days:
		return 7 * 24 * time.Hour
	case TimeRangeLast30Days:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

func (r TimeRange) String() string {
	switch r {
	case TimeRangeLast7Days:
		return "7d"
	case TimeRangeLast30Days:
		return "30d"
	default:
		return "all"
	}
}

// ParseTimeRange accepts "all", "7d", "30d" and the long forms used by the dashboard.
func ParseTimeRange(s string) (TimeRange, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all_time":
		return TimeRangeAll, true
	case "7d", "last_7_days":
		return TimeRangeLast7Days, true
	case "30d", "last_30_days":
		return TimeRangeLast30Days, true
	}
	return TimeRangeAll, false
}

// FilterCriteria holds the optional predicates applied to a match list.
// Nil pointers mean "any".
type FilterCriteria struct {
	ExcludeTurbo bool
	TimeRange    TimeRange
	HeroID       *int
	GameMode     *GameMode
}

// ---- Derived aggregates ----

// AggregateSummary holds headline counts over a set of matches.
type AggregateSummary struct {
	TotalMatches int        `json:"totalMatches"`
	Wins         int        `json:"wins"`
	Losses       int        `json:"losses"`
	FirstMatch   *time.Time `json:"firstMatch"` // nil when TotalMatches == 0
}

// WinRate returns the win percentage, 0 for an empty summary.
func (s *AggregateSummary) WinRate() float64 {
	if s.TotalMatches == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalMatches) * 100
}

// HeroAggregate holds running totals for one hero across a match set.
type HeroAggregate struct {
	HeroID  int `json:"heroId"`
	Matches int `json:"matches"`
	Wins    int `json:"wins"`
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`
}

// AvgKills returns kills per match.
func (a *HeroAggregate) AvgKills() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Kills) / float64(a.Matches)
}

// AvgDeaths returns deaths per match.
func (a *HeroAggregate) AvgDeaths() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Deaths) / float64(a.Matches)
}

// AvgAssists returns assists per match.
func (a *HeroAggregate) AvgAssists() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Assists) / float64(a.Matches)
}

// WinRate returns the percentage of matches won, 0..100.
func (a *HeroAggregate) WinRate() float64 {
	if a.Matches == 0 {
		return 0
	}
	return float64(a.Wins) / float64(a.Matches) * 100
}

// KDA returns (kills+assists)/deaths over all matches, deaths floored at 1.
func (a *HeroAggregate) KDA() float64 {
	d := a.Deaths
	if d == 0 {
		d = 1
	}
	return float64(a.Kills+a.Assists) / float64(d)
}

// ActivityDay holds outcome counts for one calendar date.
type ActivityDay struct {
	Total  int `json:"total"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// ---- API-side records ----

// Hero is static hero metadata.
type Hero struct {
	HeroID int    `json:"hero_id"`
	Name   string `json:"name_en"`
	Img    string `json:"img_portrait"`
}

// PlayerProfile is the Steam persona of an account.
type PlayerProfile struct {
	PersonaName string `json:"personaName"`
	AvatarFull  string `json:"avatarFull"`
}

// Teammate is an ally the tracked player shared matches with.
type Teammate struct {
	AccountID int64  `json:"accountId"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Games     int    `json:"games"`
	Wins      int    `json:"wins"`
}

func (t *Teammate) WinRate() float64 {
	if t.Games == 0 {
		return 0
	}
	return float64(t.Wins) * 100 / float64(t.Games)
}

// HeroStatRow is one row of the global hero table (ranked matches only).
type HeroStatRow struct {
	HeroID      int     `json:"hero_id"`
	Name        string  `json:"name_en"`
	Img         string  `json:"img_portrait"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	AvgKDA      float64 `json:"avg_kda"`
	AvgDuration float64 `json:"avg_duration"`
	AvgGPM      float64 `json:"avg_gpm"`
	AvgXPM      float64 `json:"avg_xpm"`
}

func (r *HeroStatRow) WinRate() float64 {
	if r.GamesPlayed == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.GamesPlayed) * 100
}

// MatchOverview is one row of the backend's match list.
type MatchOverview struct {
	MatchID      int64     `json:"matchId"`
	StartTime    Timestamp `json:"startTime"`
	DurationSec  int       `json:"durationSec"`
	RadiantWin   bool      `json:"radiantWin"`
	RadiantScore int       `json:"radiantScore"`
	DireScore    int       `json:"direScore"`
	GameMode     GameMode  `json:"gameMode"`
}

// Winner returns the side that won the match.
func (m *MatchOverview) Winner() Team {
	if m.RadiantWin {
		return TeamRadiant
	}
	return TeamDire
}

// ScoreDiff is the Radiant kill score minus the Dire one.
func (m *MatchOverview) ScoreDiff() int {
	return m.RadiantScore - m.DireScore
}

// PlayerStatRow is one row of the backend's player table. WinRate is
// already a percentage; averages are over ranked matches.
type PlayerStatRow struct {
	AccountID   int64   `json:"account_id"`
	PersonaName string  `json:"personaname"`
	Avatar      string  `json:"avatarfull"`
	GamesPlayed int     `json:"games_played"`
	WinRate     float64 `json:"win_rate"`
	AvgKDA      float64 `json:"avg_kda"`
	AvgDuration float64 `json:"avg_duration"`
	AvgGPM      float64 `json:"avg_gpm"`
	AvgXPM      float64 `json:"avg_xpm"`
}

// MatchPlayer is one of the ten players in a match detail.
type MatchPlayer struct {
	AccountID   int64  `json:"accountId"`
	PlayerSlot  int    `json:"playerSlot"`
	Radiant     bool   `json:"radiant"`
	HeroID      int    `json:"heroId"`
	Kills       int    `json:"kills"`
	Deaths      int    `json:"deaths"`
	Assists     int    `json:"assists"`
	GoldPerMin  int    `json:"gpm"`
	XPPerMin    int    `json:"xpm"`
	Level       int    `json:"level"`
	NetWorth    int    `json:"net_worth"`
	HeroDamage  int    `json:"hero_damage"`
	TowerDamage int    `json:"tower_damage"`
	HeroHealing int    `json:"hero_healing"`
	LastHits    int    `json:"last_hits"`
	Denies      int    `json:"denies"`
	Items       []Item `json:"items"`
}

// MatchDetail is the full view of a single match.
type MatchDetail struct {
	MatchID      int64         `json:"matchId"`
	StartTime    Timestamp     `json:"startTime"`
	DurationSec  int           `json:"durationSec"`
	RadiantWin   bool          `json:"radiantWin"`
	RadiantScore int           `json:"radiant_score"`
	DireScore    int           `json:"dire_score"`
	GameMode     GameMode      `json:"game_mode"`
	Players      []MatchPlayer `json:"players"`
}

// NetWorth returns the summed net worth of one side.
func (d *MatchDetail) NetWorth(radiant bool) int {
	total := 0
	for _, p := range d.Players {
		if p.Radiant == radiant {
			total += p.NetWorth
		}
	}
	return total
}

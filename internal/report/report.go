package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/palette"
	"github.com/pable/go-dota-metrics/internal/storage"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// paint renders s in the given palette colour. fatih/color drops the escape
// codes when output is not a terminal.
func paint(c palette.Color, s string) string {
	return color.RGB(int(c.R), int(c.G), int(c.B)).Sprint(s)
}

func heroName(names map[int]string, id int) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("hero #%d", id)
}

// PrintSummaryCard prints the headline numbers for a filtered match set.
func PrintSummaryCard(w io.Writer, title string, s model.AggregateSummary) {
	first := "—"
	if s.FirstMatch != nil {
		first = s.FirstMatch.Format(dateLayout)
	}
	rate := s.WinRate()
	fmt.Fprintf(w, "\n=== %s ===\n\n", title)
	fmt.Fprintf(w, "  Matches      : %d\n", s.TotalMatches)
	fmt.Fprintf(w, "  Wins/Losses  : %d / %d\n", s.Wins, s.Losses)
	fmt.Fprintf(w, "  Win rate     : %s\n", paint(palette.ForWinRate(rate), aggregator.FormatWinRate(rate)))
	fmt.Fprintf(w, "  First match  : %s\n\n", first)
}

// PrintTopHeroes prints the most played heroes with per-game averages.
func PrintTopHeroes(w io.Writer, aggs []model.HeroAggregate, names map[int]string) {
	table := newTable(w)
	table.Header("HERO", "MATCHES", "WIN%", "K", "D", "A", "KDA")
	for _, a := range aggs {
		rate := a.WinRate()
		table.Append(
			heroName(names, a.HeroID),
			strconv.Itoa(a.Matches),
			paint(palette.ForWinRate(rate), aggregator.FormatWinRate(rate)),
			fmt.Sprintf("%.1f", a.AvgKills()),
			fmt.Sprintf("%.1f", a.AvgDeaths()),
			fmt.Sprintf("%.1f", a.AvgAssists()),
			paint(palette.ForKDA(a.AvgKills(), a.AvgDeaths(), a.AvgAssists()), fmt.Sprintf("%.2f", a.KDA())),
		)
	}
	table.Render()
}

// PrintMatches prints the match history, newest first as given.
func PrintMatches(w io.Writer, matches []model.MatchRecord, names map[int]string) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "HERO", "RESULT", "MODE", "TEAM", "DURATION", "K/D/A", "KDA", "GPM", "XPM")
	for i := range matches {
		m := &matches[i]
		result := "Loss"
		if m.Win {
			result = "Win"
		}
		table.Append(
			strconv.FormatInt(m.MatchID, 10),
			m.StartTime.Local().Format("2006-01-02 15:04"),
			heroName(names, m.HeroID),
			result,
			m.GameMode.String(),
			m.Team().String(),
			paint(palette.ForDuration(m.DurationSec), aggregator.FormatDuration(m.DurationSec)),
			fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
			paint(palette.ForKDA(float64(m.Kills), float64(m.Deaths), float64(m.Assists)), fmt.Sprintf("%.2f", m.KDA())),
			strconv.Itoa(m.GoldPerMin),
			strconv.Itoa(m.XPPerMin),
		)
	}
	table.Render()
}

// PrintActivity draws the calendar heatmap, one line per run of seven days.
// Cell shade follows the day's share of the busiest day; the trailing
// columns give the run's totals.
func PrintActivity(w io.Writer, grid map[string]model.ActivityDay, weeks [][]time.Time) {
	peak := aggregator.MaxDailyTotal(grid)
	for _, week := range weeks {
		if len(week) == 0 {
			continue
		}
		var b strings.Builder
		var games, wins int
		for _, day := range week {
			d := grid[aggregator.DayKey(day)]
			games += d.Total
			wins += d.Wins
			if d.Total == 0 || peak == 0 {
				b.WriteString(" ·")
				continue
			}
			b.WriteString(" " + paint(palette.ForActivity(float64(d.Total)/float64(peak)), "■"))
		}
		for i := len(week); i < 7; i++ {
			b.WriteString("  ")
		}
		summary := "—"
		if games > 0 {
			rate := aggregator.WinRate(wins, games)
			summary = fmt.Sprintf("%3d games  %s", games, paint(palette.ForWinRate(rate), aggregator.FormatWinRate(rate)))
		}
		fmt.Fprintf(w, "%s %s   %s\n", week[0].Format(dateLayout), b.String(), summary)
	}
}

// PrintHeroStats prints the global hero table.
func PrintHeroStats(w io.Writer, rows []model.HeroStatRow) {
	table := newTable(w)
	table.Header("HERO", "GAMES", "WIN%", "KDA", "AVG DURATION", "GPM", "XPM")
	for i := range rows {
		r := &rows[i]
		rate := r.WinRate()
		dur := int(r.AvgDuration + 0.5)
		table.Append(
			r.Name,
			strconv.Itoa(r.GamesPlayed),
			paint(palette.ForWinRate(rate), aggregator.FormatWinRate(rate)),
			fmt.Sprintf("%.2f", r.AvgKDA),
			paint(palette.ForDuration(dur), aggregator.FormatDuration(dur)),
			fmt.Sprintf("%.0f", r.AvgGPM),
			fmt.Sprintf("%.0f", r.AvgXPM),
		)
	}
	table.Render()
}

// PrintMatchOverviews prints the backend's match list in the given order.
func PrintMatchOverviews(w io.Writer, rows []model.MatchOverview) {
	table := newTable(w)
	table.Header("MATCH", "DATE", "DURATION", "MODE", "WINNER", "SCORE")
	for i := range rows {
		m := &rows[i]
		date := "—"
		if !m.StartTime.IsZero() {
			date = m.StartTime.Local().Format("2006-01-02 15:04")
		}
		table.Append(
			strconv.FormatInt(m.MatchID, 10),
			date,
			paint(palette.ForDuration(m.DurationSec), aggregator.FormatDuration(m.DurationSec)),
			m.GameMode.String(),
			m.Winner().String(),
			fmt.Sprintf("%d – %d", m.RadiantScore, m.DireScore),
		)
	}
	table.Render()
}

// PrintPlayerStats prints the backend's player table in the given order.
func PrintPlayerStats(w io.Writer, rows []model.PlayerStatRow) {
	table := newTable(w)
	table.Header("PLAYER", "ACCOUNT", "GAMES", "WIN%", "KDA", "AVG DURATION", "GPM", "XPM")
	for i := range rows {
		p := &rows[i]
		name := p.PersonaName
		if name == "" {
			name = "—"
		}
		dur := int(p.AvgDuration + 0.5)
		table.Append(
			name,
			strconv.FormatInt(p.AccountID, 10),
			strconv.Itoa(p.GamesPlayed),
			paint(palette.ForWinRate(p.WinRate), aggregator.FormatWinRate(p.WinRate)),
			fmt.Sprintf("%.2f", p.AvgKDA),
			paint(palette.ForDuration(dur), aggregator.FormatDuration(dur)),
			fmt.Sprintf("%.0f", p.AvgGPM),
			fmt.Sprintf("%.0f", p.AvgXPM),
		)
	}
	table.Render()
}

// PrintTeammates prints the most frequent allies.
func PrintTeammates(w io.Writer, mates []model.Teammate) {
	table := newTable(w)
	table.Header("TEAMMATE", "ACCOUNT", "GAMES", "WINS", "WIN%")
	for i := range mates {
		t := &mates[i]
		rate := t.WinRate()
		name := t.Name
		if name == "" {
			name = "—"
		}
		table.Append(
			name,
			strconv.FormatInt(t.AccountID, 10),
			strconv.Itoa(t.Games),
			strconv.Itoa(t.Wins),
			paint(palette.ForWinRate(rate), aggregator.FormatWinRate(rate)),
		)
	}
	table.Render()
}

// PrintMatchDetail prints the scoreboard of a single match. focusAccount,
// when non-zero, marks that player's row with ">".
func PrintMatchDetail(w io.Writer, d *model.MatchDetail, names map[int]string, focusAccount int64) {
	winner := "Dire"
	if d.RadiantWin {
		winner = "Radiant"
	}
	phase := aggregator.Phase(d.DurationSec)
	fmt.Fprintf(w, "\nMatch %d  |  %s  |  Mode: %s  |  Duration: %s (%s)  |  Score: Radiant %d – Dire %d  |  Winner: %s\n",
		d.MatchID, d.StartTime.Local().Format("2006-01-02 15:04"), d.GameMode,
		aggregator.FormatDuration(d.DurationSec), phase, d.RadiantScore, d.DireScore, winner)
	fmt.Fprintf(w, "Net worth: Radiant %d  |  Dire %d\n\n", d.NetWorth(true), d.NetWorth(false))

	table := newTable(w)
	table.Header(" ", "TEAM", "HERO", "LVL", "K/D/A", "NET", "LH/DN", "GPM", "XPM", "HD", "TD", "HEAL", "ITEMS")
	for _, side := range []bool{true, false} {
		for i := range d.Players {
			p := &d.Players[i]
			if p.Radiant != side {
				continue
			}
			marker := " "
			if focusAccount != 0 && p.AccountID == focusAccount {
				marker = ">"
			}
			team := model.TeamDire
			if p.Radiant {
				team = model.TeamRadiant
			}
			table.Append(
				marker,
				team.String(),
				heroName(names, p.HeroID),
				strconv.Itoa(p.Level),
				fmt.Sprintf("%d/%d/%d", p.Kills, p.Deaths, p.Assists),
				strconv.Itoa(p.NetWorth),
				fmt.Sprintf("%d/%d", p.LastHits, p.Denies),
				strconv.Itoa(p.GoldPerMin),
				strconv.Itoa(p.XPPerMin),
				strconv.Itoa(p.HeroDamage),
				strconv.Itoa(p.TowerDamage),
				strconv.Itoa(p.HeroHealing),
				FormatItemSlots(p.Items),
			)
		}
	}
	table.Render()
}

// FormatItemSlots lists the six inventory slots in order, "-" for empty ones.
func FormatItemSlots(items []model.Item) string {
	slots := aggregator.ItemSlots(items)
	parts := make([]string, len(slots))
	for i, it := range slots {
		switch {
		case it == nil:
			parts[i] = "-"
		case it.Name != "":
			parts[i] = it.Name
		default:
			parts[i] = "#" + strconv.Itoa(it.ItemID)
		}
	}
	return strings.Join(parts, ", ")
}

// PrintPlayers lists cached accounts.
func PrintPlayers(w io.Writer, players []storage.PlayerOverview) {
	table := newTable(w)
	table.Header("ACCOUNT", "MATCHES", "WINS", "WIN%", "LATEST")
	for _, p := range players {
		rate := aggregator.WinRate(p.Wins, p.Matches)
		latest := "—"
		if !p.LatestMatch.IsZero() {
			latest = p.LatestMatch.Local().Format(dateLayout)
		}
		table.Append(
			strconv.FormatInt(p.AccountID, 10),
			strconv.Itoa(p.Matches),
			strconv.Itoa(p.Wins),
			paint(palette.ForWinRate(rate), aggregator.FormatWinRate(rate)),
			latest,
		)
	}
	table.Render()
}


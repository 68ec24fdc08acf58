package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/pable/go-dota-metrics/internal/model"
)

// PlayerOverview is one cached account for the players listing.
type PlayerOverview struct {
	AccountID   int64
	Matches     int
	Wins        int
	LatestMatch time.Time
}

// DBOverview summarises the whole cache.
type DBOverview struct {
	TotalMatches  int
	UniquePlayers int
	UniqueHeroes  int
	EarliestMatch string // "YYYY-MM-DD", empty when the cache is empty
	LatestMatch   string
}

// InsertHeroes upserts hero metadata in a transaction.
func (db *DB) InsertHeroes(heroes []model.Hero) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO heroes(hero_id, name, img) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, h := range heroes {
		if _, err := stmt.Exec(h.HeroID, h.Name, h.Img); err != nil {
			return fmt.Errorf("insert hero %d: %w", h.HeroID, err)
		}
	}
	return tx.Commit()
}

// HeroNames returns hero_id → display name for every cached hero.
func (db *DB) HeroNames() (map[int]string, error) {
	rows, err := db.conn.Query(`SELECT hero_id, name FROM heroes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

// InsertPlayerMatches upserts a player's matches and replaces their items.
// Uses INSERT OR REPLACE so re-fetching the same history is idempotent.
// When the backend sends two items for one slot the first one is kept.
func (db *DB) InsertPlayerMatches(accountID int64, matches []model.MatchRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	acct := strconv.FormatInt(accountID, 10)
	fetchedAt := time.Now().Unix()

	matchStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_matches(
			account_id, match_id, hero_id, win, start_time, duration_sec,
			game_mode, player_slot, kills, deaths, assists, gpm, xpm, fetched_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer matchStmt.Close()

	clearStmt, err := tx.Prepare(`DELETE FROM match_items WHERE account_id = ? AND match_id = ?`)
	if err != nil {
		return err
	}
	defer clearStmt.Close()

	itemStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO match_items(account_id, match_id, slot_index, item_id, name, img_icon)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	for _, m := range matches {
		_, err = matchStmt.Exec(
			acct, m.MatchID, m.HeroID, boolInt(m.Win), m.StartTime.Unix(), m.DurationSec,
			int(m.GameMode), m.PlayerSlot, m.Kills, m.Deaths, m.Assists,
			m.GoldPerMin, m.XPPerMin, fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("insert match %d: %w", m.MatchID, err)
		}
		if _, err := clearStmt.Exec(acct, m.MatchID); err != nil {
			return fmt.Errorf("clear items for match %d: %w", m.MatchID, err)
		}
		for _, it := range m.Items {
			if it.SlotIndex < 0 || it.SlotIndex >= model.ItemSlotCount {
				continue
			}
			if _, err := itemStmt.Exec(acct, m.MatchID, it.SlotIndex, it.ItemID, it.Name, it.ImgIcon); err != nil {
				return fmt.Errorf("insert item for match %d: %w", m.MatchID, err)
			}
		}
	}
	return tx.Commit()
}

// GetPlayerMatches returns a player's cached matches, newest first, with items attached.
func (db *DB) GetPlayerMatches(accountID int64) ([]model.MatchRecord, error) {
	acct := strconv.FormatInt(accountID, 10)
	rows, err := db.conn.Query(`
		SELECT match_id, hero_id, win, start_time, duration_sec, game_mode, player_slot,
		       kills, deaths, assists, gpm, xpm
		FROM player_matches
		WHERE account_id = ?
		ORDER BY start_time DESC, match_id DESC`, acct)
	if err != nil {
		return nil, err
	}

	var out []model.MatchRecord
	index := make(map[int64]int)
	for rows.Next() {
		var m model.MatchRecord
		var winInt int
		var start int64
		var mode int
		if err := rows.Scan(&m.MatchID, &m.HeroID, &winInt, &start, &m.DurationSec, &mode,
			&m.PlayerSlot, &m.Kills, &m.Deaths, &m.Assists, &m.GoldPerMin, &m.XPPerMin); err != nil {
			rows.Close()
			return nil, err
		}
		m.Win = winInt != 0
		m.StartTime = model.NewTimestamp(time.Unix(start, 0))
		m.GameMode = model.GameMode(mode)
		index[m.MatchID] = len(out)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	items, err := db.conn.Query(`
		SELECT match_id, slot_index, item_id, name, img_icon
		FROM match_items
		WHERE account_id = ?
		ORDER BY match_id, slot_index`, acct)
	if err != nil {
		return nil, err
	}
	defer items.Close()
	for items.Next() {
		var matchID int64
		var it model.Item
		if err := items.Scan(&matchID, &it.SlotIndex, &it.ItemID, &it.Name, &it.ImgIcon); err != nil {
			return nil, err
		}
		if i, ok := index[matchID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, items.Err()
}

// GetPlayerMatch returns one cached match for a player, or nil when absent.
func (db *DB) GetPlayerMatch(accountID, matchID int64) (*model.MatchRecord, error) {
	matches, err := db.GetPlayerMatches(accountID)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].MatchID == matchID {
			return &matches[i], nil
		}
	}
	return nil, nil
}

// ListPlayers returns every cached account, most matches first.
func (db *DB) ListPlayers() ([]PlayerOverview, error) {
	rows, err := db.conn.Query(`
		SELECT account_id, COUNT(*), SUM(win), MAX(start_time)
		FROM player_matches
		GROUP BY account_id
		ORDER BY COUNT(*) DESC, account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerOverview
	for rows.Next() {
		var p PlayerOverview
		var acct string
		var latest int64
		if err := rows.Scan(&acct, &p.Matches, &p.Wins, &latest); err != nil {
			return nil, err
		}
		p.AccountID, _ = strconv.ParseInt(acct, 10, 64)
		p.LatestMatch = time.Unix(latest, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetDBOverview returns cache-wide counts and the stored date range.
func (db *DB) GetDBOverview() (DBOverview, error) {
	var ov DBOverview
	var earliest, latest sql.NullInt64
	err := db.conn.QueryRow(`
		SELECT COUNT(*), COUNT(DISTINCT account_id), COUNT(DISTINCT hero_id),
		       MIN(start_time), MAX(start_time)
		FROM player_matches`).
		Scan(&ov.TotalMatches, &ov.UniquePlayers, &ov.UniqueHeroes, &earliest, &latest)
	if err != nil {
		return ov, err
	}
	if earliest.Valid {
		ov.EarliestMatch = time.Unix(earliest.Int64, 0).Format("2006-01-02")
	}
	if latest.Valid {
		ov.LatestMatch = time.Unix(latest.Int64, 0).Format("2006-01-02")
	}
	return ov, nil
}

// DeletePlayer removes every cached match of an account. Returns the number of matches removed.
func (db *DB) DeletePlayer(accountID int64) (int64, error) {
	acct := strconv.FormatInt(accountID, 10)
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM match_items WHERE account_id = ?`, acct); err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM player_matches WHERE account_id = ?`, acct)
	if err != nil {
		return 0, fmt.Errorf("delete matches: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, tx.Commit()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

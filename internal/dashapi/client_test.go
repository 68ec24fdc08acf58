package dashapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/pable/go-dota-metrics/internal/model"
)

const matchesJSON = `[
  {"matchId": 7500000001, "heroId": 74, "win": true, "startTime": "2024-01-01T18:30:00",
   "durationSec": 2210, "gameMode": 22, "playerSlot": 130,
   "kills": 12, "deaths": 4, "assists": 9, "goldPerMin": 612, "xpPerMin": 701,
   "items": [{"itemId": 1, "slotIndex": 0, "name": "Blink Dagger", "imgIcon": "blink.png"}]},
  {"matchId": 7500000002, "heroId": 1, "win": false, "startTime": 1704135600,
   "durationSec": 1500, "gameMode": 23, "playerSlot": 2,
   "kills": 3, "deaths": 8, "assists": 2, "goldPerMin": 400, "xpPerMin": 450, "items": []}
]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, 1000)
}

func TestGetPlayerMatches(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(matchesJSON))
	})

	ms, err := c.GetPlayerMatches(context.Background(), 239896166, 5000)
	if err != nil {
		t.Fatalf("GetPlayerMatches: %v", err)
	}
	if gotPath != "/api/players/239896166/matches?limit=5000" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if len(ms) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(ms))
	}
	m := ms[0]
	if m.HeroID != 74 || !m.Win || len(m.Items) != 1 {
		t.Errorf("first match decoded wrong: %+v", m)
	}
	if m.GoldPerMin != 612 || m.XPPerMin != 701 {
		t.Errorf("per-minute stats: gpm=%d xpm=%d", m.GoldPerMin, m.XPPerMin)
	}
	if ms[1].GoldPerMin != 400 || ms[1].XPPerMin != 450 {
		t.Errorf("second match per-minute stats: gpm=%d xpm=%d", ms[1].GoldPerMin, ms[1].XPPerMin)
	}
	want := time.Date(2024, 1, 1, 18, 30, 0, 0, time.Local)
	if !m.StartTime.Equal(want) {
		t.Errorf("start time: want %v, got %v", want, m.StartTime.Time)
	}
	if !ms[1].StartTime.Equal(time.Unix(1704135600, 0)) {
		t.Errorf("epoch start time: got %v", ms[1].StartTime.Time)
	}
}

func TestGzipBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("client should advertise gzip")
		}
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		zw.Write([]byte(`[{"hero_id": 1, "name_en": "Anti-Mage", "img_portrait": "am.png"}]`))
		zw.Close()
	})

	heroes, err := c.GetHeroes(context.Background())
	if err != nil {
		t.Fatalf("GetHeroes: %v", err)
	}
	if len(heroes) != 1 || heroes[0].Name != "Anti-Mage" {
		t.Errorf("heroes: %+v", heroes)
	}
}

func TestErrorStatuses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/matches/1" {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := c.GetMatch(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	_, err := c.GetHeroStats(context.Background())
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected generic HTTP error, got %v", err)
	}
}

func TestGetMatchAndHeroStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/matches/42":
			w.Write([]byte(`{"matchId": 42, "durationSec": 2400, "radiantWin": true,
				"radiant_score": 31, "dire_score": 17, "game_mode": 22,
				"players": [{"accountId": 5, "radiant": true, "heroId": 74, "net_worth": 20000,
				             "items": [{"itemId": 1, "slotIndex": 2}]}]}`))
		case "/api/heroes/stats":
			w.Write([]byte(`[{"hero_id": 2, "name_en": "Axe", "games_played": 10, "wins": 6,
				"avg_kda": 3.2, "avg_duration": 2100.5, "avg_gpm": 450, "avg_xpm": 520}]`))
		case "/api/players/5/teammates":
			w.Write([]byte(`[{"accountId": 6, "name": "mate", "games": 12, "wins": 7}]`))
		case "/api/players/5/profile":
			w.Write([]byte(`{"personaName": "Miracle-", "avatarFull": "a.png"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	d, err := c.GetMatch(ctx, 42)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if d.RadiantScore != 31 || len(d.Players) != 1 || d.NetWorth(true) != 20000 {
		t.Errorf("match detail: %+v", d)
	}

	rows, err := c.GetHeroStats(ctx)
	if err != nil {
		t.Fatalf("GetHeroStats: %v", err)
	}
	if len(rows) != 1 || rows[0].WinRate() != 60 || rows[0].AvgDuration != 2100.5 {
		t.Errorf("hero stats: %+v", rows)
	}

	mates, err := c.GetTeammates(ctx, 5, 10)
	if err != nil || len(mates) != 1 || mates[0].Games != 12 {
		t.Errorf("teammates: %+v err=%v", mates, err)
	}

	p, err := c.GetProfile(ctx, 5)
	if err != nil || p.PersonaName != "Miracle-" {
		t.Errorf("profile: %+v err=%v", p, err)
	}
}

func TestListMatchesAndPlayers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/matches":
			w.Write([]byte(`[{"matchId": 9, "startTime": "2024-01-02T20:15:00", "durationSec": 1800,
				"radiantWin": false, "radiantScore": 20, "direScore": 35, "gameMode": 22}]`))
		case "/api/players":
			w.Write([]byte(`[{"account_id": 5, "personaname": "Miracle-", "avatarfull": "a.png",
				"games_played": 40, "win_rate": 62.5, "avg_kda": 4.1, "avg_duration": 2200,
				"avg_gpm": 610, "avg_xpm": 700}]`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	ms, err := c.ListMatches(ctx)
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(ms) != 1 || ms[0].DireScore != 35 || ms[0].GameMode != model.GameModeRanked {
		t.Fatalf("matches: %+v", ms)
	}
	if ms[0].Winner() != model.TeamDire || ms[0].ScoreDiff() != -15 {
		t.Errorf("winner=%v diff=%d", ms[0].Winner(), ms[0].ScoreDiff())
	}
	if want := time.Date(2024, 1, 2, 20, 15, 0, 0, time.Local); !ms[0].StartTime.Equal(want) {
		t.Errorf("start time: %v", ms[0].StartTime.Time)
	}

	ps, err := c.ListPlayers(ctx)
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(ps) != 1 || ps[0].AccountID != 5 || ps[0].PersonaName != "Miracle-" || ps[0].WinRate != 62.5 || ps[0].AvgGPM != 610 {
		t.Errorf("players: %+v", ps)
	}
}

func TestIngestFull(t *testing.T) {
	var method, path string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.Write([]byte(`{"inserted": 1234, "accountId": 239896166, "type": "full"}`))
	})

	res, err := c.IngestFull(context.Background(), 239896166)
	if err != nil {
		t.Fatalf("IngestFull: %v", err)
	}
	if method != http.MethodPost || path != "/api/admin/ingest/full/239896166" {
		t.Errorf("unexpected request %s %s", method, path)
	}
	if res.Inserted != 1234 || res.Type != "full" {
		t.Errorf("result: %+v", res)
	}
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetHeroes(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

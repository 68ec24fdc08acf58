// Package dashapi is a minimal client for the Dota dashboard backend API.
package dashapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/pable/go-dota-metrics/internal/model"
)

// ErrNotFound is returned when the backend answers 404.
var ErrNotFound = errors.New("not found")

// Client is a rate-limited dashboard API client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a client for the backend rooted at baseURL.
// requestsPerSecond bounds the outgoing request rate.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// get performs a GET request against the API and JSON-decodes the response
// body into out. Gzip-encoded bodies are decompressed.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, out)
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s %s: HTTP %d", method, path, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("%s %s: gzip: %w", method, path, err)
		}
		defer zr.Close()
		body = zr
	}
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// GetPlayerMatches returns up to limit of the player's most recent matches.
func (c *Client) GetPlayerMatches(ctx context.Context, accountID int64, limit int) ([]model.MatchRecord, error) {
	var out []model.MatchRecord
	path := fmt.Sprintf("/api/players/%d/matches?limit=%d", accountID, limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTeammates returns the player's most frequent allies.
func (c *Client) GetTeammates(ctx context.Context, accountID int64, limit int) ([]model.Teammate, error) {
	var out []model.Teammate
	path := fmt.Sprintf("/api/players/%d/teammates?limit=%d", accountID, limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHeroes returns static hero metadata.
func (c *Client) GetHeroes(ctx context.Context) ([]model.Hero, error) {
	var out []model.Hero
	if err := c.get(ctx, "/api/heroes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetHeroStats returns the global ranked hero table.
func (c *Client) GetHeroStats(ctx context.Context) ([]model.HeroStatRow, error) {
	var out []model.HeroStatRow
	if err := c.get(ctx, "/api/heroes/stats", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetMatch returns the full detail of a single match.
func (c *Client) GetMatch(ctx context.Context, matchID int64) (*model.MatchDetail, error) {
	var out model.MatchDetail
	if err := c.get(ctx, fmt.Sprintf("/api/matches/%d", matchID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the player's Steam persona.
func (c *Client) GetProfile(ctx context.Context, accountID int64) (*model.PlayerProfile, error) {
	var out model.PlayerProfile
	if err := c.get(ctx, fmt.Sprintf("/api/players/%d/profile", accountID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMatches returns every match the backend has ingested.
func (c *Client) ListMatches(ctx context.Context) ([]model.MatchOverview, error) {
	var out []model.MatchOverview
	if err := c.get(ctx, "/api/matches", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPlayers returns the backend's player table.
func (c *Client) ListPlayers(ctx context.Context) ([]model.PlayerStatRow, error) {
	var out []model.PlayerStatRow
	if err := c.get(ctx, "/api/players", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IngestResult is the backend's answer to an ingest request.
type IngestResult struct {
	Inserted  int    `json:"inserted"`
	AccountID int64  `json:"accountId"`
	Type      string `json:"type"`
}

// IngestFull asks the backend to pull the player's entire match history
// from upstream. It blocks until the backend has finished.
func (c *Client) IngestFull(ctx context.Context, accountID int64) (*IngestResult, error) {
	var out IngestResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/ingest/full/%d", accountID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

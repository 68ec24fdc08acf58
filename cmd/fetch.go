package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-dota-metrics/internal/dashapi"
	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var (
	// fetchLimit overrides api.fetch_limit when set.
	fetchLimit int
	fetchFull  bool
)

// fetchCmd downloads a player's matches and hero metadata into the cache.
var fetchCmd = &cobra.Command{
	Use:   "fetch <account-id>",
	Short: "Download a player's match history into the local cache",
	Long: `Requests the player's recent matches, the hero list and the player's
profile from the dashboard backend in parallel and stores matches and heroes
in the local SQLite cache. Re-fetching replaces stored rows.

With --full the backend is first asked to ingest the player's entire history
from upstream. This can take minutes; raise api.timeout accordingly.

Example:
  dotametrics fetch 239896166 --limit 500
  dotametrics fetch 239896166 --full --limit 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "matches to request (default from config)")
	fetchCmd.Flags().BoolVar(&fetchFull, "full", false, "have the backend ingest the full history first")
}

func runFetch(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	limit := cfg.API.FetchLimit
	if fetchLimit > 0 {
		limit = fetchLimit
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if fetchFull {
		if err := requestFullIngest(cmd.Context(), client, accountID); err != nil {
			return err
		}
	}
	n, err := doFetch(cmd.Context(), client, db, accountID, limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Stored %d matches for account %d.\n", n, accountID)
	return nil
}

// requestFullIngest triggers the backend's full-history ingest for the account.
func requestFullIngest(ctx context.Context, client *dashapi.Client, accountID int64) error {
	start := time.Now()
	res, err := client.IngestFull(ctx, accountID)
	if err != nil {
		return fmt.Errorf("full ingest: %w", err)
	}
	log.Info().
		Int64("account", accountID).
		Int("inserted", res.Inserted).
		Dur("took", time.Since(start)).
		Msg("backend ingest complete")
	return nil
}

// doFetch pulls matches, heroes and the profile concurrently and persists
// matches and heroes. The profile is informational; a missing one is not an
// error.
func doFetch(ctx context.Context, client *dashapi.Client, db *storage.DB, accountID int64, limit int) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	var (
		matches []model.MatchRecord
		heroes  []model.Hero
		profile *model.PlayerProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = client.GetPlayerMatches(gctx, accountID, limit)
		if err != nil {
			return fmt.Errorf("fetch matches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		heroes, err = client.GetHeroes(gctx)
		if err != nil {
			return fmt.Errorf("fetch heroes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		p, err := client.GetProfile(gctx, accountID)
		switch {
		case errors.Is(err, dashapi.ErrNotFound):
			log.Warn().Int64("account", accountID).Msg("no profile on backend")
		case err != nil:
			log.Warn().Err(err).Int64("account", accountID).Msg("profile lookup failed")
		default:
			profile = p
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := db.InsertHeroes(heroes); err != nil {
		return 0, fmt.Errorf("store heroes: %w", err)
	}
	if err := db.InsertPlayerMatches(accountID, matches); err != nil {
		return 0, fmt.Errorf("store matches: %w", err)
	}

	ev := log.Info().
		Int64("account", accountID).
		Int("matches", len(matches)).
		Int("heroes", len(heroes)).
		Dur("took", time.Since(start))
	if profile != nil {
		ev = ev.Str("persona", profile.PersonaName)
	}
	ev.Msg("fetch complete")
	return len(matches), nil
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/aggregator"
	"github.com/pable/go-dota-metrics/internal/model"
)

var (
	exportOut  string
	exportGzip bool
	exportDays int
)

// exportFilters echoes the applied filters in the export document.
type exportFilters struct {
	Range        string `json:"range"`
	ExcludeTurbo bool   `json:"exclude_turbo"`
	HeroID       *int   `json:"hero_id,omitempty"`
	GameMode     *int   `json:"game_mode,omitempty"`
}

// exportHero is one TopHeroes row with its derived values spelled out.
type exportHero struct {
	HeroID  int     `json:"hero_id"`
	Name    string  `json:"name,omitempty"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
	KDA     float64 `json:"kda"`
}

// exportDoc is the top-level JSON document written by export.
type exportDoc struct {
	AccountID   int64                        `json:"account_id"`
	GeneratedAt string                       `json:"generated_at"`
	Filters     exportFilters                `json:"filters"`
	Summary     model.AggregateSummary       `json:"summary"`
	WinRate     float64                      `json:"win_rate"`
	Heroes      []exportHero                 `json:"heroes"`
	WindowDays  int                          `json:"window_days"`
	Activity    map[string]model.ActivityDay `json:"activity"`
	Matches     []model.MatchRecord          `json:"matches"`
}

// exportCmd writes a player's derived statistics as a JSON document.
var exportCmd = &cobra.Command{
	Use:   "export <account-id>",
	Short: "Export a player's statistics as JSON",
	Long: `Runs the full pipeline over the cached, filtered matches and writes the summary,
hero leaderboard, activity grid and raw matches as one JSON document.

Output goes to stdout unless --out is given. With --gzip, or when --out ends
in .gz, the document is gzip-compressed.

Example:
  dotametrics export 239896166 --range 30d --out stats.json.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().BoolVar(&exportGzip, "gzip", false, "gzip-compress the output")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "activity window in days (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		return err
	}
	criteria, err := filterCriteria(cmd)
	if err != nil {
		return err
	}
	days := cfg.View.ActivityWindowDays
	if exportDays > 0 {
		days = exportDays
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()
	v, err := loadPlayerView(db, accountID, criteria, now)
	if err != nil {
		return err
	}
	if v == nil {
		notFetched(os.Stderr, accountID)
		return nil
	}

	doc := buildExport(v, criteria, days, now)

	if exportOut == "" {
		return writeExport(os.Stdout, doc, exportGzip)
	}
	if err := writeExportFile(exportOut, doc, exportGzip || strings.HasSuffix(exportOut, ".gz")); err != nil {
		return err
	}
	log.Info().Str("path", exportOut).Int("matches", len(doc.Matches)).Msg("export written")
	return nil
}

func buildExport(v *playerView, c model.FilterCriteria, days int, now time.Time) exportDoc {
	summary := aggregator.Summarize(v.matches)
	filters := exportFilters{Range: c.TimeRange.String(), ExcludeTurbo: c.ExcludeTurbo, HeroID: c.HeroID}
	if c.GameMode != nil {
		gm := int(*c.GameMode)
		filters.GameMode = &gm
	}

	var heroes []exportHero
	for _, a := range aggregator.TopHeroes(v.matches, 0) {
		heroes = append(heroes, exportHero{
			HeroID:  a.HeroID,
			Name:    v.names[a.HeroID],
			Matches: a.Matches,
			Wins:    a.Wins,
			WinRate: a.WinRate(),
			KDA:     a.KDA(),
		})
	}

	matches := v.matches
	if matches == nil {
		matches = []model.MatchRecord{}
	}
	return exportDoc{
		AccountID:   v.accountID,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Filters:     filters,
		Summary:     summary,
		WinRate:     summary.WinRate(),
		Heroes:      heroes,
		WindowDays:  days,
		Activity:    aggregator.ActivityGrid(v.matches, days, now),
		Matches:     matches,
	}
}

func writeExport(w io.Writer, doc exportDoc, compress bool) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	data = append(data, '\n')
	if !compress {
		_, err := w.Write(data)
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("gzip export: %w", err)
	}
	return zw.Close()
}

// writeExportFile writes the document to path. A failed close is reported
// since buffered bytes may not have reached the disk.
func writeExportFile(path string, doc exportDoc, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writeExport(f, doc, compress); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/model"
)

// ErrInvalidFilter is returned for malformed filter flag values.
var ErrInvalidFilter = errors.New("invalid filter")

// filter flags, shared by every command that reads cached matches.
var (
	filterExcludeTurbo bool
	filterRange        string
	filterHero         int
	filterMode         string
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&filterExcludeTurbo, "exclude-turbo", false, "drop Turbo matches")
	cmd.Flags().StringVar(&filterRange, "range", "all", "time range: all, 7d or 30d")
	cmd.Flags().IntVar(&filterHero, "hero", 0, "only matches on this hero id")
	cmd.Flags().StringVar(&filterMode, "mode", "", "only matches in this game mode (id or label, e.g. 22 or Turbo)")
}

// filterCriteria builds the criteria from the current flag values.
func filterCriteria(cmd *cobra.Command) (model.FilterCriteria, error) {
	return buildCriteria(filterExcludeTurbo, filterRange, cmd.Flags().Changed("hero"), filterHero, filterMode)
}

func buildCriteria(excludeTurbo bool, rangeStr string, heroSet bool, hero int, mode string) (model.FilterCriteria, error) {
	c := model.FilterCriteria{ExcludeTurbo: excludeTurbo}

	tr, ok := model.ParseTimeRange(rangeStr)
	if !ok {
		return c, fmt.Errorf("%w: range %q (want all, 7d or 30d)", ErrInvalidFilter, rangeStr)
	}
	c.TimeRange = tr

	if heroSet {
		if hero <= 0 {
			return c, fmt.Errorf("%w: hero id %d", ErrInvalidFilter, hero)
		}
		h := hero
		c.HeroID = &h
	}
	if mode != "" {
		gm, ok := model.ParseGameMode(mode)
		if !ok {
			return c, fmt.Errorf("%w: game mode %q", ErrInvalidFilter, mode)
		}
		c.GameMode = &gm
	}
	return c, nil
}

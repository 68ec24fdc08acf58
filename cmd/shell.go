package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/model"
	"github.com/pable/go-dota-metrics/internal/report"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the match cache. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("dotametrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("dotametrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			shellPlayers(db)
		case "summary", "matches", "heroes", "activity":
			if len(args) == 0 {
				cError.Fprintf(os.Stderr, "usage: %s <account-id> [--exclude-turbo] [--range 7d|30d] [--hero <id>] [--mode <mode>]\n", cmd)
				continue
			}
			shellPlayerView(db, cmd, args)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players", "list cached players"},
		{"summary <account-id> [filters]", "win rate and top heroes"},
		{"matches <account-id> [filters]", "match history, newest first"},
		{"heroes <account-id> [filters]", "full hero leaderboard"},
		{"activity <account-id> [filters]", "daily activity heatmap"},
		{"filters", "--exclude-turbo --range 7d|30d --hero <id> --mode <mode>"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-36s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellPlayers(db *storage.DB) {
	players, err := db.ListPlayers()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(players) == 0 {
		cMuted.Println("No players cached yet.")
		return
	}
	report.PrintPlayers(os.Stdout, players)
}

func shellPlayerView(db *storage.DB, view string, args []string) {
	accountID, err := parseAccountID(args[0])
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	criteria, err := parseShellFilters(args[1:])
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	now := time.Now()
	v, err := loadPlayerView(db, accountID, criteria, now)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if v == nil {
		cWarn.Fprintf(os.Stderr, "no matches cached for account %d\n", accountID)
		return
	}

	switch view {
	case "summary":
		printSummaryView(os.Stdout, v, cfg.View.TopHeroes)
	case "matches":
		printMatchesView(os.Stdout, v, 20)
	case "heroes":
		cHeader.Fprintf(os.Stdout, "\n--- Heroes: %d ---\n\n", accountID)
		printHeroesView(os.Stdout, v)
	case "activity":
		printActivityView(os.Stdout, v, cfg.View.ActivityWindowDays, now)
	}
}

// parseShellFilters reads the filter flags from a REPL line. Values persist
// only for that line.
func parseShellFilters(args []string) (model.FilterCriteria, error) {
	var (
		excludeTurbo bool
		rangeStr     = "all"
		heroSet      bool
		hero         int
		mode         string
	)
	for i := 0; i < len(args); i++ {
		next := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%w: %s needs a value", ErrInvalidFilter, args[i])
			}
			i++
			return args[i], nil
		}
		switch args[i] {
		case "--exclude-turbo":
			excludeTurbo = true
		case "--range":
			v, err := next()
			if err != nil {
				return model.FilterCriteria{}, err
			}
			rangeStr = v
		case "--hero":
			v, err := next()
			if err != nil {
				return model.FilterCriteria{}, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return model.FilterCriteria{}, fmt.Errorf("%w: hero id %q", ErrInvalidFilter, v)
			}
			heroSet, hero = true, n
		case "--mode":
			v, err := next()
			if err != nil {
				return model.FilterCriteria{}, err
			}
			mode = v
		default:
			return model.FilterCriteria{}, fmt.Errorf("%w: unknown flag %q", ErrInvalidFilter, args[i])
		}
	}
	return buildCriteria(excludeTurbo, rangeStr, heroSet, hero, mode)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce   bool
	dropAccount string
)

// dropCmd deletes the cache file, or one player's rows with --account.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the match cache",
	Long: `Permanently delete the SQLite match cache. Re-fetch your players afterwards to rebuild.

With --account only that player's matches and items are removed.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().StringVar(&dropAccount, "account", "", "only delete this account's cached matches")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if dropAccount != "" {
		return dropPlayer(dropAccount)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files; absent when the database was closed cleanly.
	os.Remove(dbPath + "-wal")
	os.Remove(dbPath + "-shm")
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}

func dropPlayer(arg string) error {
	accountID, err := parseAccountID(arg)
	if err != nil {
		return err
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will delete all cached matches of account %d.\n", accountID)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.DeletePlayer(accountID)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted %d matches of account %d.\n", n, accountID)
	return nil
}

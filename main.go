// Package main is the entry point for the dotametrics CLI tool, which caches
// Dota 2 match histories and derives player statistics from them.
package main

import "github.com/pable/go-dota-metrics/cmd"

func main() {
	cmd.Execute()
}

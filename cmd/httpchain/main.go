// Command httpchain loads, resolves, validates, and executes declarative
// HTTP API test scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/erraggy/httpchain/cmd/httpchain/commands"
)

// validCommands lists all valid command names for typo suggestions.
var validCommands = []string{"run", "validate", "discover", "version", "help"}

// levenshteinDistance calculates the minimum edit distance between two
// strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range len(b) + 1 {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// suggestCommand returns the closest matching command if the edit distance
// is <= 2.
func suggestCommand(input string) string {
	var bestMatch string
	bestDistance := 3

	for _, cmd := range validCommands {
		dist := levenshteinDistance(input, cmd)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = cmd
		}
	}

	return bestMatch
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		commands.HandleVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		if err := commands.HandleRun(os.Args[2:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := commands.HandleValidate(os.Args[2:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "discover":
		if err := commands.HandleDiscover(os.Args[2:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		commands.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			commands.Writef(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`httpchain - declarative HTTP API test scenario engine

Usage:
  httpchain <command> [options]

Commands:
  run         Execute a scenario (or every scenario under a directory) against live HTTP
  validate    Resolve, build, and validate a scenario file without executing it
  discover    List scenario files under a directory matching the discovery pattern
  version     Show version information
  help        Show this help message

Examples:
  httpchain validate test_create_order.http.json
  httpchain run test_create_order.http.json --var base_url=https://api.example.com
  httpchain run --dir ./tests --suffix http
  httpchain discover ./tests

Run 'httpchain <command> --help' for more information on a command.`)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for convolens.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdReview Command = iota
	CmdLabel
	CmdRate
	CmdLeaderboard
	CmdSuggest
	CmdDataset
	CmdCollect
	CmdSession
	CmdConfig
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific remaining args
	Raw []string
}

const usageText = `convolens - game review for conversations

Convolens reviews texting the way chess engines review games: every
message gets a rubric score, a move label (Brilliant through Blunder),
an explanation, and a running evaluation bar. Players earn an Elo-style
rating from reviewed conversations.

Usage:
  convolens review <file|id>     Review a conversation
    --tui                        Open the interactive review screen
    --format md|html|json        Export the review instead of printing
    --out DIR                    Export directory (default: current)
  convolens label <file>         Interactive labelling session
    --out FILE                   Write labelled JSON to FILE instead of
                                 the dataset inbox
  convolens rate <file|id>       Apply a rating update from a review
    --us NAME                    Name of the self-side player
    --them NAME                  Name of the other player
  convolens leaderboard          Show the rating leaderboard
  convolens suggest <file|id>    Show better moves for weak messages
    --top N                      Alternatives per message (default 3)
  convolens dataset <subcommand> Labelled dataset management
  convolens collect              Pull new screenshots from the community
    --limit N                    Posts to examine (default 100)
  convolens session <subcommand> Saved review management
  convolens config <subcommand>  Configuration
  convolens status               Show system status
  convolens version              Show version
  convolens help                 Show this help

Dataset Commands (progress toward the 10,000 labelled messages goal):
  convolens dataset import <file|dir>  Import labelled JSON
  convolens dataset count              Count labelled messages
  convolens dataset stats              Per-label and per-speaker stats
  convolens dataset search <query>     Full-text search
    --label NAME                       Restrict to one label
    --limit N                          Max results (default 50)
  convolens dataset label <name>       List messages with one label
  convolens dataset bundle <conv_id>   Reassemble one conversation
  convolens dataset watch              Watch the inbox for drops

Session Commands:
  convolens session list               List saved reviews
  convolens session show <id|index>    Print a saved review
  convolens session search <query>     Search titles and messages
  convolens session export <id>        Export a saved review
    --format md|html|json              Export format (default: md)
  convolens session delete <id>        Delete a saved review
    --confirm                          Skip the confirmation prompt
  convolens session clear              Delete all saved reviews

Config Commands:
  convolens config list                List all configuration keys
  convolens config get <key>           Get a value (dot notation)
  convolens config set <key> <value>   Set a value
  convolens config path                Show the config file path
  convolens config reset               Restore default configuration

Examples:
  convolens review chat.txt --tui
  convolens review chat.json --format md --out ./reviews
  convolens label saturday.txt
  convolens rate conv_a1b2c3d4 --us dana --them sam
  convolens dataset search "dinner plans" --label blunder
  convolens collect --limit 50

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("convolens version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out for testing.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdHelp, parsed
	}

	cmd := strings.ToLower(remaining[0])
	parsed.Raw = remaining[1:]

	switch cmd {
	case "review":
		return CmdReview, parsed

	case "label":
		return CmdLabel, parsed

	case "rate":
		return CmdRate, parsed

	case "leaderboard", "lb":
		return CmdLeaderboard, parsed

	case "suggest", "suggestions":
		return CmdSuggest, parsed

	case "dataset", "data":
		return CmdDataset, parsed

	case "collect", "collector":
		return CmdCollect, parsed

	case "session", "sessions":
		return CmdSession, parsed

	case "config":
		return CmdConfig, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown command: treat a readable path as an implicit
		// review target, otherwise show help.
		if _, err := os.Stat(remaining[0]); err == nil {
			parsed.Raw = remaining
			return CmdReview, parsed
		}
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns the rest.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsed
}

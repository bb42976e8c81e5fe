// convolens - Game review for text conversations.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/convolens/internal/cli"
	"github.com/jeranaias/convolens/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.4.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Load configuration early so every handler sees the same view.
	// A broken config file is fatal for everything except help/version.
	if err := config.ReloadGlobal(); err != nil && cmd != cli.CmdHelp && cmd != cli.CmdVersion {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(cli.ExitConfigError)
	}

	var err error
	switch cmd {
	case cli.CmdReview:
		err = cli.HandleReview(args)
	case cli.CmdLabel:
		err = cli.HandleLabel(args)
	case cli.CmdRate:
		err = cli.HandleRate(args)
	case cli.CmdLeaderboard:
		err = cli.HandleLeaderboard(args)
	case cli.CmdSuggest:
		err = cli.HandleSuggest(args)
	case cli.CmdDataset:
		err = cli.HandleDataset(args)
	case cli.CmdCollect:
		err = cli.HandleCollect(args)
	case cli.CmdSession:
		err = cli.HandleSession(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}

	if err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}

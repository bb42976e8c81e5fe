// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// collect_cmd.go - The collect command: pull conversation screenshots
// from a community listing.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jeranaias/convolens/internal/collect"
	"github.com/jeranaias/convolens/internal/config"
)

// collectorConfig builds the collector configuration from the app config.
func collectorConfig(cfg *config.Config) (*collect.Config, error) {
	saveDir := cfg.Collector.SaveDir
	if saveDir == "" {
		base, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		saveDir = filepath.Join(base, "screenshots")
	}

	cc := collect.DefaultConfig(saveDir)
	if cfg.Collector.BaseURL != "" {
		cc.BaseURL = cfg.Collector.BaseURL
	}
	if cfg.Collector.Community != "" {
		cc.Community = cfg.Collector.Community
	}
	if cfg.Collector.PostLimit > 0 {
		cc.PostLimit = cfg.Collector.PostLimit
	}
	if cfg.Collector.UserAgent != "" {
		cc.UserAgent = cfg.Collector.UserAgent
	}
	if cfg.Collector.RequestIntervalMs > 0 {
		cc.RequestInterval = time.Duration(cfg.Collector.RequestIntervalMs) * time.Millisecond
	}
	return cc, nil
}

// HandleCollect runs one collector pass.
func HandleCollect(args Args) error {
	parser := NewArgParser(args.Raw)

	cc, err := collectorConfig(config.Global())
	if err != nil {
		return HandleError(err, args.JSON)
	}
	if limit := parser.FlagIntOrDefault("limit", 0); limit > 0 {
		cc.PostLimit = limit
	}
	if community := parser.Flag("community"); community != "" {
		cc.Community = community
	}

	collector, err := collect.New(cc)
	if err != nil {
		return HandleError(WrapError(err, "failed to create collector"), args.JSON)
	}

	// Ctrl-c cancels mid-run; state is saved for what completed.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !args.Quiet {
		fmt.Printf("Collecting from %s/r/%s (limit %d)...\n", cc.BaseURL, cc.Community, cc.PostLimit)
	}

	summary, err := collector.Run(ctx)
	if err != nil {
		return HandleError(WrapError(err, "collector run failed"), args.JSON)
	}

	if args.JSON {
		return printJSON(summary)
	}

	fmt.Println(TitleStyle.Render("Collector run " + summary.RunID))
	fmt.Printf("%s %d\n", RenderLabel("Downloaded:"), summary.Downloaded)
	fmt.Printf("%s %d posts, %d duplicate files\n", RenderLabel("Skipped:"), summary.SkippedPosts, summary.SkippedHashes)
	if summary.Failed > 0 {
		fmt.Printf("%s %d\n", RenderLabel("Failed:"), summary.Failed)
	}
	fmt.Printf("%s %s\n", RenderLabel("Saved to:"), summary.SaveDir)
	return nil
}

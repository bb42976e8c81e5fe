// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// dataset_cmd.go - The dataset command: the labelled-message corpus.
//
// Subcommands:
//
//	import <file|dir>   import labelled JSON into the corpus
//	count               show the message count
//	stats               show label and speaker breakdowns
//	search <query>      full-text search over labelled messages
//	label <name>        list messages carrying one label
//	bundle <conv-id>    dump one conversation's labelled rows
//	watch               watch the inbox and import drops automatically

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/dataset"
	"github.com/jeranaias/convolens/internal/util"
)

const datasetUsage = "convolens dataset <import|count|stats|search|label|bundle|watch> [args]"

// datasetConfig builds the dataset configuration from the app config.
func datasetConfig(cfg *config.Config) (*dataset.Config, error) {
	base, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	dc := dataset.DefaultConfig(base)
	if cfg.Dataset.DatabasePath != "" {
		dc.DatabasePath = cfg.Dataset.DatabasePath
	}
	if cfg.Dataset.InboxDir != "" {
		dc.InboxDir = cfg.Dataset.InboxDir
	}
	if cfg.Dataset.Target > 0 {
		dc.Target = cfg.Dataset.Target
	}
	dc.EnableWatch = cfg.Dataset.WatchEnabled
	if cfg.Dataset.WatchDebounceMs > 0 {
		dc.WatchDebounce = time.Duration(cfg.Dataset.WatchDebounceMs) * time.Millisecond
	}
	return dc, nil
}

// openDataset opens the corpus database from configuration.
func openDataset() (*dataset.Dataset, error) {
	dc, err := datasetConfig(config.Global())
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Open(dc)
	if err != nil {
		return nil, WrapError(err, "failed to open dataset")
	}
	return ds, nil
}

// HandleDataset dispatches dataset subcommands.
func HandleDataset(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "import":
		return handleDatasetImport(parser, args)
	case "count", "":
		return handleDatasetCount(args)
	case "stats":
		return handleDatasetStats(args)
	case "search":
		return handleDatasetSearch(parser, args)
	case "label":
		return handleDatasetLabel(parser, args)
	case "bundle":
		return handleDatasetBundle(parser, args)
	case "watch":
		return handleDatasetWatch(args)
	default:
		return HandleError(NewValidationErrorWithExample(
			"subcommand", parser.Subcommand(), "unknown dataset subcommand", datasetUsage), args.JSON)
	}
}

// handleDatasetImport imports a labelled JSON file or a directory of them.
func handleDatasetImport(parser *ArgParser, args Args) error {
	path := parser.Positional(1)
	if path == "" {
		return HandleError(ErrMissingArgument("path", "convolens dataset import <file|dir>"), args.JSON)
	}

	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	info, err := os.Stat(path)
	if err != nil {
		return HandleError(WrapError(err, "cannot read import path"), args.JSON)
	}

	ctx := context.Background()
	var summary *dataset.ImportSummary
	if info.IsDir() {
		summary, err = ds.ImportDir(ctx, path)
	} else {
		summary, err = ds.ImportFile(ctx, path)
	}
	if err != nil {
		return HandleError(WrapError(err, "import failed"), args.JSON)
	}

	if args.JSON {
		return printJSON(summary)
	}

	fmt.Printf("%s imported %d messages across %d conversations from %s\n",
		RenderStatus("ok"), summary.Messages, summary.Conversations, summary.Source)
	if summary.Skipped > 0 {
		fmt.Printf("%s skipped %d rows with invalid labels\n",
			WarningStyle.Render("[WARN]"), summary.Skipped)
	}
	return progressLine(ds, args)
}

// handleDatasetCount shows corpus size against the target.
func handleDatasetCount(args Args) error {
	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	if args.JSON {
		p, err := ds.Progress()
		if err != nil {
			return HandleError(err, args.JSON)
		}
		return printJSON(p)
	}
	return progressLine(ds, args)
}

// progressLine prints the corpus progress bar toward the target.
func progressLine(ds *dataset.Dataset, args Args) error {
	p, err := ds.Progress()
	if err != nil {
		return HandleError(err, args.JSON)
	}

	const barWidth = 30
	filled := int(p.Percent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)

	fmt.Printf("%s [%s] %d / %d (%.1f%%)\n",
		RenderLabel("Progress:", 10),
		HighlightStyle.Render(bar),
		p.Messages, p.Target, p.Percent)
	return nil
}

// handleDatasetStats prints per-label and per-speaker breakdowns.
func handleDatasetStats(args Args) error {
	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	stats, err := ds.Stats()
	if err != nil {
		return HandleError(err, args.JSON)
	}

	if args.JSON {
		return printJSON(stats)
	}

	fmt.Println(TitleStyle.Render("Dataset"))
	fmt.Printf("%s %d\n", RenderLabel("Conversations:"), stats.Conversations)
	fmt.Printf("%s %d\n", RenderLabel("Messages:"), stats.Messages)
	fmt.Printf("%s %d\n", RenderLabel("Speakers:"), stats.Speakers)
	fmt.Printf("%s %s\n", RenderLabel("Database size:"), formatBytes(stats.DatabaseSize))

	if len(stats.Labels) > 0 {
		fmt.Println(SectionStyle.Render("Labels"))
		order := []string{"brilliant", "great", "best", "excellent", "good", "inaccuracy", "mistake", "miss", "blunder"}
		for _, name := range order {
			if n, ok := stats.Labels[name]; ok {
				fmt.Printf("%s %d\n", RenderLabel(name+":", 14), n)
			}
		}
	}
	return progressLine(ds, args)
}

// handleDatasetSearch runs full-text search over the corpus.
func handleDatasetSearch(parser *ArgParser, args Args) error {
	query := parser.JoinPositionalFrom(1)
	if query == "" {
		return HandleError(ErrMissingArgument("query", "convolens dataset search <query> [--label NAME] [--limit N]"), args.JSON)
	}

	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	options := dataset.DefaultSearchOptions()
	options.MaxResults = parser.FlagIntOrDefault("limit", options.MaxResults)
	if l := parser.Flag("label"); l != "" {
		options.Labels = strings.Split(l, ",")
	}
	if s := parser.Flag("speaker"); s != "" {
		options.Speakers = strings.Split(s, ",")
	}

	results, err := ds.Search(query, options)
	if err != nil {
		return HandleError(WrapError(err, "search failed"), args.JSON)
	}

	return printSearchResults(results, args)
}

// handleDatasetLabel lists messages carrying one label.
func handleDatasetLabel(parser *ArgParser, args Args) error {
	name := parser.Positional(1)
	if name == "" {
		return HandleError(ErrMissingArgument("label", "convolens dataset label <name> [--limit N]"), args.JSON)
	}

	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	results, err := ds.ByLabel(strings.ToLower(name), parser.FlagIntOrDefault("limit", 50))
	if err != nil {
		return HandleError(err, args.JSON)
	}
	return printSearchResults(results, args)
}

// printSearchResults renders search result rows.
func printSearchResults(results []dataset.SearchResult, args Args) error {
	if args.JSON {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("%s %s %s\n",
			DimStyle.Render(util.PadRight(r.ConversationID, 16)),
			InfoStyle.Render(util.PadRight(r.Label, 10)),
			ValueStyle.Render(util.TruncateRunes(util.CollapseSpace(r.Text), 70)))
	}
	fmt.Println(DimStyle.Render(fmt.Sprintf("%d results", len(results))))
	return nil
}

// handleDatasetBundle dumps one conversation's labelled rows as JSON.
func handleDatasetBundle(parser *ArgParser, args Args) error {
	convID := parser.Positional(1)
	if convID == "" {
		return HandleError(ErrMissingArgument("conversation-id", "convolens dataset bundle <conv-id>"), args.JSON)
	}

	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	bundle, err := ds.Bundle(convID)
	if err != nil {
		return HandleError(err, args.JSON)
	}
	return printJSON(bundle)
}

// handleDatasetWatch watches the inbox until interrupted.
func handleDatasetWatch(args Args) error {
	ds, err := openDataset()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	defer ds.Close()

	if err := ds.Watch(); err != nil {
		return HandleError(WrapError(err, "failed to start inbox watcher"), args.JSON)
	}

	dc, _ := datasetConfig(config.Global())
	fmt.Printf("%s watching %s (ctrl-c to stop)\n", RenderStatus("ok"), dc.InboxDir)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println()
	return progressLine(ds, args)
}

// printJSON pretty-prints a value to stdout.
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatBytes renders a byte count with a human unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

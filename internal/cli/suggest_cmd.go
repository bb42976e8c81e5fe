// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest_cmd.go - The suggest command: ranked alternatives for weak
// messages.

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/suggest"
	"github.com/jeranaias/convolens/internal/util"
)

const suggestUsage = "convolens suggest <file|id> [--top N] [--move N]"

// HandleSuggest prints reply suggestions for the weak messages in a
// conversation, or for a single move with --move.
func HandleSuggest(args Args) error {
	parser := NewArgParser(args.Raw)

	ref := parser.Positional(0)
	if ref == "" {
		return HandleError(ErrMissingArgument("conversation", suggestUsage), args.JSON)
	}

	cfg := config.Global()
	store, err := OpenSessionStore(cfg)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	conv, err := LoadConversationRef(store, ref)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	engine := review.NewEngine(cfg.Thresholds())
	report, err := engine.Review(conv)
	if err != nil {
		return HandleError(WrapError(err, "review failed"), args.JSON)
	}

	topN := parser.FlagIntOrDefault("top", suggest.DefaultTopN)
	gen := suggest.NewGeneratorWithOptions(cfg.Thresholds(), topN)

	// --move / --ply asks about one specific ply (1-based), weak or not.
	if parser.HasFlag("move") || parser.HasFlag("ply") {
		move := parser.FlagIntOrDefault("move", parser.FlagIntOrDefault("ply", 0))
		if move < 1 || move > len(report.Annotations) {
			return HandleError(NewValidationError("move", firstNonEmpty(parser.Flag("move"), parser.Flag("ply")),
				fmt.Sprintf("must be between 1 and %d", len(report.Annotations))), args.JSON)
		}
		suggestions := gen.ForMessage(conv, report, move-1)
		ann := report.Annotations[move-1]
		ms := suggest.MoveSuggestions{
			Index:       ann.Index,
			MessageID:   ann.MessageID,
			Label:       ann.LabelName,
			Score:       ann.Score,
			Suggestions: suggestions,
		}
		return printSuggestions(conv.Title, []suggest.MoveSuggestions{ms}, report, args.JSON)
	}

	return printSuggestions(conv.Title, gen.ForReport(conv, report), report, args.JSON)
}

// printSuggestions renders suggestion sets as JSON or styled text.
func printSuggestions(title string, sugg []suggest.MoveSuggestions, report *review.Report, jsonMode bool) error {
	if jsonMode {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(sugg)
	}

	if len(sugg) == 0 {
		fmt.Println(SuccessStyle.Render("[OK]") + " No weak messages found. Nothing to improve.")
		return nil
	}

	fmt.Println(TitleStyle.Render("Suggestions: " + title))

	for _, ms := range sugg {
		ann := report.Annotations[ms.Index]
		fmt.Printf("%s %s %s\n",
			SectionStyle.Render(fmt.Sprintf("Move %d:", ms.Index+1)),
			WarningStyle.Render(fmt.Sprintf("%s (%.1f)", ms.Label, ms.Score)),
			DimStyle.Render(util.TruncateRunes(ann.Text, 60)))

		for i, s := range ms.Suggestions {
			fmt.Printf("  %d. %s %s\n",
				i+1,
				ValueStyle.Render(s.Text),
				DimStyle.Render(fmt.Sprintf("(%s, %.1f)", s.LabelName, s.PredictedScore)))
			if s.Rationale != "" {
				fmt.Println(DimStyle.Render("     " + s.Rationale))
			}
		}
		fmt.Println()
	}
	return nil
}

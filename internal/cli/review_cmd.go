// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// review_cmd.go - The review command: run game review on a transcript.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/export"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/storage"
	"github.com/jeranaias/convolens/internal/suggest"
	"github.com/jeranaias/convolens/internal/ui"
	"github.com/jeranaias/convolens/internal/ui/components"
)

const reviewUsage = "convolens review <file|id> [--tui] [--format md|html|json] [--us NAME] [--them NAME] [--no-save]"

// HandleReview runs game review on a transcript file or saved session.
func HandleReview(args Args) error {
	parser := NewArgParser(args.Raw)

	ref := parser.Positional(0)
	if ref == "" {
		return HandleError(ErrMissingArgument("transcript", reviewUsage), args.JSON)
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

	if name := parser.Flag("us"); name != "" {
		conv.SelfName = name
	}
	if name := parser.Flag("them"); name != "" {
		conv.OtherName = name
	}

	engine := review.NewEngine(cfg.Thresholds())
	report, err := engine.Review(conv)
	if err != nil {
		return HandleError(WrapError(err, "review failed"), args.JSON)
	}

	topN := parser.FlagIntOrDefault("top", suggest.DefaultTopN)
	gen := suggest.NewGeneratorWithOptions(cfg.Thresholds(), topN)
	sugg := gen.ForReport(conv, report)

	// Persist the reviewed session unless asked not to.
	stored := storage.FromModel(conv, report)
	if !parser.BoolFlag("no-save") {
		if _, err := store.Save(stored); err != nil {
			fmt.Fprintf(os.Stderr, "%s could not save session: %v\n",
				WarningStyle.Render("[WARN]"), err)
		}
	}

	// Export formats short-circuit the interactive paths.
	if format := parser.Flag("format"); format != "" {
		return HandleError(exportReport(stored, format, parser, cfg), args.JSON)
	}

	if args.JSON {
		return printReportJSON(report, sugg)
	}

	if parser.BoolFlag("tui") {
		if err := RequiresTTY("open the review UI"); err != nil {
			return HandleError(err, args.JSON)
		}
		opts := uiOptions(cfg)
		return HandleError(ui.Run(conv, report, sugg, opts), args.JSON)
	}

	printReport(conv, report, sugg, args.Quiet)
	return nil
}

// uiOptions maps UI configuration onto review UI options.
func uiOptions(cfg *config.Config) ui.Options {
	return ui.Options{
		Theme:            cfg.UI.Theme,
		ShowEval:         cfg.UI.ShowEval,
		ShowExplanations: cfg.UI.ShowExplanations,
		CompactMode:      cfg.UI.CompactMode,
	}
}

// =============================================================================
// EXPORT
// =============================================================================

// exportReport writes the reviewed conversation in the requested format.
func exportReport(stored *storage.StoredConversation, format string, parser *ArgParser, cfg *config.Config) error {
	opts := export.DefaultOptions()
	opts.Theme = cfg.UI.Theme
	if dir := parser.Flag("out"); dir != "" {
		opts.OutputDir = dir
	}
	if parser.BoolFlag("open") {
		opts.OpenAfterExport = true
	}

	var (
		path string
		err  error
	)
	switch strings.ToLower(format) {
	case "md", "markdown":
		path, err = export.ExportMarkdown(stored, opts)
	case "html":
		path, err = export.ExportHTML(stored, opts)
	case "json":
		path, err = export.ExportJSON(stored, opts)
	default:
		return ErrUnsupportedFormat(format, []string{"md", "html", "json"})
	}
	if err != nil {
		return WrapError(err, "export failed")
	}

	fmt.Printf("%s exported to %s\n", RenderStatus("ok"), path)
	return nil
}

// =============================================================================
// TERMINAL OUTPUT
// =============================================================================

// printReportJSON emits the full report and suggestions as JSON.
func printReportJSON(report *review.Report, sugg []suggest.MoveSuggestions) error {
	out := map[string]interface{}{
		"report":      report,
		"suggestions": sugg,
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// printReport renders the review as styled terminal output.
func printReport(conv *model.Conversation, report *review.Report, sugg []suggest.MoveSuggestions, quiet bool) {
	width := GetTerminalWidth()

	fmt.Println(TitleStyle.Render("Game Review: " + report.Title))

	// Per-message annotations.
	suggByID := make(map[string]suggest.MoveSuggestions, len(sugg))
	for _, ms := range sugg {
		suggByID[ms.MessageID] = ms
	}

	for _, ann := range report.Annotations {
		speaker := conv.SpeakerName(ann.Side)
		header := fmt.Sprintf("%2d. %s %s %s (%.1f)",
			ann.Index+1,
			speaker,
			ann.Label.Glyph(),
			ann.Label.DisplayName(),
			ann.Score)

		if ann.Label.IsBad() {
			fmt.Println(WarningStyle.Render(header))
		} else if ann.Label.IsGood() {
			fmt.Println(HighlightStyle.Render(header))
		} else {
			fmt.Println(ValueStyle.Render(header))
		}

		fmt.Println(DimStyle.Render("    " + firstLine(ann.Text, width-8)))
		if !quiet && ann.Explanation != "" {
			fmt.Println(DimStyle.Render("    " + ann.Explanation))
		}

		if ms, ok := suggByID[ann.MessageID]; ok && !quiet {
			for _, s := range ms.Suggestions {
				fmt.Printf("    %s %s %s\n",
					InfoStyle.Render("better:"),
					ValueStyle.Render(s.Text),
					DimStyle.Render(fmt.Sprintf("(%s, %.1f)", s.LabelName, s.PredictedScore)))
			}
		}
	}

	// Summary.
	fmt.Println()
	fmt.Println(RenderSeparator(minInt(width-2, 70)))
	printSideSummary(report.Self)
	printSideSummary(report.Other)

	bar := components.NewEvalBar()
	bar.SetEval(report.FinalEval)
	fmt.Printf("%s %s\n", RenderLabel("Final eval:"), bar.RenderInline(24))
}

// printSideSummary prints one participant's accuracy line.
func printSideSummary(s review.SideSummary) {
	fmt.Printf("%s %s  avg %.2f  accuracy %.1f%%  (%d messages)\n",
		RenderLabel(s.Name+":", 12),
		ValueStyle.Render(labelCounts(s.Labels)),
		s.AvgScore,
		s.Accuracy,
		s.Messages)
}

// labelCounts formats the label histogram compactly.
func labelCounts(labels map[string]int) string {
	if len(labels) == 0 {
		return "-"
	}
	order := []string{"brilliant", "great", "best", "excellent", "good", "inaccuracy", "mistake", "miss", "blunder"}
	var parts []string
	for _, name := range order {
		if n, ok := labels[name]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", name, n))
		}
	}
	return strings.Join(parts, " ")
}

// firstLine returns the first line of text, truncated to maxWidth.
func firstLine(text string, maxWidth int) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	runes := []rune(text)
	if maxWidth > 3 && len(runes) > maxWidth {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

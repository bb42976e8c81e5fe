// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// rate_cmd.go - The rate and leaderboard commands: Elo ratings from
// reviewed conversations.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/rating"
	"github.com/jeranaias/convolens/internal/review"
	"github.com/jeranaias/convolens/internal/util"
)

const rateUsage = "convolens rate <file|id> [--us NAME] [--them NAME]"

// openRatingStore opens the player store under the config directory.
func openRatingStore() (*rating.Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return rating.NewStore(filepath.Join(dir, "players"))
}

// HandleRate reviews a conversation and applies an Elo update to both
// participants.
func HandleRate(args Args) error {
	parser := NewArgParser(args.Raw)

	ref := parser.Positional(0)
	if ref == "" {
		return HandleError(ErrMissingArgument("conversation", rateUsage), args.JSON)
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

	selfName := parser.FlagOrDefault("us", firstNonEmpty(conv.SelfName, "You"))
	otherName := parser.FlagOrDefault("them", firstNonEmpty(conv.OtherName, "Them"))

	players, err := openRatingStore()
	if err != nil {
		return HandleError(WrapError(err, "failed to open player store"), args.JSON)
	}

	params := cfg.RatingParams()
	self, err := players.FindOrCreate(selfName, params)
	if err != nil {
		return HandleError(err, args.JSON)
	}
	other, err := players.FindOrCreate(otherName, params)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	beforeSelf, beforeOther := self.Rating, other.Rating
	rating.RateConversation(report, self, other, params)

	if err := players.Save(self); err != nil {
		return HandleError(WrapError(err, "failed to save player"), args.JSON)
	}
	if err := players.Save(other); err != nil {
		return HandleError(WrapError(err, "failed to save player"), args.JSON)
	}

	if args.JSON {
		out := map[string]interface{}{
			"conversation_id": report.ConversationID,
			"self":            self,
			"other":           other,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Println(TitleStyle.Render("Rating update"))
	printRatingChange(self.Name, beforeSelf, self.Rating, report.Self.Accuracy, self.IsProvisional(params))
	printRatingChange(other.Name, beforeOther, other.Rating, report.Other.Accuracy, other.IsProvisional(params))
	return nil
}

// printRatingChange prints one player's before/after line.
func printRatingChange(name string, before, after, accuracy float64, provisional bool) {
	delta := after - before
	deltaStr := fmt.Sprintf("%+.0f", delta)
	switch {
	case delta > 0:
		deltaStr = SuccessStyle.Render(deltaStr)
	case delta < 0:
		deltaStr = ErrorStyle.Render(deltaStr)
	default:
		deltaStr = DimStyle.Render(deltaStr)
	}

	suffix := ""
	if provisional {
		suffix = DimStyle.Render(" (provisional)")
	}

	fmt.Printf("%s %.0f -> %.0f (%s)  accuracy %.1f%%%s\n",
		RenderLabel(name+":", 14), before, after, deltaStr, accuracy, suffix)
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// LEADERBOARD
// =============================================================================

// HandleLeaderboard prints the player ladder, best rating first.
func HandleLeaderboard(args Args) error {
	players, err := openRatingStore()
	if err != nil {
		return HandleError(WrapError(err, "failed to open player store"), args.JSON)
	}

	board, err := players.Leaderboard()
	if err != nil {
		return HandleError(err, args.JSON)
	}

	if args.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(board)
	}

	if len(board) == 0 {
		fmt.Println("No rated players yet. Run: convolens rate <conversation>")
		return nil
	}

	fmt.Println(TitleStyle.Render("Leaderboard"))
	fmt.Println(DimStyle.Render(
		util.PadRight("#", 4) + util.PadRight("Player", 20) +
			util.PadRight("Rating", 8) + util.PadRight("Peak", 8) + "Games"))

	params := config.Global().RatingParams()
	for i, p := range board {
		name := util.TruncateRunes(p.Name, 18)
		if p.IsProvisional(params) {
			name += "?"
		}
		fmt.Printf("%s%s%s%s%d\n",
			util.PadRight(util.IntToStr(i+1), 4),
			util.PadRight(name, 20),
			util.PadRight(fmt.Sprintf("%.0f", p.Rating), 8),
			util.PadRight(fmt.Sprintf("%.0f", p.Peak), 8),
			p.Games)
	}
	return nil
}

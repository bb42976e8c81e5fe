// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// label_cmd.go - The label command: interactive rubric labelling.
//
// Walks a transcript message by message, prompting for the seven
// rubric scores plus the sacrifice flag, then writes the labelled rows
// as JSON into the dataset inbox (or a file given with --out). The
// inbox watcher picks the file up automatically when watching is on.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/dataset"
	"github.com/jeranaias/convolens/internal/label"
	"github.com/jeranaias/convolens/internal/model"
	"github.com/jeranaias/convolens/internal/util"
)

const labelUsage = "convolens label <file|id> [--out FILE] [--side self|other|both] [--start N]"

// categoryPrompts maps rubric categories to short prompt hints.
var categoryPrompts = map[model.Category]string{
	model.CategoryUnderstandability: "clear and easy to parse",
	model.CategoryInterestingness:   "adds something to the exchange",
	model.CategoryContextuality:     "engages with what came before",
	model.CategoryNaturalness:       "sounds like a person",
	model.CategoryTimeliness:        "reply gap felt right",
	model.CategoryRepetitiveness:    "5 = no repetition",
	model.CategoryAppropriateness:   "1 = hostile, auto-blunder",
}

// HandleLabel runs the interactive labelling REPL.
func HandleLabel(args Args) error {
	parser := NewArgParser(args.Raw)

	ref := parser.Positional(0)
	if ref == "" {
		return HandleError(ErrMissingArgument("transcript", labelUsage), args.JSON)
	}

	if err := RequiresTTY("label messages"); err != nil {
		return HandleError(err, args.JSON)
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

	side := strings.ToLower(parser.FlagOrDefault("side", "both"))
	if side != "self" && side != "other" && side != "both" {
		return HandleError(NewValidationError("side", side, "must be self, other, or both"), args.JSON)
	}

	start := parser.FlagIntOrDefault("start", 1)
	thresholds := cfg.Thresholds()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Println(TitleStyle.Render("Labelling: " + conv.Title))
	fmt.Println(DimStyle.Render("Scores are 1-5. Enter skips a category, s toggles sacrifice, q stops early."))
	fmt.Println()

	var rows []dataset.LabelledRow
	prevAvg := label.NoPrev

	for i, msg := range conv.Messages {
		if i+1 < start {
			if msg.Rubric != nil {
				prevAvg = msg.Rubric.Average()
			}
			continue
		}
		if side == "self" && msg.Side != model.SideSelf {
			continue
		}
		if side == "other" && msg.Side != model.SideOther {
			continue
		}

		fmt.Printf("%s %s\n",
			SectionStyle.Render(fmt.Sprintf("[%d/%d] %s:", i+1, conv.MessageCount(), conv.SpeakerName(msg.Side))),
			ValueStyle.Render(util.TruncateRunes(msg.Text, 200)))

		rubric, sacrifice, stop, err := promptRubric(line, msg)
		if err != nil {
			return HandleError(err, args.JSON)
		}
		if stop {
			fmt.Println(DimStyle.Render("Stopped."))
			break
		}
		if rubric.IsEmpty() {
			fmt.Println(DimStyle.Render("  skipped"))
			fmt.Println()
			continue
		}

		msg.Rubric = rubric
		msg.Sacrifice = sacrifice

		avg := rubric.Average()
		assigned := thresholds.Assign(avg, prevAvg, sacrifice)
		prevAvg = avg

		fmt.Printf("  %s %s %s (%.2f)\n\n",
			RenderStatus("ok"),
			assigned.Glyph(),
			assigned.DisplayName(),
			avg)

		rows = append(rows, dataset.LabelledRow{
			ConversationID: conv.ID,
			Position:       i,
			Speaker:        conv.SpeakerName(msg.Side),
			Side:           msg.Side.String(),
			Text:           msg.Text,
			Label:          assigned.String(),
			Score:          avg,
			Sacrifice:      sacrifice,
		})
	}

	if len(rows) == 0 {
		fmt.Println(DimStyle.Render("Nothing labelled."))
		return nil
	}

	outPath, err := writeLabelledRows(cfg, conv.ID, rows, parser.Flag("out"))
	if err != nil {
		return HandleError(err, args.JSON)
	}

	fmt.Printf("%s wrote %d labelled messages to %s\n", RenderStatus("ok"), len(rows), outPath)
	return nil
}

// promptRubric collects the seven category scores and the sacrifice
// flag for one message. Returns stop=true when the user quits.
func promptRubric(line *liner.State, msg *model.Message) (*model.Rubric, bool, bool, error) {
	rubric := &model.Rubric{}
	sacrifice := msg.Sacrifice

	for _, cat := range model.Categories() {
		prompt := fmt.Sprintf("  %-18s (%s): ", cat.String(), categoryPrompts[cat])

		for {
			input, err := line.Prompt(prompt)
			if err == liner.ErrPromptAborted {
				return nil, false, true, nil
			}
			if err != nil {
				return nil, false, false, WrapError(err, "input failed")
			}

			input = strings.TrimSpace(input)
			switch strings.ToLower(input) {
			case "":
				// Skip this category.
			case "q", "quit":
				return nil, false, true, nil
			case "s":
				sacrifice = !sacrifice
				state := "off"
				if sacrifice {
					state = "on"
				}
				fmt.Println(DimStyle.Render("  sacrifice " + state))
				continue
			default:
				score, err := strconv.Atoi(input)
				if err != nil || score < model.MinScore || score > model.MaxScore {
					fmt.Println(WarningStyle.Render("  enter a score 1-5, s, or q"))
					continue
				}
				rubric.Set(cat, score)
				line.AppendHistory(input)
			}
			break
		}
	}

	return rubric, sacrifice, false, nil
}

// writeLabelledRows writes rows as JSON, defaulting to the dataset inbox.
func writeLabelledRows(cfg *config.Config, convID string, rows []dataset.LabelledRow, outPath string) (string, error) {
	if outPath == "" {
		inbox := cfg.Dataset.InboxDir
		if inbox == "" {
			dir, err := config.ConfigDir()
			if err != nil {
				return "", err
			}
			inbox = filepath.Join(dir, "inbox")
		}
		if err := os.MkdirAll(inbox, 0755); err != nil {
			return "", WrapError(err, "failed to create inbox directory")
		}
		outPath = filepath.Join(inbox, convID+".labelled.json")
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", err
	}
	if err := util.AtomicWriteFile(outPath, data, 0644); err != nil {
		return "", WrapError(err, "failed to write labelled rows")
	}
	return outPath, nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - The session command: manage saved conversations.
//
// Subcommands:
//
//	list                 list saved sessions
//	show <id>            print one session
//	search <query>       search session titles and message content
//	export <id>          export a session (--format md|html|json)
//	delete <id>          delete one session (asks unless --confirm)
//	clear                delete all sessions (asks unless --confirm)

package cli

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/storage"
	"github.com/jeranaias/convolens/internal/util"
)

const sessionUsage = "convolens session <list|show|search|export|delete|clear> [args]"

// HandleSession dispatches session subcommands.
func HandleSession(args Args) error {
	parser := NewArgParser(args.Raw)

	cfg := config.Global()
	store, err := OpenSessionStore(cfg)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	switch parser.Subcommand() {
	case "list", "":
		return handleSessionList(store, args)
	case "show":
		return handleSessionShow(store, parser, args)
	case "search":
		return handleSessionSearch(store, parser, args)
	case "export":
		return handleSessionExport(store, parser, args, cfg)
	case "delete", "rm":
		return handleSessionDelete(store, parser, args)
	case "clear":
		return handleSessionClear(store, parser, args)
	default:
		return HandleError(NewValidationErrorWithExample(
			"subcommand", parser.Subcommand(), "unknown session subcommand", sessionUsage), args.JSON)
	}
}

// handleSessionList lists saved sessions, most recent first.
func handleSessionList(store *storage.ConversationStore, args Args) error {
	metas, err := store.List()
	if err != nil {
		return HandleError(WrapError(err, "failed to list sessions"), args.JSON)
	}

	if args.JSON {
		return printJSON(metas)
	}

	fmt.Print(storage.FormatSessionList(metas))
	return nil
}

// handleSessionShow prints one session's transcript and review labels.
func handleSessionShow(store *storage.ConversationStore, parser *ArgParser, args Args) error {
	ref := parser.Positional(1)
	if ref == "" {
		return HandleError(ErrMissingArgument("session", "convolens session show <id>"), args.JSON)
	}

	conv, err := ResolveStored(store, ref)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	if args.JSON {
		return printJSON(conv)
	}

	fmt.Println(TitleStyle.Render(conv.Title))
	for _, msg := range conv.Messages {
		speaker := msg.Speaker
		if speaker == "" {
			speaker = msg.Side.DisplayName()
		}
		annotation := ""
		if msg.Label != "" {
			annotation = DimStyle.Render(fmt.Sprintf("  [%s %.1f]", msg.Label, msg.Score))
		}
		fmt.Printf("%s %s%s\n",
			InfoStyle.Render(util.PadRight(speaker+":", 10)),
			ValueStyle.Render(msg.Text),
			annotation)
	}

	if conv.Reviewed && conv.Self != nil && conv.Other != nil {
		fmt.Println()
		fmt.Printf("%s %.1f%% vs %.1f%%  final eval %+.2f\n",
			RenderLabel("Accuracy:"),
			conv.Self.Accuracy, conv.Other.Accuracy, conv.FinalEval)
	}
	return nil
}

// handleSessionSearch searches titles first, then message content.
func handleSessionSearch(store *storage.ConversationStore, parser *ArgParser, args Args) error {
	query := parser.JoinPositionalFrom(1)
	if query == "" {
		return HandleError(ErrMissingArgument("query", "convolens session search <query>"), args.JSON)
	}

	metas, err := store.SearchMessages(query)
	if err != nil {
		return HandleError(WrapError(err, "search failed"), args.JSON)
	}

	if args.JSON {
		return printJSON(metas)
	}

	if len(metas) == 0 {
		fmt.Println("No matching sessions.")
		return nil
	}
	fmt.Print(storage.FormatSessionList(metas))
	return nil
}

// handleSessionExport writes a session to disk in the requested format.
func handleSessionExport(store *storage.ConversationStore, parser *ArgParser, args Args, cfg *config.Config) error {
	ref := parser.Positional(1)
	if ref == "" {
		return HandleError(ErrMissingArgument("session", "convolens session export <id> [--format md|html|json]"), args.JSON)
	}

	conv, err := ResolveStored(store, ref)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	format := parser.FlagOrDefault("format", "md")
	return HandleError(exportReport(conv, format, parser, cfg), args.JSON)
}

// handleSessionDelete removes one session.
func handleSessionDelete(store *storage.ConversationStore, parser *ArgParser, args Args) error {
	ref := parser.Positional(1)
	if ref == "" {
		return HandleError(ErrMissingArgument("session", "convolens session delete <id> [--confirm]"), args.JSON)
	}

	conv, err := ResolveStored(store, ref)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	if !parser.BoolFlag("confirm") {
		ok, err := confirmPrompt(fmt.Sprintf("Delete session %q (%s)?", conv.Title, conv.ID))
		if err != nil {
			return HandleError(err, args.JSON)
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.Delete(conv.ID); err != nil {
		return HandleError(WrapError(err, "delete failed"), args.JSON)
	}
	fmt.Printf("%s deleted %s\n", RenderStatus("ok"), conv.ID)
	return nil
}

// handleSessionClear removes all sessions.
func handleSessionClear(store *storage.ConversationStore, parser *ArgParser, args Args) error {
	metas, err := store.List()
	if err != nil {
		return HandleError(err, args.JSON)
	}
	if len(metas) == 0 {
		fmt.Println("No sessions to clear.")
		return nil
	}

	if !parser.BoolFlag("confirm") {
		ok, err := confirmPrompt(fmt.Sprintf("Delete all %d sessions?", len(metas)))
		if err != nil {
			return HandleError(err, args.JSON)
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := store.Clear(); err != nil {
		return HandleError(WrapError(err, "clear failed"), args.JSON)
	}
	fmt.Printf("%s cleared %d sessions\n", RenderStatus("ok"), len(metas))
	return nil
}

// confirmPrompt asks a yes/no question on the terminal.
func confirmPrompt(question string) (bool, error) {
	if err := RequiresTTY("confirm"); err != nil {
		return false, err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(question + " [y/N] ")
	if err == liner.ErrPromptAborted {
		return false, nil
	}
	if err != nil {
		return false, WrapError(err, "input failed")
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

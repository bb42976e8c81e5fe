// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - The config command: inspect and edit settings.
//
// Subcommands:
//
//	list               show all keys and current values
//	get <key>          show one value (dot notation, e.g. rating.k_factor)
//	set <key> <value>  change one value and save
//	path               show the config file location
//	reset              rewrite the config file with defaults (--confirm)

package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/convolens/internal/config"
)

const configUsage = "convolens config <list|get|set|path|reset> [args]"

// HandleConfig dispatches config subcommands.
func HandleConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "list", "":
		return handleConfigList(args)
	case "get":
		return handleConfigGet(parser, args)
	case "set":
		return handleConfigSet(parser, args)
	case "path":
		return handleConfigPath(args)
	case "reset":
		return handleConfigReset(parser, args)
	default:
		return HandleError(NewValidationErrorWithExample(
			"subcommand", parser.Subcommand(), "unknown config subcommand", configUsage), args.JSON)
	}
}

// handleConfigList prints every key with its current value.
func handleConfigList(args Args) error {
	cfg := config.Global()

	if args.JSON {
		return printJSON(cfg)
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s %v\n", RenderLabel(key+":", 32), value)
	}
	return nil
}

// handleConfigGet prints one value.
func handleConfigGet(parser *ArgParser, args Args) error {
	key := parser.Positional(1)
	if key == "" {
		return HandleError(ErrMissingArgument("key", "convolens config get <key>"), args.JSON)
	}

	value, err := config.Global().Get(key)
	if err != nil {
		return HandleError(err, args.JSON)
	}

	if args.JSON {
		return printJSON(map[string]interface{}{key: value})
	}
	fmt.Printf("%v\n", value)
	return nil
}

// handleConfigSet changes one value, validates, and saves.
func handleConfigSet(parser *ArgParser, args Args) error {
	key := parser.Positional(1)
	value := parser.Positional(2)
	if key == "" || value == "" {
		return HandleError(ErrMissingArgument("key/value", "convolens config set <key> <value>"), args.JSON)
	}

	cfg := config.Global()
	if err := cfg.Set(key, value); err != nil {
		return HandleError(err, args.JSON)
	}
	if err := cfg.Validate(); err != nil {
		return HandleError(WrapError(err, "rejected: resulting configuration is invalid"), args.JSON)
	}
	if err := config.Save(cfg); err != nil {
		return HandleError(WrapError(err, "failed to save configuration"), args.JSON)
	}

	newValue, _ := cfg.Get(key)
	fmt.Printf("%s %s = %v\n", RenderStatus("ok"), key, newValue)
	return nil
}

// handleConfigPath shows where the config file lives.
func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return HandleError(err, args.JSON)
	}

	exists := "not created yet"
	if _, err := os.Stat(path); err == nil {
		exists = "exists"
	}

	if args.JSON {
		return printJSON(map[string]string{"path": path, "status": exists})
	}
	fmt.Printf("%s (%s)\n", path, DimStyle.Render(exists))
	return nil
}

// handleConfigReset rewrites the config file with defaults.
func handleConfigReset(parser *ArgParser, args Args) error {
	if !parser.BoolFlag("confirm") {
		ok, err := confirmPrompt("Reset configuration to defaults?")
		if err != nil {
			return HandleError(err, args.JSON)
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.Default()
	if err := config.Save(cfg); err != nil {
		return HandleError(WrapError(err, "failed to save configuration"), args.JSON)
	}
	config.SetGlobal(cfg)

	fmt.Printf("%s configuration reset to defaults\n", RenderStatus("ok"))
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - The status command: one screen of project health.

package cli

import (
	"fmt"

	"github.com/jeranaias/convolens/internal/config"
	"github.com/jeranaias/convolens/internal/dataset"
)

// statusReport is the JSON shape of the status command output.
type statusReport struct {
	Version    string            `json:"version"`
	ConfigPath string            `json:"config_path"`
	Dataset    *dataset.Progress `json:"dataset,omitempty"`
	Sessions   int               `json:"sessions"`
	Players    int               `json:"players"`
	Encrypted  bool              `json:"encrypted"`
}

// HandleStatus prints an overview: corpus progress, saved sessions,
// rated players, and where everything lives.
func HandleStatus(args Args) error {
	cfg := config.Global()
	report := statusReport{Version: Version, Encrypted: cfg.Storage.Encrypt}

	if path, err := config.ConfigPathTOML(); err == nil {
		report.ConfigPath = path
	}

	// Dataset progress. A missing database just reads as zero.
	if ds, err := openDataset(); err == nil {
		if p, err := ds.Progress(); err == nil {
			report.Dataset = &p
		}
		ds.Close()
	}

	// Session count. Skip the passphrase prompt here; listing only
	// needs metadata and an encrypted store would block on input.
	if store, err := OpenSessionStoreNoPrompt(cfg); err == nil {
		if metas, err := store.List(); err == nil {
			report.Sessions = len(metas)
		}
	}

	// Player count.
	if players, err := openRatingStore(); err == nil {
		if all, err := players.List(); err == nil {
			report.Players = len(all)
		}
	}

	if args.JSON {
		return printJSON(report)
	}

	fmt.Println(TitleStyle.Render("convolens " + Version))
	fmt.Printf("%s %s\n", RenderLabel("Config:"), report.ConfigPath)

	if report.Dataset != nil {
		const barWidth = 30
		filled := int(report.Dataset.Percent / 100 * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
		bar := ""
		for i := 0; i < barWidth; i++ {
			if i < filled {
				bar += "#"
			} else {
				bar += "-"
			}
		}
		fmt.Printf("%s [%s] %d / %d labelled messages (%.1f%%)\n",
			RenderLabel("Dataset:"),
			HighlightStyle.Render(bar),
			report.Dataset.Messages, report.Dataset.Target, report.Dataset.Percent)
	}

	fmt.Printf("%s %d\n", RenderLabel("Sessions:"), report.Sessions)
	fmt.Printf("%s %d\n", RenderLabel("Players:"), report.Players)

	if report.Encrypted {
		fmt.Printf("%s %s\n", RenderLabel("Encryption:"), SuccessStyle.Render("on"))
	} else {
		fmt.Printf("%s %s\n", RenderLabel("Encryption:"), DimStyle.Render("off"))
	}
	return nil
}

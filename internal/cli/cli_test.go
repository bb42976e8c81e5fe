// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/convolens/internal/model"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseArgsCommands(t *testing.T) {
	cases := []struct {
		args []string
		want Command
	}{
		{[]string{"review", "chat.txt"}, CmdReview},
		{[]string{"label", "chat.txt"}, CmdLabel},
		{[]string{"rate", "conv_1"}, CmdRate},
		{[]string{"leaderboard"}, CmdLeaderboard},
		{[]string{"lb"}, CmdLeaderboard},
		{[]string{"suggest", "conv_1"}, CmdSuggest},
		{[]string{"dataset", "count"}, CmdDataset},
		{[]string{"data", "stats"}, CmdDataset},
		{[]string{"collect"}, CmdCollect},
		{[]string{"session", "list"}, CmdSession},
		{[]string{"sessions"}, CmdSession},
		{[]string{"config", "list"}, CmdConfig},
		{[]string{"status"}, CmdStatus},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{}, CmdHelp},
		{[]string{"frobnicate"}, CmdHelp},
	}

	for _, tc := range cases {
		cmd, _ := ParseArgs(tc.args)
		assert.Equal(t, tc.want, cmd, "args: %v", tc.args)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "review", "-q", "chat.txt"})
	assert.Equal(t, CmdReview, cmd)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
	assert.Equal(t, []string{"chat.txt"}, args.Raw)
}

func TestParseArgsImplicitReview(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("me: hi\n"), 0644))

	cmd, args := ParseArgs([]string{path, "--tui"})
	assert.Equal(t, CmdReview, cmd)
	assert.Equal(t, []string{path, "--tui"}, args.Raw)
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParserFlags(t *testing.T) {
	p := NewArgParser([]string{"import", "inbox", "--limit", "25", "--label=blunder", "--confirm"})

	assert.Equal(t, "import", p.Subcommand())
	assert.Equal(t, "inbox", p.Positional(1))
	assert.Equal(t, 25, p.FlagIntOrDefault("limit", 50))
	assert.Equal(t, "blunder", p.Flag("label"))
	assert.True(t, p.BoolFlag("confirm"))
	assert.False(t, p.BoolFlag("missing"))
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--confirm=false", "--watch=true"})
	assert.False(t, p.BoolFlag("confirm"))
	assert.True(t, p.BoolFlag("watch"))
	assert.True(t, p.HasFlag("confirm"))
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser([]string{"search"})
	assert.Equal(t, "md", p.FlagOrDefault("format", "md"))
	assert.Equal(t, 50, p.FlagIntOrDefault("limit", 50))
	assert.Equal(t, "", p.Positional(5))
}

func TestArgParserJoinPositional(t *testing.T) {
	p := NewArgParser([]string{"search", "how", "was", "the", "interview"})
	assert.Equal(t, "how was the interview", p.JoinPositionalFrom(1))
}

// =============================================================================
// TRANSCRIPT PARSING
// =============================================================================

func TestParseTextTranscript(t *testing.T) {
	input := "# a comment\nme: hey! how was it?\nthem: pretty good actually\n  better than expected\nme: nice\n"

	conv, err := parseTextTranscript([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 3, conv.MessageCount())

	assert.Equal(t, model.SideSelf, conv.Messages[0].Side)
	assert.Equal(t, model.SideOther, conv.Messages[1].Side)
	assert.Equal(t, "pretty good actually\nbetter than expected", conv.Messages[1].Text)
	assert.Equal(t, model.SideSelf, conv.Messages[2].Side)
}

func TestParseTextTranscriptSpeakerNames(t *testing.T) {
	input := "me: hi alex\nAlex: hey you\n"

	conv, err := parseTextTranscript([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "Alex", conv.OtherName)
	assert.Equal(t, "", conv.SelfName)
}

func TestParseTextTranscriptEmpty(t *testing.T) {
	_, err := parseTextTranscript([]byte("# only comments\n\n"))
	assert.Error(t, err)
}

func TestSplitSpeakerLine(t *testing.T) {
	speaker, text, ok := splitSpeakerLine("them: see you at 14:30")
	require.True(t, ok)
	assert.Equal(t, "them", speaker)
	assert.Equal(t, "see you at 14:30", text)

	// Clock times and spaced prefixes are not speakers.
	_, _, ok = splitSpeakerLine("14:30 works for me")
	assert.False(t, ok)
	_, _, ok = splitSpeakerLine("no colon here")
	assert.False(t, ok)
}

func TestParseJSONTranscriptRows(t *testing.T) {
	input := `[
		{"side": "self", "text": "hey!"},
		{"speaker": "Sam", "text": "hi there"},
		{"side": "me", "text": "how are you", "sacrifice": true}
	]`

	conv, err := parseJSONTranscript([]byte(input))
	require.NoError(t, err)
	require.Equal(t, 3, conv.MessageCount())

	assert.Equal(t, model.SideSelf, conv.Messages[0].Side)
	assert.Equal(t, model.SideOther, conv.Messages[1].Side)
	assert.Equal(t, "Sam", conv.OtherName)
	assert.True(t, conv.Messages[2].Sacrifice)
}

func TestParseJSONTranscriptStoredConversation(t *testing.T) {
	input := `{
		"id": "conv_abc",
		"title": "test",
		"messages": [
			{"id": "m1", "side": "self", "text": "hello"},
			{"id": "m2", "side": "other", "text": "hi"}
		]
	}`

	conv, err := parseJSONTranscript([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, "conv_abc", conv.ID)
	assert.Equal(t, 2, conv.MessageCount())
}

func TestLoadConversationFileTitle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "first-date.txt")
	require.NoError(t, os.WriteFile(path, []byte("me: hi\nthem: hey\n"), 0644))

	conv, err := LoadConversationFile(path)
	require.NoError(t, err)
	// Title comes from the first message (auto-title), not the path.
	assert.NotEmpty(t, conv.Title)
}

// =============================================================================
// ERROR HANDLING
// =============================================================================

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitUsageError, GetExitCode(NewValidationError("side", "up", "must be self or other")))
	assert.Equal(t, ExitNotFoundError, GetExitCode(NewNotFoundError("conversation", "conv_x")))
	assert.Equal(t, ExitGeneralError, GetExitCode(assert.AnError))
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := assert.AnError
	err := NewCommandError("dataset", "import", "bad file", inner)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "dataset import failed")
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

func TestWrapTextPreservesShortLines(t *testing.T) {
	out := WrapText("short line", 40)
	assert.Equal(t, "short line", out)
}

func TestWrapTextBreaksLongLines(t *testing.T) {
	out := WrapText("one two three four five six seven eight nine ten", 20)
	for _, line := range splitLines(out) {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

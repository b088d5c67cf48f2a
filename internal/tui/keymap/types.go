// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per input mode so that Update can dispatch on
// commands instead of raw keys.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
type Mode string

const (
	ModeNormal Mode = "normal" // browsing the dashboard
	ModeInput  Mode = "input"  // typing a file path
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	CmdSelectFile    Command = "select_file"
	CmdUpload        Command = "upload"
	CmdToggleHistory Command = "toggle_history"
	CmdNextEntry     Command = "next_entry"
	CmdPrevEntry     Command = "prev_entry"
	CmdOpenReport    Command = "open_report"
	CmdLatestReport  Command = "latest_report"
	CmdExportChart   Command = "export_chart"
	CmdScrollPageUp  Command = "scroll_page_up"
	CmdScrollPageDn  Command = "scroll_page_down"
	CmdScrollToTop   Command = "scroll_to_top"
	CmdScrollToEnd   Command = "scroll_to_bottom"
	CmdQuit          Command = "quit"
)

// Input mode commands
const (
	CmdConfirm Command = "confirm"
	CmdCancel  Command = "cancel"
)

// Modifier represents keyboard modifiers (Ctrl, Alt, Shift).
type Modifier uint8

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << iota
	ModAlt
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	var s string
	if m&ModCtrl != 0 {
		s += "ctrl+"
	}
	if m&ModAlt != 0 {
		s += "alt+"
	}
	return s
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key. For rune keys use tea.KeyRunes and set Rune.
	KeyType tea.KeyType
	Rune    rune

	Modifiers Modifier
	Command   Command

	// Description is shown in the help bar. Bindings without one are
	// omitted from it.
	Description string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()
	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}
	if kb.Rune == ' ' {
		return prefix + "space"
	}
	return prefix + string(kb.Rune)
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// HelpEntry is one "key description" pair of the help bar.
type HelpEntry struct {
	Keys        string
	Description string
}

// Help returns the help bar entries for mode: one per command, in binding
// order, with every key bound to the command joined by "/".
func (km *Keymap) Help(mode Mode) []HelpEntry {
	var entries []HelpEntry
	index := make(map[Command]int)
	for _, b := range km.GetModeBindings(mode) {
		if b.Description == "" {
			continue
		}
		if i, ok := index[b.Command]; ok {
			entries[i].Keys += "/" + b.String()
			continue
		}
		index[b.Command] = len(entries)
		entries = append(entries, HelpEntry{Keys: b.String(), Description: b.Description})
	}
	return entries
}

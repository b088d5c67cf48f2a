package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestKeyBindingMatches(t *testing.T) {
	tests := []struct {
		name     string
		binding  KeyBinding
		msg      tea.KeyMsg
		expected bool
	}{
		{
			name:     "simple rune match",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'u'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}},
			expected: true,
		},
		{
			name:     "simple rune mismatch",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'u'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}},
			expected: false,
		},
		{
			name:     "special key match",
			binding:  KeyBinding{KeyType: tea.KeyEnter},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: true,
		},
		{
			name:     "special key mismatch",
			binding:  KeyBinding{KeyType: tea.KeyEnter},
			msg:      tea.KeyMsg{Type: tea.KeyEsc},
			expected: false,
		},
		{
			name:     "alt required but missing",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x', Modifiers: ModAlt},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}},
			expected: false,
		},
		{
			name:     "alt pressed but not bound",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'},
			msg:      tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true},
			expected: false,
		},
		{
			name:     "rune binding ignores special keys",
			binding:  KeyBinding{KeyType: tea.KeyRunes, Rune: 'x'},
			msg:      tea.KeyMsg{Type: tea.KeyEnter},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.binding.Matches(tt.msg); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKeyBindingString(t *testing.T) {
	tests := []struct {
		binding KeyBinding
		want    string
	}{
		{KeyBinding{KeyType: tea.KeyRunes, Rune: 'u'}, "u"},
		{KeyBinding{KeyType: tea.KeyRunes, Rune: ' '}, "space"},
		{KeyBinding{KeyType: tea.KeyEnter}, "enter"},
		{KeyBinding{KeyType: tea.KeyRunes, Rune: 'x', Modifiers: ModAlt}, "alt+x"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.binding.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultKeymap(t *testing.T) {
	km := DefaultKeymap()

	tests := []struct {
		mode Mode
		msg  tea.KeyMsg
		want Command
	}{
		{ModeNormal, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}}, CmdUpload},
		{ModeNormal, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}, CmdToggleHistory},
		{ModeNormal, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}}, CmdLatestReport},
		{ModeNormal, tea.KeyMsg{Type: tea.KeyEnter}, CmdOpenReport},
		{ModeNormal, tea.KeyMsg{Type: tea.KeyDown}, CmdNextEntry},
		{ModeNormal, tea.KeyMsg{Type: tea.KeyCtrlC}, CmdQuit},
		{ModeInput, tea.KeyMsg{Type: tea.KeyEnter}, CmdConfirm},
		{ModeInput, tea.KeyMsg{Type: tea.KeyEsc}, CmdCancel},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.msg.String(), func(t *testing.T) {
			got, ok := km.GetBinding(tt.msg, tt.mode)
			if !ok || got != tt.want {
				t.Errorf("GetBinding() = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}

	// Typed characters fall through to the text input.
	if _, ok := km.GetBinding(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}}, ModeInput); ok {
		t.Error("rune keys must not be bound in input mode")
	}
	if _, ok := km.GetBinding(tea.KeyMsg{Type: tea.KeyEnter}, Mode("missing")); ok {
		t.Error("unknown mode should have no bindings")
	}
}

func TestKeymapHelp(t *testing.T) {
	km := DefaultKeymap()
	entries := km.Help(ModeNormal)

	byDesc := make(map[string]string)
	for _, e := range entries {
		if _, dup := byDesc[e.Description]; dup {
			t.Errorf("duplicate help entry %q", e.Description)
		}
		byDesc[e.Description] = e.Keys
	}

	if byDesc["upload"] != "u" {
		t.Errorf("upload keys = %q", byDesc["upload"])
	}
	if byDesc["next"] != "j/down" {
		t.Errorf("next keys = %q, want j/down", byDesc["next"])
	}
	if _, ok := byDesc[""]; ok {
		t.Error("bindings without a description must be hidden")
	}
	if entries[0].Description != "choose file" {
		t.Errorf("first entry = %+v, want binding order", entries[0])
	}
}

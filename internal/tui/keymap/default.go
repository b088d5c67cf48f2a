package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the built-in key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeNormal: defaultNormalBindings(),
			ModeInput:  defaultInputBindings(),
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNormal,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'f', Command: CmdSelectFile, Description: "choose file"},
			{KeyType: tea.KeyRunes, Rune: 'u', Command: CmdUpload, Description: "upload"},
			{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdToggleHistory, Description: "history"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdNextEntry, Description: "next"},
			{KeyType: tea.KeyDown, Command: CmdNextEntry, Description: "next"},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdPrevEntry, Description: "prev"},
			{KeyType: tea.KeyUp, Command: CmdPrevEntry, Description: "prev"},
			{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdOpenReport, Description: "report"},
			{KeyType: tea.KeyEnter, Command: CmdOpenReport},
			{KeyType: tea.KeyRunes, Rune: 'd', Command: CmdLatestReport, Description: "latest report"},
			{KeyType: tea.KeyRunes, Rune: 'e', Command: CmdExportChart, Description: "export chart"},
			{KeyType: tea.KeyPgUp, Command: CmdScrollPageUp},
			{KeyType: tea.KeyPgDown, Command: CmdScrollPageDn},
			{KeyType: tea.KeyRunes, Rune: 'g', Command: CmdScrollToTop},
			{KeyType: tea.KeyRunes, Rune: 'G', Command: CmdScrollToEnd},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "quit"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit},
		},
	}
}

func defaultInputBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeInput,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdConfirm, Description: "select"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "cancel"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit},
		},
	}
}

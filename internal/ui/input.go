package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/sheetchat/internal/keys"
)

// InputAction is what a key press in the chat input should do.
type InputAction int

const (
	// InputPassthrough hands the key to the textarea unchanged.
	InputPassthrough InputAction = iota
	// InputSubmit sends the current text, same as clicking Send.
	InputSubmit
	// InputNewline inserts a literal line break.
	InputNewline
)

func (a InputAction) String() string {
	switch a {
	case InputSubmit:
		return "submit"
	case InputNewline:
		return "newline"
	default:
		return "passthrough"
	}
}

// ClassifyInputKey maps a key press to an input action. Plain Enter submits;
// Shift+Enter inserts a newline. Alt+Enter and Ctrl+J do the same for
// terminals that cannot report Shift with Enter.
func ClassifyInputKey(msg tea.KeyPressMsg) InputAction {
	switch msg.String() {
	case keys.Enter:
		return InputSubmit
	case keys.ShiftEnter, keys.AltEnter, keys.CtrlJ:
		return InputNewline
	default:
		return InputPassthrough
	}
}

package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestClassifyInputKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyPressMsg
		want InputAction
	}{
		{"enter submits", tea.KeyPressMsg{Code: tea.KeyEnter}, InputSubmit},
		{"shift+enter inserts newline", tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}, InputNewline},
		{"alt+enter inserts newline", tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt}, InputNewline},
		{"ctrl+j inserts newline", tea.KeyPressMsg{Code: 'j', Mod: tea.ModCtrl}, InputNewline},
		{"letters pass through", tea.KeyPressMsg{Code: 'a', Text: "a"}, InputPassthrough},
		{"tab passes through", tea.KeyPressMsg{Code: tea.KeyTab}, InputPassthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyInputKey(tt.msg); got != tt.want {
				t.Errorf("ClassifyInputKey = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInputAction_String(t *testing.T) {
	if InputSubmit.String() != "submit" || InputNewline.String() != "newline" || InputPassthrough.String() != "passthrough" {
		t.Error("unexpected InputAction names")
	}
}

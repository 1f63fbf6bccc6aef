package term

import (
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/framekit/pkg/dispatch"
)

// mouseEvents translates a terminal mouse event. Motion yields MouseOver;
// the hover transitions are added by the caller.
func mouseEvents(msg tea.MouseMsg) []dispatch.EventKind {
	if tea.MouseEvent(msg).IsWheel() {
		return []dispatch.EventKind{dispatch.Scroll}
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		return []dispatch.EventKind{dispatch.MouseOver}
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return []dispatch.EventKind{dispatch.MouseDown, dispatch.LeftMouseDown}
		case tea.MouseButtonRight:
			return []dispatch.EventKind{dispatch.MouseDown, dispatch.RightMouseDown}
		}
		return []dispatch.EventKind{dispatch.MouseDown}
	case tea.MouseActionRelease:
		// Most terminals do not report which button was released.
		switch msg.Button {
		case tea.MouseButtonLeft:
			return []dispatch.EventKind{dispatch.MouseUp, dispatch.LeftMouseUp}
		case tea.MouseButtonRight:
			return []dispatch.EventKind{dispatch.MouseUp, dispatch.RightMouseUp}
		}
		return []dispatch.EventKind{dispatch.MouseUp}
	}
	return nil
}

// keyEvents translates a key press. Printable runes are both a key down
// and text input. Terminals report no key releases, so VirtualKeyUp is
// never produced.
func keyEvents(msg tea.KeyMsg) ([]dispatch.EventKind, string) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return []dispatch.EventKind{dispatch.VirtualKeyDown}, msg.String()
		}
		return []dispatch.EventKind{dispatch.VirtualKeyDown, dispatch.TextInput}, string(msg.Runes)
	}
	return []dispatch.EventKind{dispatch.VirtualKeyDown}, msg.String()
}

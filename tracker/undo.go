package tracker

import "github.com/vsariola/chipsfx"

const maxUndo = 256

// edit is what undo restores: the pattern and the slot sounds. Playback and
// cursor state are left alone.
type edit struct {
	pattern chipsfx.Pattern
	slots   []chipsfx.SoundSlot
}

func (s *Sequencer) snapshot() edit {
	return edit{pattern: s.state.Pattern, slots: append([]chipsfx.SoundSlot(nil), s.state.Slots...)}
}

func (s *Sequencer) restore(e edit) {
	s.state.Pattern = e.pattern
	s.state.Slots = e.slots
	if s.state.SelectedStep >= s.state.Pattern.Len() {
		s.state.SelectedStep = s.state.Pattern.Len() - 1
	}
}

// SaveUndo records the current pattern and slots so that the next edit can
// be undone. It clears the redo stack.
func (s *Sequencer) SaveUndo() {
	s.undoStack = pushEdit(s.undoStack, s.snapshot())
	s.redoStack = s.redoStack[:0]
}

// Undo reverts to the last saved edit. It reports whether there was anything
// to undo.
func (s *Sequencer) Undo() bool {
	if len(s.undoStack) == 0 {
		return false
	}
	s.redoStack = pushEdit(s.redoStack, s.snapshot())
	s.restore(s.undoStack[len(s.undoStack)-1])
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	return true
}

// Redo reapplies the last undone edit.
func (s *Sequencer) Redo() bool {
	if len(s.redoStack) == 0 {
		return false
	}
	s.undoStack = pushEdit(s.undoStack, s.snapshot())
	s.restore(s.redoStack[len(s.redoStack)-1])
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	return true
}

func pushEdit(stack []edit, e edit) []edit {
	if len(stack) >= maxUndo {
		stack = stack[1:]
	}
	return append(stack, e)
}

package response

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// bodyViewer shows a non-JSON response payload as selectable monospace
// text. It renders at full contrast like a live entry, but swallows every
// mutation so the displayed body always matches what was received.
type bodyViewer struct {
	widget.Entry
}

func newBodyViewer() *bodyViewer {
	v := &bodyViewer{}
	v.MultiLine = true
	v.Wrapping = fyne.TextWrapWord
	v.TextStyle = fyne.TextStyle{Monospace: true}
	v.ExtendBaseWidget(v)
	return v
}

// TypedRune drops character input.
func (v *bodyViewer) TypedRune(_ rune) {}

// TypedKey keeps cursor and selection movement, drops everything that edits.
func (v *bodyViewer) TypedKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyLeft, fyne.KeyRight, fyne.KeyUp, fyne.KeyDown,
		fyne.KeyHome, fyne.KeyEnd, fyne.KeyPageUp, fyne.KeyPageDown:
		v.Entry.TypedKey(key)
	}
}

// TypedShortcut permits copy and select-all; paste, cut, undo and redo
// fall through to nothing.
func (v *bodyViewer) TypedShortcut(shortcut fyne.Shortcut) {
	switch shortcut.(type) {
	case *fyne.ShortcutCopy, *fyne.ShortcutSelectAll:
		v.Entry.TypedShortcut(shortcut)
	}
}

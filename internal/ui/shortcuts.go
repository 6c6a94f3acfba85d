package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// setupKeyboardShortcuts configures all keyboard shortcuts for the main window
func (w *MainWindow) setupKeyboardShortcuts() {
	canvas := w.window.Canvas()

	// Cmd+Enter: Send request
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyReturn,
		Modifier: fyne.KeyModifierSuper, // Cmd on macOS, Win on Windows
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("Keyboard shortcut: send request")
		w.requestPanel.TriggerSend()
	})

	// Cmd+N: New request
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyN,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("Keyboard shortcut: new request")
		w.sidebarPanel.NewActivity()
	})

	// Cmd+K: Focus URL bar
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyK,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("Keyboard shortcut: focus URL bar")
		w.requestPanel.FocusURL(canvas)
	})

	// Cmd+G: GitHub sync
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyG,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("Keyboard shortcut: github sync")
		w.showSyncDialog()
	})

	// Cmd+Shift+P: Apply suggested changes
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyP,
		Modifier: fyne.KeyModifierSuper | fyne.KeyModifierShift,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("Keyboard shortcut: apply suggested changes")
		w.showPatchDialog()
	})

	// Cmd+Comma: Preferences
	canvas.AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyComma,
		Modifier: fyne.KeyModifierSuper,
	}, func(shortcut fyne.Shortcut) {
		w.logger.Debug("Keyboard shortcut: preferences")
		w.showPreferences()
	})

	// Escape: Cancel the in-flight request
	canvas.SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyEscape {
			w.logger.Debug("Keyboard shortcut: escape (cancel request)")
			w.cancelInFlight()
		}
	})

	w.logger.Info("Keyboard shortcuts configured")
}

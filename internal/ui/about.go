package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Version is set at build time via ldflags:
//
//	go build -ldflags "-X github.com/Apollo-Blaze/CallSensei/internal/ui.Version=1.2.3"
var Version = "dev"

// ShowAboutDialog displays information about the CallSensei application.
func ShowAboutDialog(parent fyne.Window) {
	content := container.NewVBox(
		widget.NewLabelWithStyle("CallSensei", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabel("An HTTP client with a built-in AI assistant"),
		widget.NewLabel("Version "+Version),
		widget.NewSeparator(),
		widget.NewLabel("Built with Fyne and Go"),
	)
	dialog.ShowCustom("About CallSensei", "Close", content, parent)
}

// ShowShortcutDialog displays a reference of all keyboard shortcuts.
func ShowShortcutDialog(parent fyne.Window) {
	shortcuts := []struct{ action, key string }{
		{"Send Request", "⌘ Return"},
		{"New Request", "⌘ N"},
		{"Focus URL Bar", "⌘ K"},
		{"GitHub Sync", "⌘ G"},
		{"Apply Suggested Changes", "⌘ ⇧ P"},
		{"Preferences", "⌘ ,"},
		{"Cancel Operation", "Escape"},
	}

	grid := container.NewGridWithColumns(2)
	for _, s := range shortcuts {
		grid.Add(widget.NewLabel(s.action))
		grid.Add(widget.NewLabelWithStyle(s.key, fyne.TextAlignTrailing, fyne.TextStyle{Monospace: true}))
	}

	dialog.ShowCustom("Keyboard Shortcuts", "Close", container.NewVScroll(grid), parent)
}

package sidebar

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// treeTheme wraps the active theme so the workspace tree can swap the
// expand/collapse chevrons without affecting the rest of the window.
type treeTheme struct {
	parent fyne.Theme
}

func newTreeTheme(parent fyne.Theme) *treeTheme {
	return &treeTheme{parent: parent}
}

func (t *treeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	switch name {
	case theme.IconNameNavigateNext:
		return theme.NavigateNextIcon()
	case theme.IconNameMoveDown:
		return theme.MenuDropDownIcon()
	}
	return t.parent.Icon(name)
}

func (t *treeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.parent.Color(name, variant)
}

func (t *treeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.parent.Font(style)
}

func (t *treeTheme) Size(name fyne.ThemeSizeName) float32 {
	return t.parent.Size(name)
}

package components

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// NewCollapsibleSection creates a collapsible section using Fyne's Accordion.
// The section starts collapsed to save vertical space.
func NewCollapsibleSection(title string, content fyne.CanvasObject) *widget.Accordion {
	accordion := widget.NewAccordion(
		widget.NewAccordionItem(title, content),
	)
	accordion.Close(0)
	return accordion
}

// NewCountedSection creates a collapsed section whose title carries an item
// count, e.g. "Headers (4)". Used for the response headers list.
func NewCountedSection(title string, count int, content fyne.CanvasObject) *widget.Accordion {
	return NewCollapsibleSection(fmt.Sprintf("%s (%d)", title, count), content)
}

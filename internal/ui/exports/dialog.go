package exports

import (
	"fmt"
	"log/slog"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/storage"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// Dialog saves and restores named workspace exports, kept separate from
// the autosaved snapshot so a known-good copy survives later edits.
type Dialog struct {
	window fyne.Window
	store  *workspace.Store
	repo   storage.Repository
	logger *slog.Logger

	nameEntry  *widget.Entry
	exportList *widget.Select
	loadBtn    *widget.Button
	deleteBtn  *widget.Button
}

// NewDialog creates the export/import dialog.
func NewDialog(window fyne.Window, store *workspace.Store, repo storage.Repository, logger *slog.Logger) *Dialog {
	d := &Dialog{
		window: window,
		store:  store,
		repo:   repo,
		logger: logger,
	}

	d.nameEntry = widget.NewEntry()
	d.nameEntry.SetPlaceHolder("e.g. before-refactor")

	d.exportList = widget.NewSelect(nil, func(string) {
		d.loadBtn.Enable()
		d.deleteBtn.Enable()
	})
	d.exportList.PlaceHolder = "Saved exports"

	d.loadBtn = widget.NewButton("Load", func() {
		d.handleLoad()
	})
	d.loadBtn.Disable()

	d.deleteBtn = widget.NewButtonWithIcon("", nil, func() {
		d.handleDelete()
	})
	d.deleteBtn.SetText("✕")
	d.deleteBtn.Disable()

	d.reloadExports()
	return d
}

// Show displays the dialog.
func (d *Dialog) Show() {
	saveBtn := widget.NewButton("Save Export", func() {
		d.handleSave()
	})
	saveBtn.Importance = widget.HighImportance

	saveRow := container.NewBorder(nil, nil, nil, saveBtn, d.nameEntry)
	loadRow := container.NewBorder(nil, nil, nil,
		container.NewHBox(d.loadBtn, d.deleteBtn), d.exportList)

	content := container.NewVBox(
		widget.NewLabel("Save the current workspace under a name:"),
		saveRow,
		widget.NewSeparator(),
		widget.NewLabel("Restore a saved export:"),
		loadRow,
	)

	dlg := dialog.NewCustom("Export / Import Workspace", "Close", content, d.window)
	dlg.Resize(fyne.NewSize(460, 260))
	dlg.Show()
	d.window.Canvas().Focus(d.nameEntry)
}

// handleSave serializes the live workspace under the entered name.
func (d *Dialog) handleSave() {
	name := d.nameEntry.Text
	if name == "" {
		dialog.ShowInformation("Export Workspace", "Enter a name for the export.", d.window)
		return
	}

	doc := workspace.Serialize(d.store.Activities(), d.store.Folders())
	if err := d.repo.SaveExport(name, doc); err != nil {
		dialog.ShowError(err, d.window)
		return
	}

	d.logger.Info("Workspace exported", "name", name, "activities", len(doc.Activities))
	d.nameEntry.SetText("")
	d.reloadExports()
}

// handleLoad restores the selected export, replacing the live workspace
// after a confirmation.
func (d *Dialog) handleLoad() {
	name := d.exportList.Selected
	if name == "" {
		return
	}

	message := fmt.Sprintf("Replace the current workspace with export %q? Unsaved requests will be lost.", name)
	dialog.ShowConfirm("Import Workspace", message, func(load bool) {
		if !load {
			return
		}
		d.loadExport(name)
	}, d.window)
}

// loadExport replaces the live workspace with the named export.
func (d *Dialog) loadExport(name string) {
	doc, err := d.repo.LoadExport(name)
	if err != nil {
		dialog.ShowError(err, d.window)
		return
	}
	activities, folders, err := workspace.Deserialize(*doc)
	if err != nil {
		dialog.ShowError(err, d.window)
		return
	}

	d.store.ReplaceAll(activities, folders)
	d.logger.Info("Workspace imported", "name", name, "activities", len(activities))
}

// handleDelete removes the selected export file after a confirmation.
func (d *Dialog) handleDelete() {
	name := d.exportList.Selected
	if name == "" {
		return
	}

	message := fmt.Sprintf("Delete export %q?", name)
	dialog.ShowConfirm("Delete Export", message, func(del bool) {
		if !del {
			return
		}
		d.deleteExport(name)
	}, d.window)
}

// deleteExport removes the named export file and refreshes the selector.
func (d *Dialog) deleteExport(name string) {
	if err := d.repo.DeleteExport(name); err != nil {
		dialog.ShowError(err, d.window)
		return
	}
	d.logger.Info("Export deleted", "name", name)
	d.reloadExports()
}

// reloadExports refreshes the saved-export selector.
func (d *Dialog) reloadExports() {
	names, err := d.repo.ListExports()
	if err != nil {
		d.logger.Warn("Failed to list exports", "error", err)
		names = nil
	}
	sort.Strings(names)

	d.exportList.ClearSelected()
	d.exportList.SetOptions(names)
	d.loadBtn.Disable()
	d.deleteBtn.Disable()
}

package patchreview

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/patch"
)

// Dialog lets the user paste AI-suggested file changes, preview which
// files they touch, and apply them to a chosen directory.
type Dialog struct {
	window fyne.Window
	logger *slog.Logger

	patchEntry *widget.Entry
	dirLabel   *widget.Label
	baseDir    string

	previewChanges []patch.FileChange
	previewList    *widget.List
	applyBtn       *widget.Button

	// generate, when set, produces patch text from an instruction
	generate func(ctx context.Context, instruction string) (string, error)

	// newApplier is swapped in tests
	newApplier func(baseDir string) applier
}

// applier is the subset of *patch.Applier the dialog drives.
type applier interface {
	Preview(patchText string) ([]patch.FileChange, error)
	Apply(patchText string) ([]patch.FileChange, error)
}

// NewDialog creates the patch review dialog.
func NewDialog(window fyne.Window, logger *slog.Logger) *Dialog {
	d := &Dialog{
		window: window,
		logger: logger,
		newApplier: func(baseDir string) applier {
			return patch.NewApplier(baseDir, logger)
		},
	}

	d.patchEntry = widget.NewMultiLineEntry()
	d.patchEntry.SetPlaceHolder("Paste a diff or file blocks here...")
	d.patchEntry.Wrapping = fyne.TextWrapOff
	d.patchEntry.TextStyle = fyne.TextStyle{Monospace: true}

	d.dirLabel = widget.NewLabel("No directory selected")
	d.dirLabel.Truncation = fyne.TextTruncateEllipsis

	d.previewList = widget.NewList(
		func() int {
			return len(d.previewChanges)
		},
		func() fyne.CanvasObject {
			badge := widget.NewLabel("")
			badge.TextStyle = fyne.TextStyle{Bold: true}
			return container.NewHBox(badge, widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			badge := row.Objects[0].(*widget.Label)
			path := row.Objects[1].(*widget.Label)

			change := d.previewChanges[id]
			badge.SetText(statusBadge(change.Status))
			path.SetText(change.Path)
		},
	)

	d.applyBtn = widget.NewButton("Apply", func() {
		d.handleApply()
	})
	d.applyBtn.Importance = widget.HighImportance
	d.applyBtn.Disable()

	return d
}

// SetGenerator enables the "Generate" row, which turns a plain-language
// instruction into patch text through the AI assistant.
func (d *Dialog) SetGenerator(generate func(ctx context.Context, instruction string) (string, error)) {
	d.generate = generate
}

// Show displays the patch review dialog.
func (d *Dialog) Show() {
	chooseDirBtn := widget.NewButtonWithIcon("Choose...", theme.FolderOpenIcon(), func() {
		d.chooseDirectory()
	})
	dirRow := container.NewBorder(nil, nil, widget.NewLabel("Target:"), chooseDirBtn, d.dirLabel)

	previewBtn := widget.NewButton("Preview", func() {
		d.handlePreview()
	})

	top := fyne.CanvasObject(dirRow)
	if d.generate != nil {
		top = container.NewVBox(dirRow, d.buildGenerateRow())
	}

	left := container.NewBorder(
		top,
		previewBtn,
		nil, nil,
		d.patchEntry,
	)

	right := container.NewBorder(
		widget.NewLabel("Planned changes:"),
		d.applyBtn,
		nil, nil,
		d.previewList,
	)

	split := container.NewHSplit(left, right)
	split.SetOffset(0.6)

	dlg := dialog.NewCustom("Apply Suggested Changes", "Close", split, d.window)
	dlg.Resize(fyne.NewSize(760, 480))
	dlg.Show()
}

// buildGenerateRow lets the user describe a fix and have the assistant
// draft the patch text.
func (d *Dialog) buildGenerateRow() fyne.CanvasObject {
	instructionEntry := widget.NewEntry()
	instructionEntry.SetPlaceHolder("Describe the fix, e.g. \"send the payload as JSON\"")

	var generateBtn *widget.Button
	generateBtn = widget.NewButtonWithIcon("Generate", theme.ComputerIcon(), func() {
		instruction := instructionEntry.Text
		if instruction == "" {
			return
		}
		generateBtn.Disable()
		go func() {
			text, err := d.generate(context.Background(), instruction)
			fyne.Do(func() {
				generateBtn.Enable()
				if err != nil {
					d.logger.Error("Code fix generation failed", "error", err)
					dialog.ShowError(err, d.window)
					return
				}
				d.patchEntry.SetText(text)
			})
		}()
	})

	return container.NewBorder(nil, nil, nil, generateBtn, instructionEntry)
}

func (d *Dialog) chooseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if uri == nil {
			return
		}
		d.setBaseDir(uri.Path())
	}, d.window)
}

func (d *Dialog) setBaseDir(path string) {
	d.baseDir = path
	d.dirLabel.SetText(path)
	// A new target invalidates the previous preview
	d.previewChanges = nil
	d.previewList.Refresh()
	d.applyBtn.Disable()
}

// handlePreview parses the patch text and lists what would change.
func (d *Dialog) handlePreview() {
	if d.baseDir == "" {
		dialog.ShowInformation("Apply Suggested Changes", "Choose a target directory first.", d.window)
		return
	}

	changes, err := d.newApplier(d.baseDir).Preview(d.patchEntry.Text)
	if err != nil {
		d.previewChanges = nil
		d.previewList.Refresh()
		d.applyBtn.Disable()
		dialog.ShowError(err, d.window)
		return
	}

	d.previewChanges = changes
	d.previewList.Refresh()
	d.applyBtn.Enable()
}

// handleApply confirms and writes the previewed changes.
func (d *Dialog) handleApply() {
	if len(d.previewChanges) == 0 {
		return
	}

	message := fmt.Sprintf("Write %d file change(s) under %s?", len(d.previewChanges), d.baseDir)
	dialog.ShowConfirm("Apply Suggested Changes", message, func(apply bool) {
		if !apply {
			return
		}

		applied, err := d.newApplier(d.baseDir).Apply(d.patchEntry.Text)
		if err != nil {
			// Changes applied before the failure stay on disk
			d.logger.Error("Patch application failed", "applied", len(applied), "error", err)
			dialog.ShowError(fmt.Errorf("applied %d of %d changes: %w", len(applied), len(d.previewChanges), err), d.window)
			return
		}

		d.logger.Info("Patch applied", "changes", len(applied), "baseDir", d.baseDir)
		dialog.ShowInformation("Apply Suggested Changes", fmt.Sprintf("Applied %d change(s).", len(applied)), d.window)
	}, d.window)
}

func statusBadge(status patch.Status) string {
	switch status {
	case patch.StatusAdd:
		return "A"
	case patch.StatusModify:
		return "M"
	case patch.StatusDelete:
		return "D"
	}
	return "?"
}

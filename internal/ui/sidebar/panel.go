package sidebar

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/domain"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// Panel is the left-hand workspace sidebar: a toolbar for creating and
// organizing nodes above the activity tree.
type Panel struct {
	widget.BaseWidget

	store  *workspace.Store
	logger *slog.Logger
	window fyne.Window

	tree    *WorkspaceTree
	toolbar *widget.Toolbar

	// onActivitySelect is forwarded from the tree so the main window can
	// load the activity into the editor panels.
	onActivitySelect func(id string)

	// remembers the last folder clicked so New Request / New Folder can
	// nest under it
	activeFolderID string
}

// NewPanel creates the sidebar panel backed by the store.
func NewPanel(store *workspace.Store, window fyne.Window, logger *slog.Logger) *Panel {
	p := &Panel{
		store:  store,
		logger: logger,
		window: window,
	}

	p.tree = NewWorkspaceTree(store)
	p.tree.SetOnActivitySelect(func(id string) {
		if p.onActivitySelect != nil {
			p.onActivitySelect(id)
		}
	})
	p.tree.SetOnFolderSelect(func(id string) {
		p.activeFolderID = id
	})

	p.toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), p.handleNewActivity),
		widget.NewToolbarAction(theme.FolderNewIcon(), p.handleNewFolder),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentCreateIcon(), p.handleRename),
		widget.NewToolbarAction(theme.ContentCopyIcon(), p.handleDuplicate),
		widget.NewToolbarAction(theme.FolderOpenIcon(), p.handleMove),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.DeleteIcon(), p.handleDelete),
	)

	p.ExtendBaseWidget(p)
	return p
}

// SetOnActivitySelect sets the callback fired when an activity is selected.
func (p *Panel) SetOnActivitySelect(fn func(id string)) {
	p.onActivitySelect = fn
}

// Refresh redraws the tree from the store.
func (p *Panel) Refresh() {
	p.tree.Refresh()
}

// SelectActivity highlights the given activity in the tree.
func (p *Panel) SelectActivity(id string) {
	p.tree.Select(id)
}

// CreateRenderer creates the renderer for this widget
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(p.toolbar, nil, nil, nil, p.tree)
	return widget.NewSimpleRenderer(content)
}

// NewActivity creates a fresh activity under the active folder and selects
// it. Exposed so keyboard shortcuts can trigger it.
func (p *Panel) NewActivity() {
	act := domain.NewDefaultActivity()
	act.ParentID = p.activeFolderID
	if err := p.store.AddActivity(act); err != nil {
		p.logger.Error("Failed to add activity", "error", err)
		return
	}
	p.store.SetSelectedActivity(act.ID)
	p.tree.Refresh()
	p.tree.Select(act.ID)
	if p.onActivitySelect != nil {
		p.onActivitySelect(act.ID)
	}
}

func (p *Panel) handleNewActivity() {
	p.NewActivity()
}

func (p *Panel) handleNewFolder() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Folder name")

	content := container.NewVBox(
		widget.NewLabel("Name for the new folder:"),
		entry,
	)

	d := dialog.NewCustomConfirm("New Folder", "Create", "Cancel", content, func(create bool) {
		if !create {
			return
		}
		p.store.AddFolder(domain.Folder{
			Name:     entry.Text,
			ParentID: p.activeFolderID,
		})
		p.tree.Refresh()
	}, p.window)
	d.Resize(fyne.NewSize(320, 150))
	d.Show()
	p.window.Canvas().Focus(entry)
}

func (p *Panel) handleRename() {
	id := p.store.SelectedActivityID()
	if id == "" {
		p.renameActiveFolder()
		return
	}
	act, ok := p.store.ActivityByID(id)
	if !ok {
		return
	}

	entry := widget.NewEntry()
	entry.SetText(act.Name)

	content := container.NewVBox(
		widget.NewLabel("New name:"),
		entry,
	)

	d := dialog.NewCustomConfirm("Rename Request", "Rename", "Cancel", content, func(rename bool) {
		if !rename || entry.Text == "" {
			return
		}
		p.store.RenameActivity(id, entry.Text)
		p.tree.Refresh()
	}, p.window)
	d.Resize(fyne.NewSize(320, 150))
	d.Show()
	p.window.Canvas().Focus(entry)
}

func (p *Panel) renameActiveFolder() {
	folder, ok := p.store.FolderByID(p.activeFolderID)
	if !ok {
		return
	}

	entry := widget.NewEntry()
	entry.SetText(folder.Name)

	content := container.NewVBox(
		widget.NewLabel("New name:"),
		entry,
	)

	d := dialog.NewCustomConfirm("Rename Folder", "Rename", "Cancel", content, func(rename bool) {
		if !rename || entry.Text == "" {
			return
		}
		p.store.RenameFolder(folder.ID, entry.Text)
		p.tree.Refresh()
	}, p.window)
	d.Resize(fyne.NewSize(320, 150))
	d.Show()
	p.window.Canvas().Focus(entry)
}

func (p *Panel) handleDuplicate() {
	id := p.store.SelectedActivityID()
	if id == "" {
		return
	}
	newID := p.store.DuplicateActivity(id)
	if newID == "" {
		return
	}
	p.store.SetSelectedActivity(newID)
	p.tree.Refresh()
	p.tree.Select(newID)
	if p.onActivitySelect != nil {
		p.onActivitySelect(newID)
	}
}

// handleMove shows a folder picker and reparents the selected activity, or
// the active folder when no activity is selected.
func (p *Panel) handleMove() {
	nodeType := workspace.NodeActivity
	nodeID := p.store.SelectedActivityID()
	title := "Move Request"
	if nodeID == "" {
		if _, ok := p.store.FolderByID(p.activeFolderID); !ok {
			return
		}
		nodeType = workspace.NodeFolder
		nodeID = p.activeFolderID
		title = "Move Folder"
	}

	excludeID := ""
	if nodeType == workspace.NodeFolder {
		excludeID = nodeID
	}
	names, ids := p.moveTargets(excludeID)

	sel := widget.NewSelect(names, nil)
	sel.SetSelected(rootLabel)

	content := container.NewVBox(
		widget.NewLabel("Destination folder:"),
		sel,
	)

	d := dialog.NewCustomConfirm(title, "Move", "Cancel", content, func(move bool) {
		if !move {
			return
		}
		targetID := ids[sel.Selected]
		if err := p.store.MoveNode(nodeType, nodeID, targetID); err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		p.tree.Refresh()
	}, p.window)
	d.Resize(fyne.NewSize(320, 150))
	d.Show()
}

// rootLabel is the move picker's entry for the workspace root.
const rootLabel = "(workspace root)"

// moveTargets builds the destination options for the move picker, keyed by
// a label the user can tell apart even when folder names repeat. excludeID
// keeps a folder from being offered as its own destination.
func (p *Panel) moveTargets(excludeID string) ([]string, map[string]string) {
	names := []string{rootLabel}
	ids := map[string]string{rootLabel: ""}
	for _, folder := range p.store.Folders() {
		if folder.ID == excludeID {
			continue
		}
		label := p.folderPath(folder)
		if _, taken := ids[label]; taken {
			// Same name under the same ancestry; fall back to the id
			label = fmt.Sprintf("%s (%.8s)", label, folder.ID)
		}
		names = append(names, label)
		ids[label] = folder.ID
	}
	return names, ids
}

// folderPath renders the folder's ancestry as "Parent / Child" so folders
// sharing a name stay distinguishable in the move picker.
func (p *Panel) folderPath(folder domain.Folder) string {
	label := folder.Name
	for parentID := folder.ParentID; parentID != ""; {
		parent, ok := p.store.FolderByID(parentID)
		if !ok {
			break
		}
		label = parent.Name + " / " + label
		parentID = parent.ParentID
	}
	return label
}

func (p *Panel) handleDelete() {
	id := p.store.SelectedActivityID()
	if id == "" {
		p.deleteActiveFolder()
		return
	}
	act, ok := p.store.ActivityByID(id)
	if !ok {
		return
	}

	message := fmt.Sprintf("Delete request %q? This cannot be undone.", act.Name)
	dialog.ShowConfirm("Delete Request", message, func(del bool) {
		if !del {
			return
		}
		p.store.DeleteActivity(id)
		p.tree.Refresh()
	}, p.window)
}

func (p *Panel) deleteActiveFolder() {
	folder, ok := p.store.FolderByID(p.activeFolderID)
	if !ok {
		return
	}

	message := fmt.Sprintf("Delete folder %q and everything inside it? This cannot be undone.", folder.Name)
	dialog.ShowConfirm("Delete Folder", message, func(del bool) {
		if !del {
			return
		}
		p.store.DeleteFolder(folder.ID)
		p.activeFolderID = ""
		p.tree.Refresh()
	}, p.window)
}

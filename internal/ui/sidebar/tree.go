package sidebar

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Apollo-Blaze/CallSensei/internal/ui/components"
	"github.com/Apollo-Blaze/CallSensei/internal/workspace"
)

// Tree UID prefixes. Folders are branches, activities are leaves.
const (
	folderUIDPrefix   = "f:"
	activityUIDPrefix = "a:"
)

// WorkspaceTree displays the folder/activity hierarchy from the store in a
// tree view.
type WorkspaceTree struct {
	widget.BaseWidget

	tree       *widget.Tree
	themedTree fyne.CanvasObject // tree wrapped with custom theme
	store      *workspace.Store

	// Callbacks
	onActivitySelect func(id string)
	onFolderSelect   func(id string)
}

// NewWorkspaceTree creates a tree widget backed by the store.
func NewWorkspaceTree(store *workspace.Store) *WorkspaceTree {
	t := &WorkspaceTree{
		store: store,
	}

	t.tree = widget.NewTree(
		t.childUIDs,
		t.isBranch,
		t.create,
		t.update,
	)

	t.tree.OnSelected = t.onTreeSelected

	// Custom chevron icons affect only the tree, not the rest of the UI
	customTheme := newTreeTheme(theme.DefaultTheme())
	t.themedTree = container.NewThemeOverride(t.tree, customTheme)

	t.ExtendBaseWidget(t)
	return t
}

// SetOnActivitySelect sets the callback for when an activity row is selected.
func (t *WorkspaceTree) SetOnActivitySelect(fn func(id string)) {
	t.onActivitySelect = fn
}

// SetOnFolderSelect sets the callback for when a folder row is selected.
func (t *WorkspaceTree) SetOnFolderSelect(fn func(id string)) {
	t.onFolderSelect = fn
}

// Refresh redraws the tree from the store.
func (t *WorkspaceTree) Refresh() {
	t.tree.Refresh()
}

// Select highlights the row for the given activity id.
func (t *WorkspaceTree) Select(activityID string) {
	if activityID == "" {
		t.tree.UnselectAll()
		return
	}
	t.tree.Select(activityUIDPrefix + activityID)
}

// CreateRenderer creates the renderer for this widget
func (t *WorkspaceTree) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.themedTree)
}

// childUIDs returns child UIDs for a parent UID. Folders sort before
// activities within each level, matching store insertion order.
func (t *WorkspaceTree) childUIDs(uid string) []string {
	parentID := ""
	if uid != "" {
		if !strings.HasPrefix(uid, folderUIDPrefix) {
			// Activities have no children
			return []string{}
		}
		parentID = strings.TrimPrefix(uid, folderUIDPrefix)
	}

	var uids []string
	for _, folder := range t.store.FoldersIn(parentID) {
		uids = append(uids, folderUIDPrefix+folder.ID)
	}
	for _, act := range t.store.ActivitiesIn(parentID) {
		uids = append(uids, activityUIDPrefix+act.ID)
	}
	return uids
}

// isBranch reports whether the UID is a folder (or the root).
func (t *WorkspaceTree) isBranch(uid string) bool {
	return uid == "" || strings.HasPrefix(uid, folderUIDPrefix)
}

// create creates a new tree row widget. Branches and leaves share one
// structure so the tree can recycle rows freely.
func (t *WorkspaceTree) create(branch bool) fyne.CanvasObject {
	icon := canvas.NewImageFromResource(theme.FolderIcon())
	icon.FillMode = canvas.ImageFillContain
	icon.SetMinSize(fyne.NewSize(16, 16))

	label := widget.NewLabel("")
	hint := components.NewHintLabel("")

	return container.NewHBox(icon, label, hint)
}

// update fills a tree row with the node's data.
func (t *WorkspaceTree) update(uid string, branch bool, obj fyne.CanvasObject) {
	cont := obj.(*fyne.Container)
	icon := cont.Objects[0].(*canvas.Image)
	label := cont.Objects[1].(*widget.Label)
	hint := cont.Objects[2].(*components.HintLabel)

	if branch {
		folder, ok := t.store.FolderByID(strings.TrimPrefix(uid, folderUIDPrefix))
		if !ok {
			return
		}
		icon.Resource = theme.FolderIcon()
		icon.Refresh()

		label.SetText(folder.Name)
		label.TextStyle = fyne.TextStyle{Bold: true}
		label.Importance = widget.MediumImportance
		hint.SetText("")
		return
	}

	act, ok := t.store.ActivityByID(strings.TrimPrefix(uid, activityUIDPrefix))
	if !ok {
		return
	}
	icon.Resource = methodIcon(act.Request.Method)
	icon.Refresh()

	label.SetText(act.Name)
	label.TextStyle = fyne.TextStyle{}
	label.Importance = widget.MediumImportance
	if act.URL != act.Name {
		hint.SetText(act.URL)
	} else {
		hint.SetText("")
	}
}

// methodIcon returns a distinct icon per HTTP method so rows can be told
// apart at a glance.
func methodIcon(method string) fyne.Resource {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return theme.DownloadIcon()
	case "POST":
		return theme.MailSendIcon()
	case "PUT", "PATCH":
		return theme.UploadIcon()
	case "DELETE":
		return theme.DeleteIcon()
	default:
		return theme.DocumentIcon()
	}
}

// onTreeSelected handles row selection.
func (t *WorkspaceTree) onTreeSelected(uid string) {
	if strings.HasPrefix(uid, activityUIDPrefix) {
		id := strings.TrimPrefix(uid, activityUIDPrefix)
		t.store.SetSelectedActivity(id)
		if t.onActivitySelect != nil {
			t.onActivitySelect(id)
		}
		return
	}

	// Folder selection toggles expansion
	if t.tree.IsBranchOpen(uid) {
		t.tree.CloseBranch(uid)
	} else {
		t.tree.OpenBranch(uid)
	}
	if t.onFolderSelect != nil {
		t.onFolderSelect(strings.TrimPrefix(uid, folderUIDPrefix))
	}
	// Unselect so clicking the same folder again fires OnSelected
	t.tree.UnselectAll()
}
